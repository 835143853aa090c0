package setup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorycore/internal/adapters/memory"
	"github.com/andrescamacho/factorycore/internal/application/setup"
	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/crafting"
	"github.com/andrescamacho/factorycore/internal/domain/eligibility"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/fuel"
	"github.com/andrescamacho/factorycore/internal/domain/power"
	"github.com/andrescamacho/factorycore/internal/domain/production"
	"github.com/andrescamacho/factorycore/internal/domain/shared"
)

func newDriver(store *memory.InventoryStore) *simulation.Driver {
	cat := catalog.Standard()
	clock := shared.NewMockClock(time.Time{})
	return simulation.NewDriver(simulation.Dependencies{
		Catalog:    cat,
		Store:      store,
		Power:      power.NewCalculator(cat),
		Fuel:       fuel.NewSimulator(cat, clock, fuel.DefaultConfig()),
		Production: production.NewEngine(cat),
		Resolver:   crafting.NewResolver(cat, eligibility.NewClassifier(eligibility.DefaultConfig(), cat), crafting.DefaultOptions(), clock),
		Clock:      clock,
	})
}

func TestHandlerRegistry_DispatchesSimulationCommands(t *testing.T) {
	// Arrange
	store := memory.NewInventoryStore(map[string]int{"coal": 4, "iron-ore": 5}, nil, 0)
	m, err := setup.NewHandlerRegistry(newDriver(store)).CreateConfiguredMediator()
	require.NoError(t, err)
	ctx := context.Background()

	// Act
	placed, err := m.Send(ctx, &simulation.PlaceFacilityCommand{FacilityType: "stone-furnace", Count: 1, RecipeID: "iron-plate"})
	require.NoError(t, err)
	furnace := placed.(*simulation.PlaceFacilityResponse).Facility

	_, err = m.Send(ctx, &simulation.FacilityActionCommand{
		FacilityID: furnace.ID, Action: simulation.FacilityActionAddFuel, ItemID: "coal", Quantity: 1,
	})
	require.NoError(t, err)

	ran, err := m.Send(ctx, &simulation.RunTicksCommand{Ticks: 4, Elapsed: 1})
	require.NoError(t, err)

	status, err := m.Send(ctx, &simulation.GetFuelStatusQuery{FacilityID: furnace.ID})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "iron-plate", furnace.RecipeID())
	assert.Len(t, ran.(*simulation.RunTicksResponse).Reports, 4)
	assert.Equal(t, 1, store.Quantity("iron-plate"))
	assert.InDelta(t, 4000-4*90, status.(*fuel.Status).TotalEnergy, 1e-9)
}

func TestHandlerRegistry_PlaceWithUnsupportedRecipeRollsBack(t *testing.T) {
	// Arrange
	store := memory.NewInventoryStore(nil, nil, 0)
	m, err := setup.NewHandlerRegistry(newDriver(store)).CreateConfiguredMediator()
	require.NoError(t, err)
	ctx := context.Background()

	// Act
	_, err = m.Send(ctx, &simulation.PlaceFacilityCommand{FacilityType: "assembling-machine", Count: 1, RecipeID: "iron-plate"})
	listed, listErr := m.Send(ctx, &simulation.ListFacilitiesQuery{})

	// Assert
	var unsupported *facility.ErrRecipeNotSupported
	require.ErrorAs(t, err, &unsupported)
	require.NoError(t, listErr)
	assert.Empty(t, listed.([]*facility.Facility))
}

func TestHandlerRegistry_CraftQueries(t *testing.T) {
	// Arrange
	store := memory.NewInventoryStore(map[string]int{"wood": 4}, nil, 0)
	m, err := setup.NewHandlerRegistry(newDriver(store)).CreateConfiguredMediator()
	require.NoError(t, err)
	ctx := context.Background()

	// Act
	crafted, err := m.Send(ctx, &simulation.RequestCraftCommand{ItemID: "wooden-chest", Quantity: 2})
	require.NoError(t, err)
	craftable, err := m.Send(ctx, &simulation.ListCraftableQuery{ItemIDs: []string{"wooden-chest", "sulfur"}})
	require.NoError(t, err)
	balance, err := m.Send(ctx, &simulation.GetPowerBalanceQuery{})
	require.NoError(t, err)

	// Assert
	assert.Len(t, crafted.(*crafting.ChainAnalysis).Tasks, 1)
	assert.Zero(t, store.Quantity("wood"))
	assert.Equal(t, []string{"wooden-chest"}, craftable)
	assert.Equal(t, power.StatusBalanced, balance.(*power.Balance).Status)
}
