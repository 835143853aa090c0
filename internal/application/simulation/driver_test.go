package simulation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorycore/internal/adapters/memory"
	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/crafting"
	"github.com/andrescamacho/factorycore/internal/domain/eligibility"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/fuel"
	"github.com/andrescamacho/factorycore/internal/domain/inventory"
	"github.com/andrescamacho/factorycore/internal/domain/power"
	"github.com/andrescamacho/factorycore/internal/domain/production"
	"github.com/andrescamacho/factorycore/internal/domain/shared"
)

type recordingMetrics struct {
	ticks    int
	failures []string
	crafts   map[string]bool
}

func (m *recordingMetrics) RecordTick(*simulation.TickReport) {
	m.ticks++
}

func (m *recordingMetrics) RecordTickFailure(reason string) {
	m.failures = append(m.failures, reason)
}

func (m *recordingMetrics) RecordCraftRequest(itemID string, accepted bool) {
	if m.crafts == nil {
		m.crafts = make(map[string]bool)
	}
	m.crafts[itemID] = accepted
}

type recordingPublisher struct {
	reports []*simulation.TickReport
}

func (p *recordingPublisher) Publish(report *simulation.TickReport) {
	p.reports = append(p.reports, report)
}

// flakyStore fails the next N commits
type flakyStore struct {
	*memory.InventoryStore
	failures int
}

func (s *flakyStore) BatchAdjust(ctx context.Context, adjustments []inventory.Adjustment) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("database unavailable")
	}
	return s.InventoryStore.BatchAdjust(ctx, adjustments)
}

type fixture struct {
	driver    *simulation.Driver
	store     *memory.InventoryStore
	metrics   *recordingMetrics
	publisher *recordingPublisher
}

func newFixture(t *testing.T, store inventory.Store, mem *memory.InventoryStore, env simulation.EnvironmentFunc) *fixture {
	t.Helper()
	cat := catalog.Standard()
	clock := shared.NewMockClock(time.Time{})
	metrics := &recordingMetrics{}
	publisher := &recordingPublisher{}

	driver := simulation.NewDriver(simulation.Dependencies{
		Catalog:     cat,
		Store:       store,
		Power:       power.NewCalculator(cat),
		Fuel:        fuel.NewSimulator(cat, clock, fuel.DefaultConfig()),
		Production:  production.NewEngine(cat),
		Resolver:    crafting.NewResolver(cat, eligibility.NewClassifier(eligibility.DefaultConfig(), cat), crafting.DefaultOptions(), clock),
		Clock:       clock,
		Metrics:     metrics,
		Publisher:   publisher,
		Environment: env,
	})
	return &fixture{driver: driver, store: mem, metrics: metrics, publisher: publisher}
}

func newMemoryFixture(t *testing.T, quantities map[string]int) *fixture {
	t.Helper()
	store := memory.NewInventoryStore(quantities, nil, 0)
	return newFixture(t, store, store, nil)
}

func placeFurnace(t *testing.T, fx *fixture, recipeID string) *facility.Facility {
	t.Helper()
	ctx := context.Background()
	f, err := fx.driver.AddFacility(ctx, "stone-furnace", 1)
	require.NoError(t, err)
	require.NoError(t, fx.driver.SetRecipe(ctx, f.ID, recipeID))
	return f
}

func TestDriver_AddFacilityInitialisesFuelBuffer(t *testing.T) {
	// Arrange
	fx := newMemoryFixture(t, nil)

	// Act
	furnace, err := fx.driver.AddFacility(context.Background(), "stone-furnace", 2)
	require.NoError(t, err)
	panel, err := fx.driver.AddFacility(context.Background(), "solar-panel", 1)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, facility.StatusNoFuel, furnace.Status)
	require.NotNil(t, furnace.Fuel)
	assert.True(t, furnace.Fuel.IsEmpty())
	assert.InDelta(t, 90*120, furnace.Fuel.MaxEnergy(), 1e-9)
	assert.Equal(t, 2, furnace.Count)
	assert.Contains(t, furnace.ID, "stone-furnace-")

	assert.Equal(t, facility.StatusRunning, panel.Status)
	assert.Nil(t, panel.Fuel)
	assert.Len(t, fx.driver.Facilities(), 2)
}

func TestDriver_AddFacilityRejectsUnknownType(t *testing.T) {
	// Arrange
	fx := newMemoryFixture(t, nil)

	// Act
	_, err := fx.driver.AddFacility(context.Background(), "warp-drive", 1)

	// Assert
	var unknown *simulation.ErrUnknownFacilityType
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "warp-drive", unknown.FacilityType)
}

func TestDriver_TickRefuelsBurnsAndProduces(t *testing.T) {
	// Arrange
	fx := newMemoryFixture(t, map[string]int{"coal": 5, "iron-ore": 10})
	furnace := placeFurnace(t, fx, "iron-plate")
	ctx := context.Background()

	// Act
	first, err := fx.driver.Tick(ctx, 1.0)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = fx.driver.Tick(ctx, 1.0)
		require.NoError(t, err)
	}

	// Assert
	assert.Equal(t, []inventory.Adjustment{{ItemID: "coal", Delta: -2}}, first.Refuels)
	assert.Contains(t, first.Transitions, production.Transition{
		FacilityID: furnace.ID, From: facility.StatusNoFuel, To: facility.StatusRunning,
	})
	assert.InDelta(t, 90, first.FuelConsumed, 1e-9)

	assert.Equal(t, 3, fx.store.Quantity("coal"))
	assert.Equal(t, 9, fx.store.Quantity("iron-ore"))
	assert.Equal(t, 1, fx.store.Quantity("iron-plate"))

	got, err := fx.driver.Facility(furnace.ID)
	require.NoError(t, err)
	assert.Equal(t, facility.StatusRunning, got.Status)
	assert.InDelta(t, 0.25, got.Production.Progress, 1e-9)
	assert.InDelta(t, 8000-4*90, got.Fuel.TotalEnergy(), 1e-9)
	assert.Equal(t, uint64(4), fx.driver.TickCount())
	assert.Equal(t, 4, fx.metrics.ticks)
	assert.Len(t, fx.publisher.reports, 4)
}

func TestDriver_TickStarvedBurnerGoesNoFuel(t *testing.T) {
	// Arrange
	fx := newMemoryFixture(t, map[string]int{"wood": 1, "iron-ore": 10})
	furnace := placeFurnace(t, fx, "iron-plate")
	ctx := context.Background()
	require.NoError(t, fx.driver.AddFuel(ctx, furnace.ID, "wood", 1))
	_, err := fx.driver.Tick(ctx, 1.0)
	require.NoError(t, err)

	// Act
	report, err := fx.driver.Tick(ctx, 30.0)
	require.NoError(t, err)

	// Assert
	assert.Contains(t, report.Transitions, production.Transition{
		FacilityID: furnace.ID, From: facility.StatusRunning, To: facility.StatusNoFuel,
	})
	assert.InDelta(t, 2000-90, report.FuelConsumed, 1e-9)
	assert.Empty(t, report.Cycles)

	got, err := fx.driver.Facility(furnace.ID)
	require.NoError(t, err)
	assert.Equal(t, facility.StatusNoFuel, got.Status)
	assert.True(t, got.Fuel.IsEmpty())
	assert.InDelta(t, 1/3.2, got.Production.Progress, 1e-9)
	assert.Equal(t, 10, fx.store.Quantity("iron-ore"))
}

func TestDriver_FailedCommitDiscardsTickState(t *testing.T) {
	// Arrange
	mem := memory.NewInventoryStore(map[string]int{"coal": 5, "iron-ore": 10}, nil, 0)
	store := &flakyStore{InventoryStore: mem, failures: 1}
	fx := newFixture(t, store, mem, nil)
	furnace := placeFurnace(t, fx, "iron-plate")
	ctx := context.Background()

	// Act
	report, err := fx.driver.Tick(ctx, 1.0)

	// Assert
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Equal(t, []string{"commit"}, fx.metrics.failures)
	assert.Zero(t, fx.driver.TickCount())
	assert.Equal(t, 5, mem.Quantity("coal"))

	got, err := fx.driver.Facility(furnace.ID)
	require.NoError(t, err)
	assert.Equal(t, facility.StatusNoFuel, got.Status)
	assert.True(t, got.Fuel.IsEmpty())
	assert.Zero(t, got.Production.Progress)

	// The retry starts again from the committed state
	_, err = fx.driver.Tick(ctx, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 3, mem.Quantity("coal"))
	assert.Equal(t, uint64(1), fx.driver.TickCount())
}

func TestDriver_PowerDeficitAndRecovery(t *testing.T) {
	// Arrange
	fx := newMemoryFixture(t, map[string]int{"iron-ore": 10})
	ctx := context.Background()
	furnace, err := fx.driver.AddFacility(ctx, "electric-furnace", 1)
	require.NoError(t, err)
	require.NoError(t, fx.driver.SetRecipe(ctx, furnace.ID, "iron-plate"))

	// Act
	dark, err := fx.driver.Tick(ctx, 1.0)
	require.NoError(t, err)
	_, err = fx.driver.AddFacility(ctx, "solar-panel", 4)
	require.NoError(t, err)
	lit, err := fx.driver.Tick(ctx, 1.0)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, power.StatusDeficit, dark.Power.Status)
	assert.Zero(t, dark.Power.SatisfactionRatio)
	assert.Contains(t, dark.Transitions, production.Transition{
		FacilityID: furnace.ID, From: facility.StatusRunning, To: facility.StatusNoPower,
	})

	assert.Equal(t, power.StatusSurplus, lit.Power.Status)
	assert.InDelta(t, 240, lit.Power.Generation, 1e-9)
	assert.InDelta(t, 180, lit.Power.Demand, 1e-9)
	got, err := fx.driver.Facility(furnace.ID)
	require.NoError(t, err)
	assert.Equal(t, facility.StatusRunning, got.Status)
	assert.InDelta(t, 1/3.2, got.Production.Progress, 1e-9)
	assert.Equal(t, power.StatusSurplus, fx.driver.LastBalance().Status)
}

func TestDriver_BurnerGeneratorPowersGridAfterRefuel(t *testing.T) {
	// Arrange
	fx := newMemoryFixture(t, map[string]int{"coal": 10})
	ctx := context.Background()
	generator, err := fx.driver.AddFacility(ctx, "burner-generator", 1)
	require.NoError(t, err)
	assembler, err := fx.driver.AddFacility(ctx, "assembling-machine", 1)
	require.NoError(t, err)

	// Act
	first, err := fx.driver.Tick(ctx, 1.0)
	require.NoError(t, err)
	second, err := fx.driver.Tick(ctx, 1.0)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, []inventory.Adjustment{{ItemID: "coal", Delta: -10}}, first.Refuels)
	assert.Zero(t, first.Power.Generation)
	assert.InDelta(t, 900, second.Power.Generation, 1e-9)
	assert.InDelta(t, 75, second.Power.Demand, 1e-9)

	gen, err := fx.driver.Facility(generator.ID)
	require.NoError(t, err)
	assert.Equal(t, facility.StatusRunning, gen.Status)
	assert.Less(t, gen.Fuel.TotalEnergy(), 40000.0)

	asm, err := fx.driver.Facility(assembler.ID)
	require.NoError(t, err)
	assert.Equal(t, facility.StatusRunning, asm.Status)
	assert.Equal(t, 0, fx.store.Quantity("coal"))
}

func TestDriver_StoppedFacilityIsFrozen(t *testing.T) {
	// Arrange
	fx := newMemoryFixture(t, map[string]int{"coal": 5, "iron-ore": 10})
	furnace := placeFurnace(t, fx, "iron-plate")
	ctx := context.Background()
	require.NoError(t, fx.driver.AddFuel(ctx, furnace.ID, "coal", 1))
	require.NoError(t, fx.driver.StopFacility(ctx, furnace.ID))

	// Act
	_, err := fx.driver.Tick(ctx, 10.0)
	require.NoError(t, err)

	// Assert
	got, err := fx.driver.Facility(furnace.ID)
	require.NoError(t, err)
	assert.Equal(t, facility.StatusStopped, got.Status)
	assert.InDelta(t, 4000, got.Fuel.TotalEnergy(), 1e-9)
	assert.Zero(t, got.Production.Progress)
	assert.Equal(t, 4, fx.store.Quantity("coal"))
}

func TestDriver_FaultInPowerStepDoesNotHaltTick(t *testing.T) {
	// Arrange
	store := memory.NewInventoryStore(map[string]int{"coal": 5, "iron-ore": 10}, nil, 0)
	fx := newFixture(t, store, store, func(time.Time, []*facility.Facility) power.Environment {
		panic("sensor offline")
	})
	furnace := placeFurnace(t, fx, "iron-plate")

	// Act
	report, err := fx.driver.Tick(context.Background(), 1.0)

	// Assert
	require.NoError(t, err)
	require.Len(t, report.Faults, 1)
	assert.Contains(t, report.Faults[0], "power")
	assert.Equal(t, power.StatusBalanced, report.Power.Status)

	got, err := fx.driver.Facility(furnace.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1/3.2, got.Production.Progress, 1e-9)
}

func TestDriver_AddFuel(t *testing.T) {
	ctx := context.Background()

	t.Run("moves fuel from inventory into the buffer", func(t *testing.T) {
		// Arrange
		fx := newMemoryFixture(t, map[string]int{"coal": 3})
		furnace := placeFurnace(t, fx, "iron-plate")

		// Act
		err := fx.driver.AddFuel(ctx, furnace.ID, "coal", 2)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, fx.store.Quantity("coal"))
		status, err := fx.driver.FuelStatus(furnace.ID)
		require.NoError(t, err)
		assert.InDelta(t, 8000, status.TotalEnergy, 1e-9)
		assert.Equal(t, 1, status.SlotCount)
	})

	t.Run("insufficient stock leaves everything unchanged", func(t *testing.T) {
		// Arrange
		fx := newMemoryFixture(t, map[string]int{"coal": 1})
		furnace := placeFurnace(t, fx, "iron-plate")

		// Act
		err := fx.driver.AddFuel(ctx, furnace.ID, "coal", 2)

		// Assert
		var short *simulation.ErrInsufficientStock
		require.ErrorAs(t, err, &short)
		assert.Equal(t, 1, short.Available)
		assert.Equal(t, 1, fx.store.Quantity("coal"))
	})

	t.Run("non-fuel items are rejected before any withdrawal", func(t *testing.T) {
		// Arrange
		fx := newMemoryFixture(t, map[string]int{"iron-ore": 5})
		furnace := placeFurnace(t, fx, "iron-plate")

		// Act
		err := fx.driver.AddFuel(ctx, furnace.ID, "iron-ore", 1)

		// Assert
		var notFuel *fuel.ErrNotFuel
		require.ErrorAs(t, err, &notFuel)
		assert.Equal(t, 5, fx.store.Quantity("iron-ore"))
		assert.Zero(t, fx.store.BatchCount())
	})

	t.Run("facilities without a buffer are rejected", func(t *testing.T) {
		// Arrange
		fx := newMemoryFixture(t, map[string]int{"coal": 5})
		panel, err := fx.driver.AddFacility(ctx, "solar-panel", 1)
		require.NoError(t, err)

		// Act
		err = fx.driver.AddFuel(ctx, panel.ID, "coal", 1)

		// Assert
		var noBuffer *fuel.ErrNoFuelBuffer
		require.ErrorAs(t, err, &noBuffer)
	})
}

func TestDriver_SetRecipeValidation(t *testing.T) {
	// Arrange
	fx := newMemoryFixture(t, nil)
	ctx := context.Background()
	assembler, err := fx.driver.AddFacility(ctx, "assembling-machine", 1)
	require.NoError(t, err)

	// Act
	unsupported := fx.driver.SetRecipe(ctx, assembler.ID, "iron-plate")
	unknown := fx.driver.SetRecipe(ctx, assembler.ID, "warp-core")
	missing := fx.driver.SetRecipe(ctx, "nope", "iron-gear-wheel")
	ok := fx.driver.SetRecipe(ctx, assembler.ID, "iron-gear-wheel")

	// Assert
	var notSupported *facility.ErrRecipeNotSupported
	require.ErrorAs(t, unsupported, &notSupported)
	var notFound *shared.NotFoundError
	require.ErrorAs(t, unknown, &notFound)
	assert.Equal(t, "recipe", notFound.Kind)
	var noFacility *facility.ErrFacilityNotFound
	require.ErrorAs(t, missing, &noFacility)
	require.NoError(t, ok)

	got, err := fx.driver.Facility(assembler.ID)
	require.NoError(t, err)
	assert.Equal(t, "iron-gear-wheel", got.RecipeID())
}

func TestDriver_RemoveFacility(t *testing.T) {
	// Arrange
	fx := newMemoryFixture(t, nil)
	ctx := context.Background()
	a, err := fx.driver.AddFacility(ctx, "solar-panel", 1)
	require.NoError(t, err)
	b, err := fx.driver.AddFacility(ctx, "lab", 1)
	require.NoError(t, err)

	// Act
	require.NoError(t, fx.driver.RemoveFacility(ctx, a.ID))
	err = fx.driver.RemoveFacility(ctx, a.ID)

	// Assert
	var notFound *facility.ErrFacilityNotFound
	require.ErrorAs(t, err, &notFound)
	remaining := fx.driver.Facilities()
	require.Len(t, remaining, 1)
	assert.Equal(t, b.ID, remaining[0].ID)
}

func TestDriver_RequestCraftCommitsThenCreditsOnCompletion(t *testing.T) {
	// Arrange
	fx := newMemoryFixture(t, map[string]int{"iron-plate": 10})
	ctx := context.Background()

	// Act
	analysis, err := fx.driver.RequestCraft(ctx, "iron-gear-wheel", 2)
	require.NoError(t, err)
	afterRequest := fx.store.Quantity("iron-plate")
	first, err := fx.driver.Tick(ctx, 0.6)
	require.NoError(t, err)
	second, err := fx.driver.Tick(ctx, 0.6)
	require.NoError(t, err)

	// Assert
	require.Len(t, analysis.Tasks, 1)
	assert.InDelta(t, 1.0, analysis.TotalDuration, 1e-9)
	assert.Equal(t, 6, afterRequest)
	assert.Empty(t, first.CompletedTasks)
	assert.Equal(t, []string{analysis.Tasks[0].ID()}, second.CompletedTasks)
	assert.Equal(t, 2, fx.store.Quantity("iron-gear-wheel"))
	assert.Empty(t, fx.driver.CraftQueue())
	assert.True(t, fx.metrics.crafts["iron-gear-wheel"])
}

func TestDriver_RequestCraftInfeasibleLeavesInventoryUntouched(t *testing.T) {
	// Arrange
	fx := newMemoryFixture(t, map[string]int{"iron-plate": 10})

	// Act
	analysis, err := fx.driver.RequestCraft(context.Background(), "iron-gear-wheel", 10)

	// Assert
	require.ErrorIs(t, err, simulation.ErrCraftInfeasible)
	assert.Nil(t, analysis)
	assert.Equal(t, 10, fx.store.Quantity("iron-plate"))
	assert.Zero(t, fx.store.BatchCount())
	assert.Empty(t, fx.driver.CraftQueue())
	assert.False(t, fx.metrics.crafts["iron-gear-wheel"])
}

func TestDriver_CancelCraftDropsTaskWithoutRefund(t *testing.T) {
	// Arrange
	fx := newMemoryFixture(t, map[string]int{"iron-plate": 4})
	ctx := context.Background()
	analysis, err := fx.driver.RequestCraft(ctx, "iron-gear-wheel", 2)
	require.NoError(t, err)

	// Act
	cancelled, err := fx.driver.CancelCraft(ctx, analysis.MainTask.ID())
	require.NoError(t, err)
	_, err = fx.driver.Tick(ctx, 5)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, []string{analysis.MainTask.ID()}, cancelled)
	assert.Empty(t, fx.driver.CraftQueue())
	assert.Zero(t, fx.store.Quantity("iron-plate"))
	assert.Zero(t, fx.store.Quantity("iron-gear-wheel"))

	_, err = fx.driver.CancelCraft(ctx, analysis.MainTask.ID())
	var notFound *crafting.ErrTaskNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestDriver_CraftableItemsHonoursUnlockOracle(t *testing.T) {
	// Arrange
	fx := newMemoryFixture(t, nil)
	items := []string{"wooden-chest", "iron-plate", "iron-gear-wheel", "electronic-circuit", "iron-ore"}

	// Act
	all := fx.driver.CraftableItems(items, nil)
	locked := fx.driver.CraftableItems(items, func(itemID string) bool { return itemID != "electronic-circuit" })

	// Assert
	assert.Equal(t, []string{"electronic-circuit", "iron-gear-wheel", "iron-ore", "wooden-chest"}, all)
	assert.Equal(t, []string{"iron-gear-wheel", "iron-ore", "wooden-chest"}, locked)
}
