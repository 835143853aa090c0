package steps

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/andrescamacho/factorycore/internal/adapters/persistence"
	"github.com/andrescamacho/factorycore/internal/application/common"
	"github.com/andrescamacho/factorycore/internal/application/setup"
	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/fuel"
	"github.com/andrescamacho/factorycore/internal/domain/power"
	"github.com/andrescamacho/factorycore/internal/domain/shared"
	"github.com/andrescamacho/factorycore/test/helpers"
	"github.com/cucumber/godog"
)

type factoryContext struct {
	ctx      context.Context
	clock    *shared.MockClock
	store    *persistence.GormInventoryStore
	repo     *persistence.GormFacilityRepository
	driver   *simulation.Driver
	mediator common.Mediator

	balance *power.Balance
	err     error
}

func (fc *factoryContext) reset() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}

	fc.ctx = context.Background()
	fc.clock = shared.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	fc.store = persistence.NewGormInventoryStore(helpers.SharedTestDB, 0, fc.clock)
	fc.repo = persistence.NewGormFacilityRepository(helpers.SharedTestDB, fc.clock)
	fc.balance = nil
	fc.err = nil
	return fc.buildDriver()
}

func (fc *factoryContext) buildDriver() error {
	driver, _, err := setup.BuildDriver(catalog.Standard(), fc.store, fc.clock, setup.DefaultDriverOptions())
	if err != nil {
		return err
	}
	med, err := setup.NewHandlerRegistry(driver).CreateConfiguredMediator()
	if err != nil {
		return err
	}
	fc.driver = driver
	fc.mediator = med
	return nil
}

func (fc *factoryContext) facilityOfType(facilityType string) (*facility.Facility, error) {
	for _, f := range fc.driver.Facilities() {
		if f.Type == facilityType {
			return f, nil
		}
	}
	return nil, fmt.Errorf("no %s placed", facilityType)
}

// Given steps

func (fc *factoryContext) anEmptyFactory() error {
	return nil
}

func (fc *factoryContext) theInventoryHolds(qty int, itemID string) error {
	return fc.store.Seed(fc.ctx, map[string]int{itemID: qty})
}

func (fc *factoryContext) iPlace(count int, facilityType string) error {
	return fc.iPlaceCrafting(count, facilityType, "")
}

func (fc *factoryContext) iPlaceCrafting(count int, facilityType, recipeID string) error {
	_, err := fc.mediator.Send(fc.ctx, &simulation.PlaceFacilityCommand{
		FacilityType: facilityType,
		Count:        count,
		RecipeID:     recipeID,
	})
	return err
}

func (fc *factoryContext) facilityAction(facilityType string, cmd *simulation.FacilityActionCommand) error {
	f, err := fc.facilityOfType(facilityType)
	if err != nil {
		return err
	}
	cmd.FacilityID = f.ID
	_, fc.err = fc.mediator.Send(fc.ctx, cmd)
	return nil
}

func (fc *factoryContext) iStopThe(facilityType string) error {
	if err := fc.facilityAction(facilityType, &simulation.FacilityActionCommand{Action: simulation.FacilityActionStop}); err != nil {
		return err
	}
	return fc.err
}

// When steps

func (fc *factoryContext) iCheckThePowerBalance() error {
	resp, err := fc.mediator.Send(fc.ctx, &simulation.GetPowerBalanceQuery{})
	if err != nil {
		return err
	}
	fc.balance = resp.(*power.Balance)
	return nil
}

func (fc *factoryContext) iAddFuelToThe(qty int, itemID, facilityType string) error {
	return fc.facilityAction(facilityType, &simulation.FacilityActionCommand{
		Action:   simulation.FacilityActionAddFuel,
		ItemID:   itemID,
		Quantity: qty,
	})
}

func (fc *factoryContext) iRequest(qty int, itemID string) error {
	_, fc.err = fc.mediator.Send(fc.ctx, &simulation.RequestCraftCommand{ItemID: itemID, Quantity: qty})
	return nil
}

func (fc *factoryContext) theSimulationRunsTicks(ticks int, seconds float64) error {
	for i := 0; i < ticks; i++ {
		fc.clock.AdvanceSeconds(seconds)
		if _, err := fc.mediator.Send(fc.ctx, &simulation.RunTicksCommand{Ticks: 1, Elapsed: seconds}); err != nil {
			return err
		}
	}
	return nil
}

func (fc *factoryContext) iSaveAndReloadTheFactory() error {
	if err := fc.repo.Save(fc.ctx, fc.driver.Facilities()); err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}
	if err := fc.buildDriver(); err != nil {
		return err
	}
	facilities, err := fc.repo.Load(fc.ctx)
	if err != nil {
		return fmt.Errorf("failed to load layout: %w", err)
	}
	fc.driver.LoadFacilities(facilities)
	return nil
}

// Then steps

func (fc *factoryContext) thePowerStatusShouldBe(expected string) error {
	if fc.balance == nil {
		return fmt.Errorf("power balance was not checked")
	}
	if string(fc.balance.Status) != expected {
		return fmt.Errorf("expected power status %s, got %s", expected, fc.balance.Status)
	}
	return nil
}

func (fc *factoryContext) generationShouldBeAndDemand(generation, demand float64) error {
	if fc.balance == nil {
		return fmt.Errorf("power balance was not checked")
	}
	if math.Abs(fc.balance.Generation-generation) > 0.001 || math.Abs(fc.balance.Demand-demand) > 0.001 {
		return fmt.Errorf("expected generation %.1f kW and demand %.1f kW, got %.1f kW and %.1f kW",
			generation, demand, fc.balance.Generation, fc.balance.Demand)
	}
	return nil
}

func (fc *factoryContext) theSatisfactionRatioShouldBe(expected float64) error {
	if fc.balance == nil {
		return fmt.Errorf("power balance was not checked")
	}
	if math.Abs(fc.balance.SatisfactionRatio-expected) > 0.001 {
		return fmt.Errorf("expected satisfaction ratio %.3f, got %.3f", expected, fc.balance.SatisfactionRatio)
	}
	return nil
}

func (fc *factoryContext) theInventoryShouldHold(expected int, itemID string) error {
	snapshot, err := fc.store.Snapshot(fc.ctx)
	if err != nil {
		return err
	}
	if got := snapshot.Quantity(itemID); got != expected {
		return fmt.Errorf("expected %d %s in inventory, got %d", expected, itemID, got)
	}
	return nil
}

func (fc *factoryContext) theFuelBufferShouldHold(facilityType string, energy float64, slots int) error {
	f, err := fc.facilityOfType(facilityType)
	if err != nil {
		return err
	}
	resp, err := fc.mediator.Send(fc.ctx, &simulation.GetFuelStatusQuery{FacilityID: f.ID})
	if err != nil {
		return err
	}
	status := resp.(*fuel.Status)
	if math.Abs(status.TotalEnergy-energy) > 0.001 {
		return fmt.Errorf("expected %.0f kJ buffered, got %.0f kJ", energy, status.TotalEnergy)
	}
	if status.SlotCount != slots {
		return fmt.Errorf("expected %d fuel slots, got %d", slots, status.SlotCount)
	}
	return nil
}

func (fc *factoryContext) theRequestShouldSucceed() error {
	if fc.err != nil {
		return fmt.Errorf("expected request to succeed, got error: %v", fc.err)
	}
	return nil
}

func (fc *factoryContext) theRequestShouldFailWith(expected string) error {
	if fc.err == nil {
		return fmt.Errorf("expected request to fail with '%s', but it succeeded", expected)
	}
	if !strings.Contains(fc.err.Error(), expected) {
		return fmt.Errorf("expected error containing '%s', got '%s'", expected, fc.err.Error())
	}
	return nil
}

func (fc *factoryContext) craftingTasksShouldBeQueued(expected int) error {
	if got := len(fc.driver.CraftQueue()); got != expected {
		return fmt.Errorf("expected %d queued crafting tasks, got %d", expected, got)
	}
	return nil
}

func (fc *factoryContext) theCraftingQueueShouldBeEmpty() error {
	return fc.craftingTasksShouldBeQueued(0)
}

func (fc *factoryContext) theFacilityShouldBe(facilityType, expected string) error {
	f, err := fc.facilityOfType(facilityType)
	if err != nil {
		return err
	}
	if string(f.Status) != expected {
		return fmt.Errorf("expected %s to be %s, got %s", facilityType, expected, f.Status)
	}
	return nil
}

func (fc *factoryContext) theFactoryShouldHaveFacilities(expected int) error {
	if got := len(fc.driver.Facilities()); got != expected {
		return fmt.Errorf("expected %d facilities, got %d", expected, got)
	}
	return nil
}

func InitializeFactoryScenario(ctx *godog.ScenarioContext) {
	fc := &factoryContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, fc.reset()
	})

	// Given steps
	ctx.Step(`^an empty factory$`, fc.anEmptyFactory)
	ctx.Step(`^the inventory holds (\d+) ([a-z0-9-]+)$`, fc.theInventoryHolds)
	ctx.Step(`^I place (\d+) ([a-z-]+)$`, fc.iPlace)
	ctx.Step(`^I place (\d+) ([a-z-]+) crafting ([a-z-]+)$`, fc.iPlaceCrafting)
	ctx.Step(`^I stop the ([a-z-]+)$`, fc.iStopThe)
	ctx.Step(`^I request (\d+) ([a-z-]+)$`, fc.iRequest)

	// When steps
	ctx.Step(`^I check the power balance$`, fc.iCheckThePowerBalance)
	ctx.Step(`^I add (\d+) ([a-z-]+) to the ([a-z-]+)$`, fc.iAddFuelToThe)
	ctx.Step(`^the simulation runs (\d+) ticks? of ([0-9.]+) seconds?$`, fc.theSimulationRunsTicks)
	ctx.Step(`^I save and reload the factory$`, fc.iSaveAndReloadTheFactory)

	// Then steps
	ctx.Step(`^the power status should be "([A-Z]+)"$`, fc.thePowerStatusShouldBe)
	ctx.Step(`^generation should be ([0-9.]+) kW and demand ([0-9.]+) kW$`, fc.generationShouldBeAndDemand)
	ctx.Step(`^the satisfaction ratio should be ([0-9.]+)$`, fc.theSatisfactionRatioShouldBe)
	ctx.Step(`^the inventory should hold (\d+) ([a-z0-9-]+)$`, fc.theInventoryShouldHold)
	ctx.Step(`^the ([a-z-]+) fuel buffer should hold ([0-9.]+) kJ in (\d+) slots?$`, fc.theFuelBufferShouldHold)
	ctx.Step(`^the request should succeed$`, fc.theRequestShouldSucceed)
	ctx.Step(`^the request should fail with "([^"]*)"$`, fc.theRequestShouldFailWith)
	ctx.Step(`^(\d+) crafting tasks? should be queued$`, fc.craftingTasksShouldBeQueued)
	ctx.Step(`^the crafting queue should be empty$`, fc.theCraftingQueueShouldBeEmpty)
	ctx.Step(`^the ([a-z-]+) should be ([A-Z_]+)$`, fc.theFacilityShouldBe)
	ctx.Step(`^the factory should have (\d+) facilities$`, fc.theFactoryShouldHaveFacilities)
}
