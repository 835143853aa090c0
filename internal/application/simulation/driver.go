package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/factorycore/internal/application/common"
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/crafting"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/fuel"
	"github.com/andrescamacho/factorycore/internal/domain/inventory"
	"github.com/andrescamacho/factorycore/internal/domain/power"
	"github.com/andrescamacho/factorycore/internal/domain/production"
	"github.com/andrescamacho/factorycore/internal/domain/shared"
)

// Dependencies are the components a Driver is built from.
// Metrics, Publisher and Environment are optional.
type Dependencies struct {
	Catalog     catalog.Catalog
	Store       inventory.Store
	Power       *power.Calculator
	Fuel        *fuel.Simulator
	Production  *production.Engine
	Resolver    *crafting.Resolver
	Clock       shared.Clock
	Metrics     MetricsRecorder
	Publisher   ReportPublisher
	Environment EnvironmentFunc
}

// Driver owns the placed facilities and the crafting queue and runs ticks
// against the inventory store.
//
// Ticks, player actions and craft requests are serialized by one mutex. A
// tick mutates clones and swaps them in only after the inventory commit
// succeeds, so a failed commit leaves the last committed state in place.
type Driver struct {
	mu   sync.Mutex
	deps Dependencies

	facilities  []*facility.Facility
	queue       *crafting.Queue
	tick        uint64
	lastBalance power.Balance

	starvedLog rate.Sometimes
}

// NewDriver creates a driver with no facilities and an empty crafting queue
func NewDriver(deps Dependencies) *Driver {
	if deps.Clock == nil {
		deps.Clock = shared.NewRealClock()
	}
	if deps.Metrics == nil {
		deps.Metrics = noOpMetrics{}
	}
	return &Driver{
		deps:        deps,
		queue:       crafting.NewQueue(),
		lastBalance: power.Balance{ByCategory: map[string]float64{}, Status: power.StatusBalanced},
		starvedLog:  rate.Sometimes{First: 1, Interval: 30 * time.Second},
	}
}

// Tick advances the simulation by elapsed seconds: power, then fuel, then
// production, then the crafting queue. All inventory writes of the tick are
// committed with one BatchAdjust call. On error nothing is swapped in and the
// next tick starts again from the last committed state.
func (d *Driver) Tick(ctx context.Context, elapsed float64) (*TickReport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	logger := common.LoggerFromContext(ctx)
	started := d.deps.Clock.Now()
	if elapsed < 0 {
		elapsed = 0
	}

	snapshot, err := d.deps.Store.Snapshot(ctx)
	if err != nil {
		d.deps.Metrics.RecordTickFailure("snapshot")
		logger.Log(common.LevelError, fmt.Sprintf("[Tick] Inventory snapshot failed, tick abandoned: %v", err), nil)
		return nil, fmt.Errorf("failed to read inventory snapshot: %w", err)
	}

	ledger := inventory.NewLedger(snapshot)
	working := facility.CloneAll(d.facilities)
	report := &TickReport{Tick: d.tick + 1, Elapsed: elapsed}

	balance := d.stepPower(ctx, working, report)
	d.stepFuel(ctx, working, ledger, balance, elapsed, report)
	d.stepProduction(ctx, working, ledger, elapsed, report)
	queue := d.stepCrafting(ctx, ledger, elapsed, report)

	adjustments := ledger.Adjustments()
	if len(adjustments) > 0 {
		if err := d.deps.Store.BatchAdjust(ctx, adjustments); err != nil {
			d.deps.Metrics.RecordTickFailure("commit")
			logger.Log(common.LevelError, fmt.Sprintf("[Tick] Commit of tick %d failed, state discarded: %v", report.Tick, err), map[string]interface{}{
				"adjustments": len(adjustments),
			})
			return nil, fmt.Errorf("failed to commit tick %d: %w", report.Tick, err)
		}
	}

	d.facilities = working
	d.queue = queue
	d.tick = report.Tick
	d.lastBalance = balance

	report.Adjustments = adjustments
	report.Power = newPowerView(balance)
	report.Facilities = make([]FacilityView, 0, len(working))
	for _, f := range working {
		report.Facilities = append(report.Facilities, NewFacilityView(f))
	}
	report.Duration = d.deps.Clock.Now().Sub(started)

	d.deps.Metrics.RecordTick(report)
	if d.deps.Publisher != nil {
		d.deps.Publisher.Publish(report)
	}
	return report, nil
}

func (d *Driver) stepPower(ctx context.Context, working []*facility.Facility, report *TickReport) power.Balance {
	balance := power.Balance{ByCategory: map[string]float64{}, Status: power.StatusBalanced}
	if !d.guard(ctx, "power", "", report, func() {
		balance = d.deps.Power.Compute(working, d.environment(working))
	}) {
		return balance
	}

	before := make(map[string]facility.Status, len(working))
	for _, f := range working {
		before[f.ID] = f.Status
	}
	var changed []string
	d.guard(ctx, "power", "", report, func() {
		changed = d.deps.Power.Apply(working, balance)
	})
	for _, id := range changed {
		if f := findFacility(working, id); f != nil {
			report.Transitions = append(report.Transitions, production.Transition{FacilityID: id, From: before[id], To: f.Status})
		}
	}
	return balance
}

func (d *Driver) stepFuel(ctx context.Context, working []*facility.Facility, ledger *inventory.Ledger, balance power.Balance, elapsed float64, report *TickReport) {
	logger := common.LoggerFromContext(ctx)

	for _, f := range working {
		if f.Fuel == nil {
			continue
		}
		d.guard(ctx, "fuel", f.ID, report, func() {
			if adj, ok := d.deps.Fuel.AutoRefuel(f, ledger); ok {
				ledger.Debit(adj.ItemID, -adj.Delta)
				report.Refuels = append(report.Refuels, adj)
			}

			consumption := d.deps.Fuel.UpdateFuelConsumption(f, elapsed, d.isBurning(f, ledger, balance))
			report.FuelConsumed += consumption.Consumed

			if consumption.Insufficient && f.Fuel.IsEmpty() && f.Status != facility.StatusNoFuel {
				report.Transitions = append(report.Transitions, production.Transition{FacilityID: f.ID, From: f.Status, To: facility.StatusNoFuel})
				f.Status = facility.StatusNoFuel
				d.starvedLog.Do(func() {
					logger.Log(common.LevelWarning, fmt.Sprintf("[Tick] Facility %s (%s) starved for fuel", f.ID, f.Type), map[string]interface{}{
						"facility_id":   f.ID,
						"facility_type": f.Type,
					})
				})
			}
		})
	}
}

// isBurning decides whether a fuelled facility draws fuel this tick.
// Generators burn while there is demand, scaled by the grid load; other
// facilities burn while their recipe advances.
func (d *Driver) isBurning(f *facility.Facility, inv inventory.Reader, balance power.Balance) bool {
	spec, ok := d.deps.Catalog.Facility(f.Type)
	if !ok || !spec.IsGenerator() {
		return d.deps.Production.IsProducing(f, inv)
	}
	if f.IsStopped() || balance.Demand <= 0 {
		return false
	}
	f.Efficiency = 1
	if balance.Generation > 0 {
		f.Efficiency = min(1, balance.ActualGeneration/balance.Generation)
	}
	return true
}

func (d *Driver) stepProduction(ctx context.Context, working []*facility.Facility, ledger *inventory.Ledger, elapsed float64, report *TickReport) {
	var result production.Report
	if !d.guard(ctx, "production", "", report, func() {
		result = d.deps.Production.Tick(working, ledger, elapsed)
	}) {
		return
	}

	report.Cycles = result.Cycles
	report.Transitions = append(report.Transitions, result.Transitions...)
	for _, fault := range result.Faults {
		msg := fmt.Sprintf("production[%s]: %v", fault.FacilityID, fault.Err)
		report.Faults = append(report.Faults, msg)
		common.LoggerFromContext(ctx).Log(common.LevelError, "[Tick] Recovered fault in "+msg, map[string]interface{}{
			"facility_id": fault.FacilityID,
		})
	}
}

// stepCrafting advances a copy of the queue and credits finished tasks. A
// faulted queue makes no progress this tick.
func (d *Driver) stepCrafting(ctx context.Context, ledger *inventory.Ledger, elapsed float64, report *TickReport) *crafting.Queue {
	queue := d.queue.Clone()
	mark := ledger.Mark()

	var completions []crafting.Completion
	var advanceErr error
	if !d.guard(ctx, "crafting", "", report, func() {
		completions, advanceErr = queue.Advance(elapsed)
	}) {
		ledger.Rollback(mark)
		return d.queue.Clone()
	}
	if advanceErr != nil {
		common.LoggerFromContext(ctx).Log(common.LevelWarning, fmt.Sprintf("[Tick] Crafting queue stalled: %v", advanceErr), nil)
	}

	for _, c := range completions {
		if c.Credit.Delta > 0 {
			ledger.Force(c.Credit)
		}
		report.CompletedTasks = append(report.CompletedTasks, c.Task.ID())
	}
	return queue
}

// guard runs fn and converts a panic into a logged fault. It reports whether
// fn returned normally.
func (d *Driver) guard(ctx context.Context, component, facilityID string, report *TickReport, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("%s: %v", component, r)
			if facilityID != "" {
				msg = fmt.Sprintf("%s[%s]: %v", component, facilityID, r)
			}
			report.Faults = append(report.Faults, msg)
			common.LoggerFromContext(ctx).Log(common.LevelError, "[Tick] Recovered fault in "+msg, map[string]interface{}{
				"component":   component,
				"facility_id": facilityID,
			})
			ok = false
		}
	}()
	fn()
	return true
}

func (d *Driver) environment(facilities []*facility.Facility) power.Environment {
	if d.deps.Environment == nil {
		return power.DefaultEnvironment()
	}
	return d.deps.Environment(d.deps.Clock.Now(), facilities)
}

func findFacility(facilities []*facility.Facility, id string) *facility.Facility {
	for _, f := range facilities {
		if f.ID == id {
			return f
		}
	}
	return nil
}
