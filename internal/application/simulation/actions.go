package simulation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/andrescamacho/factorycore/internal/application/common"
	"github.com/andrescamacho/factorycore/internal/domain/crafting"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/fuel"
	"github.com/andrescamacho/factorycore/internal/domain/inventory"
	"github.com/andrescamacho/factorycore/internal/domain/power"
	"github.com/andrescamacho/factorycore/internal/domain/shared"
	"github.com/andrescamacho/factorycore/pkg/utils"
)

// errCancelledByPlayer is the failure reason recorded on cancelled tasks
var errCancelledByPlayer = errors.New("cancelled by player")

// AddFacility places count units of a facility type. Fuel-burning types start
// with an empty buffer in NO_FUEL.
func (d *Driver) AddFacility(ctx context.Context, facilityType string, count int) (*facility.Facility, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	spec, ok := d.deps.Catalog.Facility(facilityType)
	if !ok {
		return nil, &ErrUnknownFacilityType{FacilityType: facilityType}
	}

	f := facility.New(utils.GenerateFacilityID(facilityType), facilityType, count)
	if spec.UsesFuel() {
		f.Fuel = d.deps.Fuel.InitializeFuelBuffer(facilityType)
		f.Status = facility.StatusNoFuel
	}
	d.facilities = append(d.facilities, f)

	common.LoggerFromContext(ctx).Log(common.LevelInfo, fmt.Sprintf("Placed %d x %s as %s", f.Count, f.Type, f.ID), map[string]interface{}{
		"facility_id":   f.ID,
		"facility_type": f.Type,
	})
	return f.Clone(), nil
}

// RemoveFacility removes a placed facility. Its buffered fuel is lost.
func (d *Driver) RemoveFacility(ctx context.Context, facilityID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, f := range d.facilities {
		if f.ID == facilityID {
			d.facilities = append(d.facilities[:i:i], d.facilities[i+1:]...)
			common.LoggerFromContext(ctx).Log(common.LevelInfo, fmt.Sprintf("Removed facility %s", facilityID), nil)
			return nil
		}
	}
	return &facility.ErrFacilityNotFound{FacilityID: facilityID}
}

// StartFacility resumes a stopped facility
func (d *Driver) StartFacility(ctx context.Context, facilityID string) error {
	return d.mutateFacility(facilityID, func(f *facility.Facility) error {
		f.Start()
		return nil
	})
}

// StopFacility stops a facility until it is started again
func (d *Driver) StopFacility(ctx context.Context, facilityID string) error {
	return d.mutateFacility(facilityID, func(f *facility.Facility) error {
		f.Stop()
		return nil
	})
}

// SetRecipe assigns a recipe, or clears it when recipeID is empty. The
// facility type must be one of the recipe's producers.
func (d *Driver) SetRecipe(ctx context.Context, facilityID, recipeID string) error {
	return d.mutateFacility(facilityID, func(f *facility.Facility) error {
		if recipeID != "" {
			recipe, ok := d.deps.Catalog.RecipeByID(recipeID)
			if !ok {
				return shared.NewNotFoundError("recipe", recipeID)
			}
			if !recipe.HasProducer(f.Type) {
				return &facility.ErrRecipeNotSupported{RecipeID: recipeID, FacilityType: f.Type}
			}
		}
		f.SetRecipe(recipeID)
		return nil
	})
}

// AddFuel moves qty units of a fuel item from inventory into a facility's
// buffer. The buffer only changes if the inventory withdrawal commits.
func (d *Driver) AddFuel(ctx context.Context, facilityID, itemID string, qty int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if qty <= 0 {
		return shared.NewValidationError("quantity", "must be positive")
	}
	f := findFacility(d.facilities, facilityID)
	if f == nil {
		return &facility.ErrFacilityNotFound{FacilityID: facilityID}
	}
	if f.Fuel == nil {
		return &fuel.ErrNoFuelBuffer{FacilityType: f.Type}
	}

	snapshot, err := d.deps.Store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read inventory snapshot: %w", err)
	}
	if have := snapshot.Quantity(itemID); have < qty {
		return &ErrInsufficientStock{ItemID: itemID, Requested: qty, Available: have}
	}

	buf := f.Fuel.Clone()
	if err := d.deps.Fuel.AddFuel(buf, itemID, qty, f.Type); err != nil {
		return err
	}
	if err := d.deps.Store.BatchAdjust(ctx, []inventory.Adjustment{{ItemID: itemID, Delta: -qty}}); err != nil {
		return fmt.Errorf("failed to withdraw fuel: %w", err)
	}
	f.Fuel = buf

	common.LoggerFromContext(ctx).Log(common.LevelInfo, fmt.Sprintf("Loaded %d x %s into %s", qty, itemID, facilityID), nil)
	return nil
}

// RequestCraft resolves the crafting chain for qty of itemID, commits the
// aggregated withdrawal and queues the tasks. Nothing is debited or queued
// when the chain is infeasible.
func (d *Driver) RequestCraft(ctx context.Context, itemID string, qty int) (*crafting.ChainAnalysis, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	logger := common.LoggerFromContext(ctx)

	snapshot, err := d.deps.Store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory snapshot: %w", err)
	}

	analysis := d.resolve(ctx, itemID, qty, snapshot)
	if analysis == nil {
		d.deps.Metrics.RecordCraftRequest(itemID, false)
		return nil, fmt.Errorf("%w: %d x %s", ErrCraftInfeasible, qty, itemID)
	}

	if adjustments := analysis.CommitAdjustments(); len(adjustments) > 0 {
		if err := d.deps.Store.BatchAdjust(ctx, adjustments); err != nil {
			d.deps.Metrics.RecordCraftRequest(itemID, false)
			return nil, fmt.Errorf("failed to commit craft of %s: %w", itemID, err)
		}
	}
	d.queue.Enqueue(analysis.Tasks...)
	d.deps.Metrics.RecordCraftRequest(itemID, true)

	logger.Log(common.LevelInfo, fmt.Sprintf("Queued %d task(s) to craft %d x %s", len(analysis.Tasks), qty, itemID), map[string]interface{}{
		"item_id":        itemID,
		"total_duration": analysis.TotalDuration,
	})
	return analysis, nil
}

func (d *Driver) resolve(ctx context.Context, itemID string, qty int, inv inventory.Reader) (analysis *crafting.ChainAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			common.LoggerFromContext(ctx).Log(common.LevelError, fmt.Sprintf("Recovered fault resolving %s: %v", itemID, r), nil)
			analysis = nil
		}
	}()
	return d.deps.Resolver.Resolve(itemID, qty, inv)
}

// CancelCraft fails a queued task and every task that depends on it.
// Withdrawn inputs are not refunded.
func (d *Driver) CancelCraft(ctx context.Context, taskID string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	failed, err := d.queue.Cancel(taskID, errCancelledByPlayer)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(failed))
	for i, t := range failed {
		ids[i] = t.ID()
	}
	common.LoggerFromContext(ctx).Log(common.LevelInfo, fmt.Sprintf("Cancelled %d crafting task(s)", len(ids)), nil)
	return ids, nil
}

// LoadFacilities replaces the placed facilities, e.g. with a restored layout
func (d *Driver) LoadFacilities(facilities []*facility.Facility) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.facilities = facility.CloneAll(facilities)
}

// Facilities returns copies of the placed facilities
func (d *Driver) Facilities() []*facility.Facility {
	d.mu.Lock()
	defer d.mu.Unlock()
	return facility.CloneAll(d.facilities)
}

// Facility returns a copy of one placed facility
func (d *Driver) Facility(facilityID string) (*facility.Facility, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	f := findFacility(d.facilities, facilityID)
	if f == nil {
		return nil, &facility.ErrFacilityNotFound{FacilityID: facilityID}
	}
	return f.Clone(), nil
}

// PowerBalance computes the balance of the current layout without mutating it
func (d *Driver) PowerBalance() power.Balance {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deps.Power.Compute(d.facilities, d.environment(d.facilities))
}

// LastBalance returns the balance applied by the last committed tick
func (d *Driver) LastBalance() power.Balance {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastBalance
}

// FuelStatus reports the fuel buffer of one facility
func (d *Driver) FuelStatus(facilityID string) (fuel.Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	f := findFacility(d.facilities, facilityID)
	if f == nil {
		return fuel.Status{}, &facility.ErrFacilityNotFound{FacilityID: facilityID}
	}
	if f.Fuel == nil {
		return fuel.Status{}, &fuel.ErrNoFuelBuffer{FacilityType: f.Type}
	}
	return d.deps.Fuel.GetFuelStatus(f.Fuel), nil
}

// CraftQueue returns copies of the queued crafting tasks
func (d *Driver) CraftQueue() []*crafting.Task {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.Clone().Tasks()
}

// TickCount returns the number of committed ticks
func (d *Driver) TickCount() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tick
}

// CraftableItems filters itemIDs down to unlocked items that have an eligible
// manual recipe, sorted by id. A nil oracle treats everything as unlocked.
func (d *Driver) CraftableItems(itemIDs []string, unlocked UnlockOracle) []string {
	var out []string
	for _, id := range itemIDs {
		if unlocked != nil && !unlocked(id) {
			continue
		}
		if _, ok := d.deps.Resolver.BestRecipe(id); ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (d *Driver) mutateFacility(facilityID string, fn func(*facility.Facility) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f := findFacility(d.facilities, facilityID)
	if f == nil {
		return &facility.ErrFacilityNotFound{FacilityID: facilityID}
	}
	return fn(f)
}
