package production

import (
	"fmt"

	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/inventory"
)

// Engine advances recipe progress and moves items between inventory and facilities
type Engine struct {
	catalog catalog.Catalog
}

// NewEngine creates a production engine
func NewEngine(cat catalog.Catalog) *Engine {
	return &Engine{catalog: cat}
}

// Tick advances every facility by dt seconds. Power and fuel must already be
// applied. Facilities are processed in order and debit the shared ledger in
// that order, so an earlier facility wins contention for a scarce input.
func (e *Engine) Tick(facilities []*facility.Facility, ledger *inventory.Ledger, dt float64) Report {
	var report Report
	for _, f := range facilities {
		if f == nil {
			continue
		}
		e.tickGuarded(f, ledger, dt, &report)
	}
	return report
}

// tickGuarded isolates one facility: a panic rolls back its ledger entries and
// restores its state so the rest of the tick still commits.
func (e *Engine) tickGuarded(f *facility.Facility, ledger *inventory.Ledger, dt float64, report *Report) {
	mark := ledger.Mark()
	saved := f.Clone()
	cycles, transitions := len(report.Cycles), len(report.Transitions)

	defer func() {
		if r := recover(); r != nil {
			ledger.Rollback(mark)
			*f = *saved
			report.Cycles = report.Cycles[:cycles]
			report.Transitions = report.Transitions[:transitions]
			report.Faults = append(report.Faults, Fault{FacilityID: f.ID, Err: fmt.Errorf("production panic: %v", r)})
		}
	}()

	e.tickFacility(f, ledger, dt, report)
}

func (e *Engine) tickFacility(f *facility.Facility, ledger *inventory.Ledger, dt float64, report *Report) {
	switch f.Status {
	case facility.StatusStopped, facility.StatusNoPower:
		return
	case facility.StatusNoFuel:
		if f.Fuel == nil || f.Fuel.IsEmpty() {
			return
		}
		report.transition(f, facility.StatusRunning)
	}

	if !f.HasRecipe() {
		return
	}
	recipe, ok := e.catalog.RecipeByID(f.RecipeID())
	if !ok || recipe.Duration <= 0 {
		return
	}
	multiplier := max(f.Count, 1)

	if !e.inputsAvailable(recipe, ledger, multiplier) {
		// Backpressure: wait for inputs without changing state.
		return
	}

	switch f.Status {
	case facility.StatusNoResource:
		report.transition(f, facility.StatusRunning)
	case facility.StatusOutputFull:
		if e.deliver(f, recipe, ledger, multiplier, report) {
			report.transition(f, facility.StatusRunning)
		}
		return
	}

	if f.Production.Progress < 1 {
		f.Production.Progress += (dt / recipe.Duration) * f.Efficiency
	}
	if f.Production.Progress < 1 {
		return
	}

	if !e.deliver(f, recipe, ledger, multiplier, report) {
		report.transition(f, facility.StatusOutputFull)
	}
}

// deliver debits inputs and credits outputs for one completed cycle. When any
// output lacks space nothing is recorded and progress is held.
func (e *Engine) deliver(f *facility.Facility, recipe *catalog.Recipe, ledger *inventory.Ledger, multiplier int, report *Report) bool {
	produced := mergeAmounts(catalog.Scale(recipe.Outputs, multiplier))
	for _, out := range produced {
		if ledger.FreeSpace(out.ItemID) < out.Quantity {
			return false
		}
	}

	consumed := mergeAmounts(catalog.Scale(recipe.Inputs, multiplier))
	mark := ledger.Mark()
	for _, in := range consumed {
		if !ledger.Debit(in.ItemID, in.Quantity) {
			ledger.Rollback(mark)
			return false
		}
	}
	for _, out := range produced {
		if !ledger.Credit(out.ItemID, out.Quantity) {
			ledger.Rollback(mark)
			return false
		}
	}

	f.Production.Progress -= 1.0
	report.Cycles = append(report.Cycles, CycleEvent{
		FacilityID:   f.ID,
		FacilityType: f.Type,
		RecipeID:     recipe.ID,
		Multiplier:   multiplier,
		Consumed:     consumed,
		Produced:     produced,
	})
	return true
}

func (e *Engine) inputsAvailable(recipe *catalog.Recipe, inv inventory.Reader, multiplier int) bool {
	for _, in := range mergeAmounts(catalog.Scale(recipe.Inputs, multiplier)) {
		if inv.Quantity(in.ItemID) < in.Quantity {
			return false
		}
	}
	return true
}

// IsProducing reports whether the facility would advance its recipe this tick.
// The fuel simulator only burns fuel for producing facilities.
func (e *Engine) IsProducing(f *facility.Facility, inv inventory.Reader) bool {
	if f == nil || !f.HasRecipe() {
		return false
	}
	switch f.Status {
	case facility.StatusStopped, facility.StatusNoPower, facility.StatusOutputFull:
		return false
	case facility.StatusNoFuel:
		if f.Fuel == nil || f.Fuel.IsEmpty() {
			return false
		}
	}
	if f.Production.Progress >= 1 {
		return false
	}
	recipe, ok := e.catalog.RecipeByID(f.RecipeID())
	if !ok || recipe.Duration <= 0 {
		return false
	}
	return e.inputsAvailable(recipe, inv, max(f.Count, 1))
}

func mergeAmounts(amounts []catalog.ItemAmount) []catalog.ItemAmount {
	index := make(map[string]int, len(amounts))
	merged := make([]catalog.ItemAmount, 0, len(amounts))
	for _, a := range amounts {
		if a.Quantity <= 0 {
			continue
		}
		if i, ok := index[a.ItemID]; ok {
			merged[i].Quantity += a.Quantity
			continue
		}
		index[a.ItemID] = len(merged)
		merged = append(merged, a)
	}
	return merged
}
