package crafting

import (
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/eligibility"
	"github.com/andrescamacho/factorycore/internal/domain/inventory"
)

// Dependency describes one direct input of the requested recipe
type Dependency struct {
	ItemID         string
	Required       int
	Available      int
	Shortage       int
	Recipe         *catalog.Recipe
	ManualEligible bool
	Category       eligibility.Category
}

// ChainAnalysis is the resolved plan for one craft request. It is computed
// once, committed by the caller, and discarded.
type ChainAnalysis struct {
	ItemID   string
	Quantity int
	Recipe   *catalog.Recipe

	MainTask     *Task
	Dependencies []Dependency
	// Tasks are ordered so every task follows its predecessor
	Tasks []*Task

	// RawRequirements is the total of each leaf item the chain needs
	RawRequirements map[string]int
	// Consumption is every stocked unit the chain uses, intermediates included
	Consumption []catalog.ItemAmount

	TotalDuration float64
}

// CommitAdjustments returns the inventory debit the caller applies before enqueuing tasks
func (a *ChainAnalysis) CommitAdjustments() []inventory.Adjustment {
	adjustments := make([]inventory.Adjustment, 0, len(a.Consumption))
	for _, c := range a.Consumption {
		if c.Quantity > 0 {
			adjustments = append(adjustments, inventory.Adjustment{ItemID: c.ItemID, Delta: -c.Quantity})
		}
	}
	return adjustments
}

// DependencyTasks returns the tasks that precede the main task
func (a *ChainAnalysis) DependencyTasks() []*Task {
	if len(a.Tasks) == 0 {
		return nil
	}
	return a.Tasks[:len(a.Tasks)-1]
}
