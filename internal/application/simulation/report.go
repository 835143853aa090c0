package simulation

import (
	"time"

	"github.com/andrescamacho/factorycore/internal/domain/crafting"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/inventory"
	"github.com/andrescamacho/factorycore/internal/domain/power"
	"github.com/andrescamacho/factorycore/internal/domain/production"
)

// FacilityView is the read-only state of one facility after a tick
type FacilityView struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Count      int             `json:"count"`
	Status     facility.Status `json:"status"`
	RecipeID   string          `json:"recipe_id,omitempty"`
	Progress   float64         `json:"progress"`
	Efficiency float64         `json:"efficiency"`
	FuelEnergy float64         `json:"fuel_energy,omitempty"`
	FuelFill   float64         `json:"fuel_fill,omitempty"`
}

// PowerView is the power balance as reported to clients
type PowerView struct {
	Generation        float64            `json:"generation"`
	Demand            float64            `json:"demand"`
	ActualGeneration  float64            `json:"actual_generation"`
	SatisfactionRatio float64            `json:"satisfaction_ratio"`
	Status            power.Status       `json:"status"`
	ByCategory        map[string]float64 `json:"by_category"`
}

// TaskView is the read-only state of one queued craft task
type TaskView struct {
	ID          string              `json:"id"`
	RecipeID    string              `json:"recipe_id"`
	TargetItem  string              `json:"target_item"`
	Quantity    int                 `json:"quantity"`
	Progress    float64             `json:"progress"`
	Duration    float64             `json:"duration"`
	Predecessor string              `json:"predecessor,omitempty"`
	Status      crafting.TaskStatus `json:"status"`
}

// NewTaskViews snapshots tasks in queue order
func NewTaskViews(tasks []*crafting.Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, TaskView{
			ID:          t.ID(),
			RecipeID:    t.RecipeID(),
			TargetItem:  t.TargetItem(),
			Quantity:    t.Quantity(),
			Progress:    t.Progress(),
			Duration:    t.Duration(),
			Predecessor: t.PredecessorID(),
			Status:      t.Status(),
		})
	}
	return views
}

// TickReport summarizes one committed tick
type TickReport struct {
	Tick           uint64                  `json:"tick"`
	Elapsed        float64                 `json:"elapsed"`
	Duration       time.Duration           `json:"duration_ns"`
	Power          PowerView               `json:"power"`
	Cycles         []production.CycleEvent `json:"cycles,omitempty"`
	Transitions    []production.Transition `json:"transitions,omitempty"`
	Refuels        []inventory.Adjustment  `json:"refuels,omitempty"`
	FuelConsumed   float64                 `json:"fuel_consumed"`
	Adjustments    []inventory.Adjustment  `json:"adjustments,omitempty"`
	CompletedTasks []string                `json:"completed_tasks,omitempty"`
	Faults         []string                `json:"faults,omitempty"`
	Facilities     []FacilityView          `json:"facilities"`
}

func newPowerView(b power.Balance) PowerView {
	return PowerView{
		Generation:        b.Generation,
		Demand:            b.Demand,
		ActualGeneration:  b.ActualGeneration,
		SatisfactionRatio: b.SatisfactionRatio,
		Status:            b.Status,
		ByCategory:        b.ByCategory,
	}
}

// NewFacilityView snapshots a facility for reports and clients
func NewFacilityView(f *facility.Facility) FacilityView {
	view := FacilityView{
		ID:         f.ID,
		Type:       f.Type,
		Count:      f.Count,
		Status:     f.Status,
		RecipeID:   f.RecipeID(),
		Efficiency: f.Efficiency,
	}
	if f.Production != nil {
		view.Progress = f.Production.Progress
	}
	if f.Fuel != nil {
		view.FuelEnergy = f.Fuel.TotalEnergy()
		view.FuelFill = f.Fuel.FillRatio()
	}
	return view
}

// StatusCounts tallies facilities per status
func (r *TickReport) StatusCounts() map[facility.Status]int {
	counts := make(map[facility.Status]int)
	for _, f := range r.Facilities {
		counts[f.Status] += f.Count
	}
	return counts
}
