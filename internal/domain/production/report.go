package production

import (
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
)

// CycleEvent records one delivered production cycle
type CycleEvent struct {
	FacilityID   string
	FacilityType string
	RecipeID     string
	Multiplier   int
	Consumed     []catalog.ItemAmount
	Produced     []catalog.ItemAmount
}

// Transition records a facility status change
type Transition struct {
	FacilityID string
	From       facility.Status
	To         facility.Status
}

// Fault records a facility whose update panicked and was skipped
type Fault struct {
	FacilityID string
	Err        error
}

// Report collects the telemetry of one production tick
type Report struct {
	Cycles      []CycleEvent
	Transitions []Transition
	Faults      []Fault
}

func (r *Report) transition(f *facility.Facility, to facility.Status) {
	if f.Status == to {
		return
	}
	r.Transitions = append(r.Transitions, Transition{FacilityID: f.ID, From: f.Status, To: to})
	f.Status = to
}
