package facility

// Status is the runtime state of a placed facility
type Status string

const (
	StatusRunning    Status = "RUNNING"
	StatusStopped    Status = "STOPPED"
	StatusNoPower    Status = "NO_POWER"
	StatusNoFuel     Status = "NO_FUEL"
	StatusNoResource Status = "NO_RESOURCE"
	StatusOutputFull Status = "OUTPUT_FULL"
)

// AllStatuses lists every status in display order
var AllStatuses = []Status{
	StatusRunning,
	StatusStopped,
	StatusNoPower,
	StatusNoFuel,
	StatusNoResource,
	StatusOutputFull,
}

// ProductionState tracks the recipe a facility is running.
// Progress may exceed 1 while a finished cycle waits for output space.
type ProductionState struct {
	RecipeID string
	Progress float64
}

// Facility is a placed group of identical production units.
//
// The tick driver clones facilities before mutating them so that a failed
// commit leaves the last committed state untouched.
type Facility struct {
	ID         string
	Type       string
	Count      int
	Status     Status
	Efficiency float64
	Production *ProductionState
	Fuel       *FuelBuffer
}

// New creates a running facility with full efficiency
func New(id, facilityType string, count int) *Facility {
	if count < 1 {
		count = 1
	}
	return &Facility{
		ID:         id,
		Type:       facilityType,
		Count:      count,
		Status:     StatusRunning,
		Efficiency: 1,
	}
}

// Clone returns a deep copy
func (f *Facility) Clone() *Facility {
	if f == nil {
		return nil
	}
	c := *f
	if f.Production != nil {
		p := *f.Production
		c.Production = &p
	}
	c.Fuel = f.Fuel.Clone()
	return &c
}

// RecipeID returns the active recipe id, or "" when idle
func (f *Facility) RecipeID() string {
	if f.Production == nil {
		return ""
	}
	return f.Production.RecipeID
}

// HasRecipe reports whether a recipe is assigned
func (f *Facility) HasRecipe() bool {
	return f.RecipeID() != ""
}

// IsStopped reports whether the player stopped the facility
func (f *Facility) IsStopped() bool {
	return f.Status == StatusStopped
}

// SetRecipe assigns a recipe and resets progress
func (f *Facility) SetRecipe(recipeID string) {
	if recipeID == "" {
		f.Production = nil
		return
	}
	f.Production = &ProductionState{RecipeID: recipeID}
	if f.Status == StatusNoResource || f.Status == StatusOutputFull {
		f.Status = StatusRunning
	}
}

// Stop parks the facility until Start is called
func (f *Facility) Stop() {
	f.Status = StatusStopped
}

// Start resumes a stopped facility. Power and fuel re-evaluate it next tick.
func (f *Facility) Start() {
	if f.Status == StatusStopped {
		f.Status = StatusRunning
	}
}

// CloneAll deep-copies a facility list
func CloneAll(facilities []*Facility) []*Facility {
	out := make([]*Facility, len(facilities))
	for i, f := range facilities {
		out[i] = f.Clone()
	}
	return out
}
