package catalog

// PowerRole describes how a facility type participates in the grid
type PowerRole string

const (
	PowerRoleNone      PowerRole = "NONE"
	PowerRoleGenerator PowerRole = "GENERATOR"
	PowerRoleConsumer  PowerRole = "CONSUMER"
)

// GeneratorKind selects the generation model for generator facilities
type GeneratorKind string

const (
	// GeneratorFixed produces rated output whenever running
	GeneratorFixed GeneratorKind = "fixed"
	// GeneratorSolar scales rated output by the daylight fraction
	GeneratorSolar GeneratorKind = "solar"
	// GeneratorThroughput scales rated output by available/required input throughput
	GeneratorThroughput GeneratorKind = "throughput"
)

// FuelSpec is the static combustion metadata of a facility type
type FuelSpec struct {
	MaxSlots        int
	ConsumptionRate float64 // kW drawn from the buffer while producing
	MaxEnergy       float64 // kJ; zero means derive from the rate
	Categories      []string
}

// AcceptsCategory reports whether fuels of the given category can be loaded
func (f *FuelSpec) AcceptsCategory(category string) bool {
	if f == nil {
		return false
	}
	if len(f.Categories) == 0 {
		return true
	}
	for _, c := range f.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// FacilitySpec is the static power and fuel metadata of a facility type
type FacilitySpec struct {
	Type     string
	Category string

	PowerRole PowerRole
	Generator GeneratorKind

	// PowerOutput is rated generation per unit (kW)
	PowerOutput float64
	// PowerDraw is grid demand per unit (kW)
	PowerDraw float64

	// ThroughputItem and RequiredThroughput describe the external input a
	// throughput-gated generator needs to reach rated output
	ThroughputItem     string
	RequiredThroughput float64

	// Burner facilities run on their own fuel buffer and ignore grid efficiency
	Burner bool
	Fuel   *FuelSpec
}

// IsGenerator reports whether the facility contributes generation
func (s *FacilitySpec) IsGenerator() bool {
	return s != nil && s.PowerRole == PowerRoleGenerator
}

// IsConsumer reports whether the facility draws grid power
func (s *FacilitySpec) IsConsumer() bool {
	return s != nil && s.PowerRole == PowerRoleConsumer && s.PowerDraw > 0
}

// UsesFuel reports whether instances get a fuel buffer
func (s *FacilitySpec) UsesFuel() bool {
	return s != nil && s.Fuel != nil
}
