package power

// Status classifies supply against demand
type Status string

const (
	StatusSurplus  Status = "SURPLUS"
	StatusBalanced Status = "BALANCED"
	StatusDeficit  Status = "DEFICIT"
)

// Thresholds for status classification, as fractions of demand
const (
	SurplusMargin  = 1.1
	BalancedMargin = 0.95
)

// Balance is the per-tick supply/demand snapshot. It is recomputed every tick
// and never persisted.
type Balance struct {
	Generation        float64
	Demand            float64
	ActualGeneration  float64
	ActualConsumption float64
	ByCategory        map[string]float64
	SatisfactionRatio float64
	Status            Status
}

// Efficiency is the grid efficiency handed to powered facilities
func (b Balance) Efficiency() float64 {
	if b.Status == StatusSurplus {
		return 1.0
	}
	return b.SatisfactionRatio
}

// Environment carries inputs the calculator does not compute itself
type Environment struct {
	// Daylight is the solar multiplier in [0,1]
	Daylight float64
	// Throughput maps facility id to the external input rate it receives
	Throughput map[string]float64
}

// DefaultEnvironment is full daylight with no throughput supplied
func DefaultEnvironment() Environment {
	return Environment{Daylight: 1}
}

// SatisfactionRatio is min(1, demand/generation), or 0 with no generation.
// This is the single definition used everywhere a ratio is shown or applied.
func SatisfactionRatio(generation, demand float64) float64 {
	if generation <= 0 {
		return 0
	}
	ratio := demand / generation
	if ratio > 1 {
		return 1
	}
	if ratio < 0 {
		return 0
	}
	return ratio
}

// Classify derives the balance status from totals
func Classify(generation, demand float64) Status {
	switch {
	case generation > demand*SurplusMargin:
		return StatusSurplus
	case generation >= demand*BalancedMargin:
		return StatusBalanced
	default:
		return StatusDeficit
	}
}
