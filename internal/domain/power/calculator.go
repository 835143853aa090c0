package power

import (
	"math"

	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/pkg/utils"
)

// Calculator aggregates generation and demand across facilities
type Calculator struct {
	catalog catalog.Catalog
}

// NewCalculator creates a calculator backed by static facility metadata
func NewCalculator(cat catalog.Catalog) *Calculator {
	return &Calculator{catalog: cat}
}

// ComputePowerBalance computes the balance under full daylight with no
// external throughput. Pure and safe to call for display.
func (c *Calculator) ComputePowerBalance(facilities []*facility.Facility) Balance {
	return c.Compute(facilities, DefaultEnvironment())
}

// Compute aggregates the balance for the given environment
func (c *Calculator) Compute(facilities []*facility.Facility, env Environment) Balance {
	balance := Balance{ByCategory: make(map[string]float64)}
	if len(facilities) == 0 {
		balance.Status = StatusBalanced
		return balance
	}

	for _, f := range facilities {
		if f == nil {
			continue
		}
		spec, ok := c.catalog.Facility(f.Type)
		if !ok {
			continue
		}
		balance.Generation += c.generation(f, spec, env)

		if draw := consumption(f, spec); draw > 0 {
			balance.Demand += draw
			balance.ByCategory[spec.Category] += draw
		}
	}

	balance.SatisfactionRatio = SatisfactionRatio(balance.Generation, balance.Demand)
	balance.Status = Classify(balance.Generation, balance.Demand)
	balance.ActualGeneration = math.Min(balance.Generation, balance.Demand)
	balance.ActualConsumption = balance.ActualGeneration
	return balance
}

func (c *Calculator) generation(f *facility.Facility, spec *catalog.FacilitySpec, env Environment) float64 {
	if !spec.IsGenerator() {
		return 0
	}
	output := spec.PowerOutput * float64(f.Count) * statusFactor(f)

	switch spec.Generator {
	case catalog.GeneratorSolar:
		output *= utils.Clamp01(env.Daylight)
	case catalog.GeneratorThroughput:
		if spec.RequiredThroughput <= 0 {
			return 0
		}
		available := env.Throughput[f.ID]
		output *= math.Min(1, math.Max(0, available)/(spec.RequiredThroughput*float64(f.Count)))
	}
	return output
}

func consumption(f *facility.Facility, spec *catalog.FacilitySpec) float64 {
	if !spec.IsConsumer() || f.IsStopped() {
		return 0
	}
	return spec.PowerDraw * float64(f.Count)
}

// statusFactor scales generator output by runtime state. Fuel-fed generators
// produce nothing while their buffer is empty.
func statusFactor(f *facility.Facility) float64 {
	switch f.Status {
	case facility.StatusStopped, facility.StatusNoFuel:
		return 0
	}
	if f.Fuel != nil && f.Fuel.IsEmpty() {
		return 0
	}
	return 1
}

// Apply writes the grid efficiency into each powered facility and toggles
// NO_POWER. Stopped facilities, burner facilities, and unknown types are left
// untouched. It returns the ids whose status changed.
func (c *Calculator) Apply(facilities []*facility.Facility, balance Balance) []string {
	efficiency := balance.Efficiency()
	var changed []string

	for _, f := range facilities {
		if f == nil || f.IsStopped() {
			continue
		}
		spec, ok := c.catalog.Facility(f.Type)
		if !ok || spec.Burner || !spec.IsConsumer() {
			continue
		}

		f.Efficiency = efficiency
		switch {
		case efficiency <= 0 && f.Status != facility.StatusNoPower:
			f.Status = facility.StatusNoPower
			changed = append(changed, f.ID)
		case efficiency > 0 && f.Status == facility.StatusNoPower:
			f.Status = facility.StatusRunning
			changed = append(changed, f.ID)
		}
	}
	return changed
}
