package setup

import (
	"math"
	"time"

	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/power"
	"github.com/andrescamacho/factorycore/pkg/utils"
)

// NewEnvironment models a day/night cycle starting at noon on epoch and a
// fixed external supply per item shared by the throughput generators that
// consume it, in proportion to their requirement. A non-positive dayLength
// keeps full daylight.
func NewEnvironment(cat catalog.Catalog, epoch time.Time, dayLength time.Duration, supply map[string]float64) simulation.EnvironmentFunc {
	return func(now time.Time, facilities []*facility.Facility) power.Environment {
		env := power.Environment{
			Daylight:   Daylight(now.Sub(epoch), dayLength),
			Throughput: make(map[string]float64),
		}

		required := make(map[string]float64)
		for _, f := range facilities {
			if spec, ok := throughputSpec(cat, f); ok {
				required[spec.ThroughputItem] += spec.RequiredThroughput * float64(f.Count)
			}
		}
		for _, f := range facilities {
			spec, ok := throughputSpec(cat, f)
			if !ok || required[spec.ThroughputItem] <= 0 {
				continue
			}
			share := spec.RequiredThroughput * float64(f.Count) / required[spec.ThroughputItem]
			env.Throughput[f.ID] = supply[spec.ThroughputItem] * share
		}
		return env
	}
}

// Daylight is 1 for the middle third of the day around noon, 0 for the
// middle third of the night, and ramps between them
func Daylight(sinceEpoch, dayLength time.Duration) float64 {
	if dayLength <= 0 {
		return 1
	}
	phase := math.Mod(sinceEpoch.Seconds(), dayLength.Seconds()) / dayLength.Seconds()
	return utils.Clamp01(0.5 + math.Cos(2*math.Pi*phase))
}

func throughputSpec(cat catalog.Catalog, f *facility.Facility) (*catalog.FacilitySpec, bool) {
	if f.IsStopped() {
		return nil, false
	}
	spec, ok := cat.Facility(f.Type)
	if !ok || spec.Generator != catalog.GeneratorThroughput || spec.ThroughputItem == "" {
		return nil, false
	}
	return spec, true
}
