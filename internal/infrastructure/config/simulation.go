package config

import (
	"time"

	"github.com/andrescamacho/factorycore/internal/domain/crafting"
)

// SimulationConfig holds tick driver configuration
type SimulationConfig struct {
	// Wall-clock interval between ticks
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`

	// Simulated seconds per wall-clock second
	TimeScale float64 `mapstructure:"time_scale" validate:"gt=0"`

	// Divisor applied to hand-crafting durations
	ManualEfficiency float64 `mapstructure:"manual_efficiency" validate:"gt=0"`

	// Recipe depth beyond which the resolver treats items as raw
	MaxResolveDepth int `mapstructure:"max_resolve_depth" validate:"min=1"`

	// Length of a full day/night cycle for solar output (0 keeps full daylight)
	DaylightCycle time.Duration `mapstructure:"daylight_cycle"`

	// Persist the facility layout every N committed ticks
	SaveEveryTicks int `mapstructure:"save_every_ticks" validate:"min=1"`

	// External input supplied per second to throughput generators, by item
	Throughput map[string]float64 `mapstructure:"throughput" validate:"dive,keys,catalog_item,endkeys,gte=0"`
}

// InventoryConfig holds inventory store configuration
type InventoryConfig struct {
	// Capacity for items without an explicit cap (0 = unlimited)
	DefaultCapacity int `mapstructure:"default_capacity" validate:"min=0"`

	// Starting quantities written when the store is empty
	Seed map[string]int `mapstructure:"seed" validate:"dive,keys,catalog_item,endkeys,gte=0"`
}

// ResolverOptions converts the section into crafting resolver options
func (c SimulationConfig) ResolverOptions() crafting.Options {
	return crafting.Options{
		ManualEfficiency: c.ManualEfficiency,
		MaxDepth:         c.MaxResolveDepth,
	}
}

// TickSeconds is the simulated time covered by one tick
func (c SimulationConfig) TickSeconds() float64 {
	return c.TickInterval.Seconds() * c.TimeScale
}
