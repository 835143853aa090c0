package config

import "github.com/andrescamacho/factorycore/internal/domain/fuel"

// FuelConfig holds fuel simulation configuration
type FuelConfig struct {
	// Fill ratio below which auto-refuel kicks in
	RefuelThreshold float64 `mapstructure:"refuel_threshold" validate:"gte=0,lte=1"`

	// Seconds of burn a buffer holds when the facility does not set max energy
	BufferSeconds float64 `mapstructure:"buffer_seconds" validate:"gt=0"`

	// Fuel priority overrides keyed by facility type
	Priorities map[string][]string `mapstructure:"priorities" validate:"dive,keys,facility_type,endkeys,dive,catalog_item"`
}

// ToDomain converts the section into the fuel simulator configuration
func (c FuelConfig) ToDomain() fuel.Config {
	priorities := make(map[string][]string, len(c.Priorities))
	for k, v := range c.Priorities {
		priorities[k] = append([]string(nil), v...)
	}
	return fuel.Config{
		RefuelThreshold: c.RefuelThreshold,
		BufferSeconds:   c.BufferSeconds,
		Priorities:      priorities,
	}
}
