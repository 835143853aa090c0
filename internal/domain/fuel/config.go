package fuel

// Config holds fuel policy
type Config struct {
	// RefuelThreshold is the fill ratio in [0,1] below which AutoRefuel loads fuel
	RefuelThreshold float64
	// BufferSeconds sizes buffers whose metadata leaves MaxEnergy unset
	BufferSeconds float64
	// Priorities overrides the fuel order per facility type
	Priorities map[string][]string
}

// DefaultConfig returns the standard refuel policy
func DefaultConfig() Config {
	return Config{
		RefuelThreshold: 0.25,
		BufferSeconds:   120,
	}
}
