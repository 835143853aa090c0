package config

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// Path for the metrics endpoint (default: /metrics)
	Path string `mapstructure:"path" validate:"required,startswith=/"`
}

// StreamConfig holds the live tick report feed configuration
type StreamConfig struct {
	// Enabled controls whether the websocket feed is served
	Enabled bool `mapstructure:"enabled"`

	// Path for the websocket endpoint (default: /ws)
	Path string `mapstructure:"path" validate:"required,startswith=/"`

	// Reports buffered per client before it is dropped as too slow
	SendBuffer int `mapstructure:"send_buffer" validate:"min=1"`

	// Actions accepted per second from each client
	ActionRate float64 `mapstructure:"action_rate" validate:"gt=0"`

	// Actions a client may send in a burst
	ActionBurst int `mapstructure:"action_burst" validate:"min=1"`
}
