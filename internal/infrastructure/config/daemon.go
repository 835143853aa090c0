package config

import "time"

// DaemonConfig holds daemon service configuration
type DaemonConfig struct {
	// HTTP listen address serving metrics and the live feed (host:port)
	ListenAddress string `mapstructure:"listen_address" validate:"required,hostname_port"`

	// PID file location
	PIDFile string `mapstructure:"pid_file"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`

	// Facilities placed on first start, when no saved layout exists
	StartupLayout []PlacementConfig `mapstructure:"startup_layout" validate:"dive"`
}

// PlacementConfig describes one group of facilities to place
type PlacementConfig struct {
	Type   string `mapstructure:"type" validate:"required,facility_type"`
	Recipe string `mapstructure:"recipe"`
	Count  int    `mapstructure:"count" validate:"min=1"`
}
