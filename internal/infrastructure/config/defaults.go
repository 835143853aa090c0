package config

import (
	"time"

	"github.com/andrescamacho/factorycore/internal/domain/eligibility"
	"github.com/andrescamacho/factorycore/internal/domain/fuel"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Simulation defaults
	if cfg.Simulation.TickInterval == 0 {
		cfg.Simulation.TickInterval = time.Second
	}
	if cfg.Simulation.TimeScale == 0 {
		cfg.Simulation.TimeScale = 1
	}
	if cfg.Simulation.ManualEfficiency == 0 {
		cfg.Simulation.ManualEfficiency = 1
	}
	if cfg.Simulation.MaxResolveDepth == 0 {
		cfg.Simulation.MaxResolveDepth = 32
	}
	if cfg.Simulation.SaveEveryTicks == 0 {
		cfg.Simulation.SaveEveryTicks = 30
	}
	if cfg.Simulation.Throughput == nil {
		cfg.Simulation.Throughput = map[string]float64{"steam": 60}
	}

	// Fuel defaults
	fuelDefaults := fuel.DefaultConfig()
	if cfg.Fuel.RefuelThreshold == 0 {
		cfg.Fuel.RefuelThreshold = fuelDefaults.RefuelThreshold
	}
	if cfg.Fuel.BufferSeconds == 0 {
		cfg.Fuel.BufferSeconds = fuelDefaults.BufferSeconds
	}

	// Eligibility defaults
	eligibilityDefaults := eligibility.DefaultConfig()
	if len(cfg.Eligibility.RestrictedCategories) == 0 {
		cfg.Eligibility.RestrictedCategories = eligibilityDefaults.RestrictedCategories
	}
	if len(cfg.Eligibility.ManualCategories) == 0 {
		cfg.Eligibility.ManualCategories = eligibilityDefaults.ManualCategories
	}
	if len(cfg.Eligibility.RestrictedProducers) == 0 {
		cfg.Eligibility.RestrictedProducers = eligibilityDefaults.RestrictedProducers
	}
	if cfg.Eligibility.CacheSize == 0 {
		cfg.Eligibility.CacheSize = 1024
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "factorycore.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "factorycore"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "factorycore"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics and stream defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Stream.Path == "" {
		cfg.Stream.Path = "/ws"
	}
	if cfg.Stream.SendBuffer == 0 {
		cfg.Stream.SendBuffer = 16
	}
	if cfg.Stream.ActionRate == 0 {
		cfg.Stream.ActionRate = 5
	}
	if cfg.Stream.ActionBurst == 0 {
		cfg.Stream.ActionBurst = 10
	}

	// Daemon defaults
	if cfg.Daemon.ListenAddress == "" {
		cfg.Daemon.ListenAddress = "localhost:9464"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/factorycore-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Daemon.StartupLayout == nil {
		cfg.Daemon.StartupLayout = []PlacementConfig{
			{Type: "solar-panel", Count: 4},
			{Type: "stone-furnace", Recipe: "iron-plate", Count: 2},
			{Type: "assembling-machine", Recipe: "iron-gear-wheel", Count: 1},
		}
	}
	for i := range cfg.Daemon.StartupLayout {
		if cfg.Daemon.StartupLayout[i].Count == 0 {
			cfg.Daemon.StartupLayout[i].Count = 1
		}
	}
}
