package setup

import (
	"fmt"

	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/crafting"
	"github.com/andrescamacho/factorycore/internal/domain/eligibility"
	"github.com/andrescamacho/factorycore/internal/domain/fuel"
	"github.com/andrescamacho/factorycore/internal/domain/inventory"
	"github.com/andrescamacho/factorycore/internal/domain/power"
	"github.com/andrescamacho/factorycore/internal/domain/production"
	"github.com/andrescamacho/factorycore/internal/domain/shared"
)

// DriverOptions are the tunables the daemon and CLI read from configuration
type DriverOptions struct {
	Eligibility eligibility.Config
	CacheSize   int // > 0 memoizes classifier verdicts
	Fuel        fuel.Config
	Resolver    crafting.Options

	Metrics     simulation.MetricsRecorder
	Publisher   simulation.ReportPublisher
	Environment simulation.EnvironmentFunc
}

// DefaultDriverOptions mirrors the domain defaults
func DefaultDriverOptions() DriverOptions {
	return DriverOptions{
		Eligibility: eligibility.DefaultConfig(),
		Fuel:        fuel.DefaultConfig(),
		Resolver:    crafting.DefaultOptions(),
	}
}

// BuildDriver wires the domain services around a catalog and inventory store
func BuildDriver(cat catalog.Catalog, store inventory.Store, clock shared.Clock, opts DriverOptions) (*simulation.Driver, eligibility.Validator, error) {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	classifier := eligibility.NewClassifier(opts.Eligibility, cat)
	var validator eligibility.Validator = classifier
	if opts.CacheSize > 0 {
		cached, err := eligibility.NewCachedClassifier(classifier, opts.CacheSize)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create classifier cache: %w", err)
		}
		validator = cached
	}

	driver := simulation.NewDriver(simulation.Dependencies{
		Catalog:     cat,
		Store:       store,
		Power:       power.NewCalculator(cat),
		Fuel:        fuel.NewSimulator(cat, clock, opts.Fuel),
		Production:  production.NewEngine(cat),
		Resolver:    crafting.NewResolver(cat, validator, opts.Resolver, clock),
		Clock:       clock,
		Metrics:     opts.Metrics,
		Publisher:   opts.Publisher,
		Environment: opts.Environment,
	})
	return driver, validator, nil
}
