package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/andrescamacho/factorycore/internal/adapters/logging"
	"github.com/andrescamacho/factorycore/internal/adapters/memory"
	"github.com/andrescamacho/factorycore/internal/application/common"
	"github.com/andrescamacho/factorycore/internal/application/setup"
	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/eligibility"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/power"
	"github.com/andrescamacho/factorycore/internal/infrastructure/config"
)

// session is an in-process simulation built from config and global flags
type session struct {
	cfg        *config.Config
	catalog    *catalog.Static
	store      *memory.InventoryStore
	driver     *simulation.Driver
	mediator   common.Mediator
	classifier *eligibility.Classifier
	ctx        context.Context
}

func newSession(daylight float64) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	stock := make(map[string]int, len(cfg.Inventory.Seed))
	for item, qty := range cfg.Inventory.Seed {
		stock[item] = qty
	}
	extra, err := parseQuantities(stockFlags)
	if err != nil {
		return nil, fmt.Errorf("invalid --stock: %w", err)
	}
	for item, qty := range extra {
		stock[item] += qty
	}

	cat := catalog.Standard()
	store := memory.NewInventoryStore(stock, nil, cfg.Inventory.DefaultCapacity)

	opts := setup.DriverOptions{
		Eligibility: cfg.Eligibility.ToDomain(),
		CacheSize:   cfg.Eligibility.CacheSize,
		Fuel:        cfg.Fuel.ToDomain(),
		Resolver:    cfg.Simulation.ResolverOptions(),
	}
	base := setup.NewEnvironment(cat, time.Time{}, 0, cfg.Simulation.Throughput)
	opts.Environment = func(now time.Time, facilities []*facility.Facility) power.Environment {
		env := base(now, facilities)
		env.Daylight = daylight
		return env
	}

	driver, _, err := setup.BuildDriver(cat, store, nil, opts)
	if err != nil {
		return nil, err
	}
	mediator, err := setup.NewHandlerRegistry(driver).CreateConfiguredMediator()
	if err != nil {
		return nil, fmt.Errorf("failed to configure mediator: %w", err)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewWriterLogger(os.Stderr, "text", level)

	return &session{
		cfg:        cfg,
		catalog:    cat,
		store:      store,
		driver:     driver,
		mediator:   mediator,
		classifier: eligibility.NewClassifier(cfg.Eligibility.ToDomain(), cat),
		ctx:        common.WithLogger(context.Background(), logger),
	}, nil
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.LoadConfigOrDefault(""), nil
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	return cfg, nil
}

// place adds each facility spec through the mediator
func (s *session) place(specs []placement) ([]*facility.Facility, error) {
	placed := make([]*facility.Facility, 0, len(specs))
	for _, p := range specs {
		resp, err := s.mediator.Send(s.ctx, &simulation.PlaceFacilityCommand{
			FacilityType: p.facilityType,
			Count:        p.count,
			RecipeID:     p.recipeID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to place %s: %w", p.facilityType, err)
		}
		placed = append(placed, resp.(*simulation.PlaceFacilityResponse).Facility)
	}
	return placed, nil
}
