package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/factorycore/internal/adapters/logging"
	"github.com/andrescamacho/factorycore/internal/adapters/metrics"
	"github.com/andrescamacho/factorycore/internal/adapters/persistence"
	"github.com/andrescamacho/factorycore/internal/adapters/stream"
	"github.com/andrescamacho/factorycore/internal/application/common"
	"github.com/andrescamacho/factorycore/internal/application/setup"
	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/shared"
	"github.com/andrescamacho/factorycore/internal/infrastructure/config"
	"github.com/andrescamacho/factorycore/internal/infrastructure/database"
	"github.com/andrescamacho/factorycore/internal/infrastructure/pidfile"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: search ./config.yaml, ./configs, $HOME/.factorycore)")
	flag.Parse()

	fmt.Println("Factory Daemon v0.1.0")
	fmt.Println("=====================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configPath)

	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	os.Exit(runLocked(pidfile.New(cfg.Daemon.PIDFile), func() error {
		return run(cfg)
	}))
}

// runLocked runs fn while holding the PID file and returns the process exit
// code. The lock is released on every path before the code is returned.
func runLocked(pf *pidfile.PIDFile, fn func() error) int {
	if err := pf.Acquire(); err != nil {
		log.Printf("Failed to acquire PID file lock: %v", err)
		return 1
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := fn(); err != nil {
		log.Printf("Fatal error: %v", err)
		return 1
	}
	return 0
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Logger
	logger, err := logging.NewSlogLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	ctx = common.WithLogger(ctx, logger)

	// 2. Database
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected")

	// 3. Repositories
	clock := shared.NewRealClock()
	store := persistence.NewGormInventoryStore(db, cfg.Inventory.DefaultCapacity, clock)
	facilityRepo := persistence.NewGormFacilityRepository(db, clock)

	empty, err := store.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect inventory: %w", err)
	}
	if empty && len(cfg.Inventory.Seed) > 0 {
		if err := store.Seed(ctx, cfg.Inventory.Seed); err != nil {
			return fmt.Errorf("failed to seed inventory: %w", err)
		}
		fmt.Printf("Inventory seeded with %d item types\n", len(cfg.Inventory.Seed))
	}

	// 4. Metrics
	var recorder simulation.MetricsRecorder
	var commandMetrics *metrics.CommandMetricsCollector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		simMetrics := metrics.NewSimulationMetricsCollector()
		if err := simMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register simulation metrics: %w", err)
		}
		commandMetrics = metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		recorder = simMetrics
		fmt.Printf("Metrics enabled at %s\n", cfg.Metrics.Path)
	}

	// 5. Live feed hub (mediator attached once the driver exists)
	var hub *stream.Hub
	var publisher simulation.ReportPublisher
	if cfg.Stream.Enabled {
		hub = stream.NewHub(nil, logger, cfg.Stream.SendBuffer,
			stream.WithActionRate(rate.Limit(cfg.Stream.ActionRate), cfg.Stream.ActionBurst))
		publisher = hub
	}

	// 6. Driver and mediator
	cat := catalog.Standard()
	driver, _, err := setup.BuildDriver(cat, store, clock, setup.DriverOptions{
		Eligibility: cfg.Eligibility.ToDomain(),
		CacheSize:   cfg.Eligibility.CacheSize,
		Fuel:        cfg.Fuel.ToDomain(),
		Resolver:    cfg.Simulation.ResolverOptions(),
		Metrics:     recorder,
		Publisher:   publisher,
		Environment: setup.NewEnvironment(cat, clock.Now(), cfg.Simulation.DaylightCycle, cfg.Simulation.Throughput),
	})
	if err != nil {
		return fmt.Errorf("failed to build driver: %w", err)
	}

	med, err := setup.NewHandlerRegistry(driver).CreateConfiguredMediator()
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}
	if commandMetrics != nil {
		med.Use(metrics.PrometheusMiddleware(commandMetrics))
	}
	if hub != nil {
		hub.SetMediator(med)
	}

	facilities, err := facilityRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load facilities: %w", err)
	}
	if len(facilities) > 0 {
		driver.LoadFacilities(facilities)
		fmt.Printf("Restored %d facilities\n", len(facilities))
	} else if err := placeStartupLayout(ctx, med, cfg.Daemon.StartupLayout); err != nil {
		return err
	}

	// 7. HTTP server
	mux := http.NewServeMux()
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}
	if hub != nil {
		go hub.Run(ctx)
		mux.Handle(cfg.Stream.Path, hub)
	}
	server := &http.Server{Addr: cfg.Daemon.ListenAddress, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()
	fmt.Printf("Listening on %s\n", cfg.Daemon.ListenAddress)

	fmt.Println("\n✓ Daemon is ready")
	fmt.Println("Press Ctrl+C to stop")

	// 8. Tick loop
	runErr := tickLoop(ctx, cfg, driver, facilityRepo, errChan)

	fmt.Println("\nShutdown signal received, stopping daemon...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log(common.LevelWarning, fmt.Sprintf("[Daemon] HTTP shutdown incomplete: %v", err), nil)
	}

	if err := facilityRepo.Save(shutdownCtx, driver.Facilities()); err != nil {
		return fmt.Errorf("failed to save facilities on shutdown: %w", err)
	}
	fmt.Println("Facility layout saved")

	fmt.Println("\nDaemon stopped")
	return runErr
}

// placeStartupLayout places the configured facilities through the mediator
func placeStartupLayout(ctx context.Context, med common.Mediator, layout []config.PlacementConfig) error {
	for _, p := range layout {
		if _, err := med.Send(ctx, &simulation.PlaceFacilityCommand{
			FacilityType: p.Type,
			Count:        p.Count,
			RecipeID:     p.Recipe,
		}); err != nil {
			return fmt.Errorf("failed to place startup %s: %w", p.Type, err)
		}
	}
	fmt.Printf("Placed startup layout (%d groups)\n", len(layout))
	return nil
}

// tickLoop drives the simulation until ctx is cancelled or the HTTP server
// fails. A failed tick is logged and retried on the next interval.
func tickLoop(ctx context.Context, cfg *config.Config, driver *simulation.Driver, repo facility.Repository, errChan <-chan error) error {
	logger := common.LoggerFromContext(ctx)
	ticker := time.NewTicker(cfg.Simulation.TickInterval)
	defer ticker.Stop()

	elapsed := cfg.Simulation.TickSeconds()
	sinceSave := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errChan:
			return err
		case <-ticker.C:
			if _, err := driver.Tick(ctx, elapsed); err != nil {
				continue
			}
			sinceSave++
			if sinceSave < cfg.Simulation.SaveEveryTicks {
				continue
			}
			sinceSave = 0
			if err := repo.Save(ctx, driver.Facilities()); err != nil {
				logger.Log(common.LevelError, fmt.Sprintf("[Daemon] Failed to save facility layout: %v", err), nil)
			}
		}
	}
}
