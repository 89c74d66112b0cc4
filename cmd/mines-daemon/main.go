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
	"path/filepath"
	"syscall"

	"github.com/andrescamacho/mythic-mines/internal/adapters/catalogfile"
	"github.com/andrescamacho/mythic-mines/internal/adapters/grpc"
	"github.com/andrescamacho/mythic-mines/internal/adapters/metrics"
	"github.com/andrescamacho/mythic-mines/internal/adapters/persistence"
	"github.com/andrescamacho/mythic-mines/internal/adapters/snapshotfile"
	"github.com/andrescamacho/mythic-mines/internal/adapters/stream"
	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/setup"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
	"github.com/andrescamacho/mythic-mines/internal/infrastructure/config"
	"github.com/andrescamacho/mythic-mines/internal/infrastructure/database"
	"github.com/andrescamacho/mythic-mines/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to config file (default: search ./, ./configs, /etc/mythic-mines)")
	forceFlag := flag.Bool("force", false, "Take over the PID file even if another daemon owns it")
	slot := flag.String("slot", "", "World slot to load and save (default: database.save_slot)")
	flag.Parse()

	fmt.Println("Mythic Mines Daemon v0.1.0")
	fmt.Println("==========================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configPath)
	if *slot != "" {
		cfg.Database.SaveSlot = *slot
	}

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(*forceFlag); err != nil {
		log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to take over", err)
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		_ = pf.Release()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	slot := cfg.Database.SaveSlot
	// 1. Logging
	logger, err := logging.NewConsoleLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	// 2. Database
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	fmt.Println("Database connected")

	// 3. World
	cat, err := catalogfile.Load(cfg.Simulation.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load resource catalog: %w", err)
	}
	w, err := world.NewWorld(setup.SettingsFromConfig(cfg, cat))
	if err != nil {
		return err
	}
	engine, err := world.NewEngine(w)
	if err != nil {
		return err
	}
	fmt.Printf("World created with %d fields\n", cat.Len())

	// 4. Persistence
	worldRepo := persistence.NewGormWorldRepository(db, slot)
	eventLog := persistence.NewGormEventLogRepository(db, slot, shared.NewRealClock())

	restored, report, err := world.Resume(ctx, engine, worldRepo)
	if err != nil {
		return err
	}
	if restored {
		fmt.Printf("Resumed slot %q at tick %d (%d repairs)\n", slot, engine.CurrentTick(), report.Repairs)
	} else {
		fmt.Printf("Starting new world in slot %q\n", slot)
	}

	var recorder world.EventRecorder
	if cfg.Logging.EventLog {
		recorder = eventLog
	}
	journal := world.NewJournal(recorder)
	engine.Subscribe(journal)

	autosaver := world.NewAutosaver(engine, worldRepo, cfg.Simulation.SnapshotEveryTicks)
	engine.Subscribe(autosaver)

	// 5. Mediator
	var middlewares []mediator.Middleware
	var servers []*http.Server

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		commandMetrics := metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		middlewares = append(middlewares, metrics.PrometheusMiddleware(commandMetrics))

		simMetrics := metrics.NewSimulationMetricsCollector(engine, cfg.Metrics.PollInterval)
		if err := simMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register simulation metrics: %w", err)
		}
		engine.Subscribe(simMetrics)
		simMetrics.Start(ctx)
		defer simMetrics.Stop()

		servers = append(servers, metrics.NewServer(cfg.Metrics))
		fmt.Printf("Metrics enabled on %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
	}

	registry := setup.NewHandlerRegistry(engine, journal, worldRepo, snapshotfile.NewArchive(), eventLog)
	med, err := registry.CreateConfiguredMediator(middlewares...)
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}

	// 6. Stream
	if cfg.Daemon.StreamAddress != "" {
		hub := stream.NewHub(engine, logger)
		engine.Subscribe(hub)
		hub.Start(ctx)
		defer hub.Stop()

		servers = append(servers, stream.NewServer(cfg.Daemon.StreamAddress, hub))
		fmt.Printf("Tick stream on ws://%s/ws\n", cfg.Daemon.StreamAddress)
	}

	for _, srv := range servers {
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log(logging.LevelError, "HTTP server failed", map[string]interface{}{
					"addr":  srv.Addr,
					"error": err.Error(),
				})
			}
		}(srv)
	}

	// 7. gRPC
	if err := os.MkdirAll(filepath.Dir(cfg.Daemon.SocketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	daemonServer, err := grpc.NewDaemonServer(med, logger, cfg.Daemon)
	if err != nil {
		return fmt.Errorf("failed to create daemon server: %w", err)
	}

	// 8. Ticks
	scheduler := world.NewScheduler(engine, cfg.Simulation.TickInterval)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- daemonServer.Serve() }()

	fmt.Printf("Daemon server listening on unix socket: %s\n", daemonServer.Addr())
	fmt.Println("\n✓ Daemon is ready to accept connections")
	fmt.Println("Press Ctrl+C to stop")

	select {
	case <-ctx.Done():
		fmt.Println("\nShutdown signal received, stopping daemon...")
	case err = <-serveErr:
	}

	scheduler.Stop()
	daemonServer.Stop()

	shutdownCtx, cancel := context.WithTimeout(logging.WithLogger(context.Background(), logger), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		_ = srv.Shutdown(shutdownCtx)
	}

	if saveErr := autosaver.Save(shutdownCtx); saveErr != nil {
		logger.Log(logging.LevelError, "Final save failed", map[string]interface{}{"error": saveErr.Error()})
		if err == nil {
			err = saveErr
		}
	} else {
		fmt.Printf("World saved at tick %d\n", engine.CurrentTick())
	}

	fmt.Println("Daemon stopped")
	return err
}
