package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"museum-booking/cmd"
	"museum-booking/internal/data/repository"
	"museum-booking/internal/data/repository/memory"
	"museum-booking/internal/wire"
	"museum-booking/pkg/database"
	"museum-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	if config.App.Timezone != "" {
		loc, err := time.LoadLocation(config.App.Timezone)
		if err != nil {
			logger.Fatal("Invalid APP_TIMEZONE", zap.String("timezone", config.App.Timezone), zap.Error(err))
		}
		time.Local = loc
	}

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open storage
	var store *repository.Store
	switch config.Database.Driver {
	case utils.DriverMemory:
		logger.Warn("Using in-memory store; data is lost on exit and quotas are not shared across instances")
		store = memory.NewStore(logger)
	default:
		db, err := database.InitDB(ctx, config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}

		logger.Info("Database connected successfully")
		store = repository.NewStore(db, logger)
	}

	clock := utils.SystemClock{}

	notifier, closeNotifier, err := wire.Notifier(ctx, store, config, clock, logger)
	if err != nil {
		logger.Fatal("Failed to set up notifications", zap.Error(err))
	}
	defer func() {
		if err := closeNotifier(); err != nil {
			logger.Warn("Failed to close notifier", zap.Error(err))
		}
	}()

	// Wire all dependencies
	app := wire.Wiring(store, notifier, config, clock, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cmd.APIServer(gctx, app.Router, config.App.Port, logger)
	})
	g.Go(func() error {
		return cmd.Scheduler(gctx, config.Schedule, app.Service, logger)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		return
	}
	logger.Info("Application stopped")
}
