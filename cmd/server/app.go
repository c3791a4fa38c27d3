package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Adams-ibr/anatomia-study-api/internal/config"
	"github.com/Adams-ibr/anatomia-study-api/internal/domain/srs"
	"github.com/Adams-ibr/anatomia-study-api/internal/platform/logger"
	"github.com/Adams-ibr/anatomia-study-api/internal/platform/postgres"
	"github.com/Adams-ibr/anatomia-study-api/internal/service/study"
	"github.com/Adams-ibr/anatomia-study-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	cardStore     store.CardStore
	progressStore store.ProgressStore
	summaryStore  store.SummaryStore
	accessGate    store.AccessGate

	// Service interfaces
	srsService   srs.Service
	studyService study.StudyService
}

// initializeApp loads configuration, sets up logging, connects to the
// database, and wires the application dependencies together.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	return newApplication(cfg, appLogger, db)
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, appLogger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	// Initialize stores
	app.cardStore = postgres.NewPostgresCardStore(db, appLogger)
	app.progressStore = postgres.NewPostgresProgressStore(db, appLogger)
	app.summaryStore = postgres.NewPostgresSummaryStore(db, appLogger)
	app.accessGate = postgres.NewPostgresAccessGate(db, appLogger)

	// Initialize the scheduling engine with any configured overrides
	app.srsService = srs.NewService(srs.NewParams(srs.ParamsConfig{
		GoodSeedIntervalDays: cfg.Scheduler.GoodSeedIntervalDays,
		EasySeedIntervalDays: cfg.Scheduler.EasySeedIntervalDays,
		GoodGrowthFactor:     cfg.Scheduler.GoodGrowthFactor,
		EasyGrowthFactor:     cfg.Scheduler.EasyGrowthFactor,
		RelearnIntervalDays:  cfg.Scheduler.RelearnIntervalDays,
		MaxIntervalDays:      cfg.Scheduler.MaxIntervalDays,
	}))

	// Initialize the study service over a real transaction runner so review
	// submissions lock and advance progress atomically.
	app.studyService = study.NewStudyService(
		app.cardStore,
		app.progressStore,
		app.summaryStore,
		app.accessGate,
		app.srsService,
		store.NewTxRunner(db),
		study.NewSystemClock(),
		appLogger,
	)

	appLogger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
