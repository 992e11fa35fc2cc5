package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/handlers"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/services/auth"
	"github.com/ternarybob/adhyayan/internal/services/discovery"
	"github.com/ternarybob/adhyayan/internal/services/embeddings"
	"github.com/ternarybob/adhyayan/internal/services/events"
	"github.com/ternarybob/adhyayan/internal/services/ingest"
	"github.com/ternarybob/adhyayan/internal/services/llm"
	"github.com/ternarybob/adhyayan/internal/services/pdf"
	"github.com/ternarybob/adhyayan/internal/services/qa"
	"github.com/ternarybob/adhyayan/internal/services/scheduler"
	"github.com/ternarybob/adhyayan/internal/services/search"
	"github.com/ternarybob/adhyayan/internal/storage"
	"github.com/ternarybob/arbor"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Core services
	LLMService       interfaces.LLMService
	EmbeddingService interfaces.EmbeddingService
	PDFExtractor     interfaces.PDFExtractor
	ReportService    interfaces.PDFService
	IngestService    interfaces.IngestService
	SearchService    interfaces.SearchService
	QAService        interfaces.QAService
	DiscoveryService interfaces.DiscoveryService
	AuthService      interfaces.AuthService
	EventHub         *events.Hub
	Scheduler        *scheduler.Service

	// HTTP handlers
	PaperHandler       *handlers.PaperHandler
	QAHandler          *handlers.QAHandler
	SearchHandler      *handlers.SearchHandler
	AuthHandler        *handlers.AuthHandler
	StatusHandler      *handlers.StatusHandler
	MaintenanceHandler *handlers.MaintenanceHandler
	WSHandler          *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	if err := app.initScheduler(); err != nil {
		return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	logger.Info().
		Str("llm_provider", string(cfg.LLM.DefaultProvider)).
		Str("llm_mode", string(app.LLMService.GetMode())).
		Bool("auth_enabled", app.AuthService.Enabled()).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage initializes the storage layer (Badger)
func (a *App) initStorage() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	a.EventHub = events.NewHub(a.Logger)

	a.LLMService = llm.NewService(&a.Config.LLM, a.StorageManager.KeyValueStorage(), a.Logger)
	if err := a.LLMService.HealthCheck(context.Background()); err != nil {
		a.Logger.Warn().Err(err).Msg("LLM health check failed; ingestion and question answering may be degraded")
	}

	a.EmbeddingService = embeddings.NewService(a.LLMService, a.Config.LLM.Gemini.EmbeddingModel, a.Logger)
	a.PDFExtractor = pdf.NewExtractor(a.Logger)
	a.ReportService = pdf.NewReportService(a.Logger)

	a.SearchService = search.NewService(a.StorageManager, a.EmbeddingService, a.Logger)
	a.QAService = qa.NewService(a.Config, a.SearchService, a.LLMService, a.Logger)
	a.DiscoveryService = discovery.NewService(a.Config, a.EmbeddingService, a.Logger)

	a.IngestService = ingest.NewService(
		a.Config,
		a.StorageManager,
		a.PDFExtractor,
		a.EmbeddingService,
		a.LLMService,
		a.EventHub,
		a.Logger,
	)

	a.AuthService = auth.NewService(a.Config, a.StorageManager.SessionStorage(), a.Logger)

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() {
	a.WSHandler = handlers.NewWebSocketHandler(a.EventHub, a.Logger)
	a.AuthHandler = handlers.NewAuthHandler(a.AuthService, a.Logger)
	a.PaperHandler = handlers.NewPaperHandler(
		a.Config,
		a.StorageManager,
		a.IngestService,
		a.DiscoveryService,
		a.ReportService,
		a.Logger,
	)
	a.QAHandler = handlers.NewQAHandler(a.QAService, a.Logger)
	a.SearchHandler = handlers.NewSearchHandler(a.SearchService, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.StorageManager, a.QAService, a.Logger)
}

// initScheduler registers and starts maintenance jobs
func (a *App) initScheduler() error {
	a.Scheduler = scheduler.NewService(a.Logger)
	a.MaintenanceHandler = handlers.NewMaintenanceHandler(a.Scheduler, a.Logger)

	if !a.Config.Maintenance.Enabled {
		a.Logger.Debug().Msg("Maintenance scheduler disabled")
		return nil
	}

	if err := a.Scheduler.RegisterJob(
		"session-sweep",
		a.Config.Maintenance.SessionSweep,
		scheduler.SessionSweepJob(a.StorageManager.SessionStorage(), a.Logger),
	); err != nil {
		return err
	}

	if err := a.Scheduler.RegisterJob(
		"upload-cleanup",
		a.Config.Maintenance.UploadCleanup,
		scheduler.UploadCleanupJob(a.StorageManager.PaperStorage(), a.Config.Storage.Uploads.Dir, a.Logger),
	); err != nil {
		return err
	}

	return a.Scheduler.Start()
}

// Close closes all application resources
func (a *App) Close() error {
	if a.Scheduler != nil {
		if err := a.Scheduler.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler")
		}
	}

	if a.EventHub != nil {
		if err := a.EventHub.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event hub")
		}
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
