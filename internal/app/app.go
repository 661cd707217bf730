package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/handlers"
	"github.com/ternarybob/docqa/internal/interfaces"
	"github.com/ternarybob/docqa/internal/models"
	"github.com/ternarybob/docqa/internal/services/documents"
	"github.com/ternarybob/docqa/internal/services/events"
	"github.com/ternarybob/docqa/internal/services/kv"
	"github.com/ternarybob/docqa/internal/services/llm"
	"github.com/ternarybob/docqa/internal/services/qa"
	"github.com/ternarybob/docqa/internal/services/scheduler"
	"github.com/ternarybob/docqa/internal/storage"
)

const maintenanceJobName = "storage_maintenance"

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager
	Store          *kv.Store

	// Event-driven services
	EventService     interfaces.EventService
	SchedulerService interfaces.SchedulerService

	// Domain services
	LLMService *llm.GeminiService
	Documents  *documents.Registry
	QA         *qa.Manager

	// Resolved once at startup; empty disables remote answers
	APIKey string

	// HTTP handlers
	WSHandler       *handlers.WebSocketHandler
	DocumentHandler *handlers.DocumentHandler
	QAHandler       *handlers.QAHandler
	StatusHandler   *handlers.StatusHandler
}

// New initializes the application with all dependencies.
// The document registry and the Q&A session are loaded before New returns.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("storage", app.StorageManager.Backend()).
		Bool("ai_enabled", app.APIKey != "").
		Str("model", app.LLMService.Model()).
		Int("documents", len(app.Documents.Documents())).
		Int("qa_records", len(app.QA.All())).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the key/value storage backend
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Store = kv.NewStore(storageManager.KeyValueStorage(), a.Logger)

	a.Logger.Debug().
		Str("storage", storageManager.Backend()).
		Msg("Storage layer initialized")

	return nil
}

// initServices creates the domain services in dependency order and loads persisted state
func (a *App) initServices() error {
	ctx := context.Background()

	a.EventService = events.NewService(a.Logger)

	apiKey, err := common.ResolveAPIKey(ctx, a.StorageManager.KeyValueStorage(), common.KeyGeminiAPIKey, a.Config.Gemini.APIKey)
	if err != nil {
		a.Logger.Info().Msg("No Google API key configured, answers will be generated locally")
	}
	a.APIKey = apiKey

	a.LLMService = llm.NewGeminiService(&a.Config.Gemini, a.Logger)

	a.Documents = documents.NewRegistry(a.Store, a.EventService, a.Logger, documents.Options{
		UploadInterval: common.ParseDurationOr(a.Config.Upload.Interval, 0),
		UploadStep:     a.Config.Upload.Step,
	})

	a.QA = qa.NewManager(a.Store, a.LLMService, a.EventService, a.Logger, qa.Options{
		APIKey:        a.APIKey,
		DebounceDelay: common.ParseDurationOr(a.Config.Search.DebounceDelay, 0),
	})

	a.Documents.Load(ctx)
	a.QA.Load(ctx)

	// History view follows the selected document
	if selected, ok := a.Documents.Selected(); ok {
		a.QA.SetDocumentFilter(selected.ID)
	}
	if err := a.EventService.Subscribe(interfaces.EventDocumentSelected, a.onDocumentSelected); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", interfaces.EventDocumentSelected, err)
	}

	if err := a.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (a *App) onDocumentSelected(ctx context.Context, event interfaces.Event) error {
	doc, ok := event.Payload.(models.Document)
	if !ok {
		a.Logger.Warn().Msg("Invalid document_selected event payload type")
		return nil
	}

	// A concurrent Select may have moved on; apply only if still the selection
	if selected, ok := a.Documents.Selected(); ok && selected.ID == doc.ID {
		a.QA.SetDocumentFilter(doc.ID)
	}
	return nil
}

// initScheduler registers storage maintenance when enabled
func (a *App) initScheduler() error {
	a.SchedulerService = scheduler.NewService(a.Logger)

	if !a.Config.Maintenance.Enabled {
		a.Logger.Debug().Msg("Storage maintenance disabled")
		return nil
	}

	err := a.SchedulerService.RegisterJob(
		maintenanceJobName,
		a.Config.Maintenance.Schedule,
		"Reclaim storage space and refresh statistics",
		func() error {
			return a.StorageManager.Maintain(context.Background())
		},
	)
	if err != nil {
		return fmt.Errorf("failed to register maintenance job: %w", err)
	}

	if err := a.SchedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	return nil
}

// initHandlers creates the HTTP and WebSocket handlers
func (a *App) initHandlers() {
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, a.Logger, &a.Config.WebSocket)
	a.DocumentHandler = handlers.NewDocumentHandler(a.Documents, a.Logger)
	a.QAHandler = handlers.NewQAHandler(a.QA, a.Documents, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.LLMService, a.APIKey, a.Logger)
}

// Close stops background work and releases storage. Safe on a partially built App.
func (a *App) Close() error {
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	// Cancels an in-flight upload without creating a document
	if a.Documents != nil {
		a.Documents.Close()
	}

	if a.QA != nil {
		a.QA.Close()
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
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
