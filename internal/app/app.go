package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
	"github.com/ternarybob/speculo/internal/handlers"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/services/assets"
	"github.com/ternarybob/speculo/internal/services/events"
	"github.com/ternarybob/speculo/internal/services/index"
	"github.com/ternarybob/speculo/internal/services/notify"
	"github.com/ternarybob/speculo/internal/services/projector"
	"github.com/ternarybob/speculo/internal/services/scheduler"
	"github.com/ternarybob/speculo/internal/services/scrape"
	"github.com/ternarybob/speculo/internal/services/snapshot"
	"github.com/ternarybob/speculo/internal/services/source"
	syncsvc "github.com/ternarybob/speculo/internal/services/sync"
	badgerstorage "github.com/ternarybob/speculo/internal/storage/badger"
	"github.com/ternarybob/speculo/internal/storage/blobs"
	"github.com/ternarybob/speculo/internal/storage/snapshots"
	"github.com/ternarybob/speculo/internal/worker"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager
	BlobStore      interfaces.BlobStore
	SnapshotStore  interfaces.SnapshotStore

	// Pipeline services
	EventService     interfaces.EventService
	AssetRehoster    interfaces.AssetRehoster
	IndexReplacer    interfaces.IndexReplacer
	Notifier         interfaces.Notifier
	Orchestrator     *syncsvc.Orchestrator
	Dispatcher       *worker.Dispatcher
	SchedulerService *scheduler.Service
	ScrapeService    interfaces.PageScraper

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	SyncHandler      *handlers.SyncHandler
	WorkspaceHandler *handlers.WorkspaceHandler
	ScrapeHandler    *handlers.ScrapeHandler
	DataHandler      *handlers.DataHandler
	WSHandler        *handlers.WebSocketHandler
}

// New creates and wires all application components.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	storageManager, err := badgerstorage.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.StorageManager = storageManager

	blobStore, err := blobs.NewStore(&config.Storage.Blobs, logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}
	a.BlobStore = blobStore
	a.SnapshotStore = snapshots.NewStore(blobStore, logger)

	a.EventService = events.NewService(logger)
	a.AssetRehoster = assets.NewService(blobStore, logger)
	a.IndexReplacer = index.NewReplacer(storageManager.IndexStorage(), logger)
	a.Notifier = notify.NewNotifier(config.Sync.MaterializeURL, logger)
	a.ScrapeService = scrape.NewService(&config.Scrape, logger)

	// Each work item carries its own source credential, so the fetch
	// pipeline is assembled per run.
	builderFor := func(credential string) interfaces.SnapshotBuilder {
		client := source.NewClient(&config.Source, credential, logger)
		fetcher := source.NewFetcher(client, &config.Source, logger)
		proj := projector.NewService(a.AssetRehoster, fetcher, logger)
		return snapshot.NewBuilder(fetcher, proj, config.Source.PageSize, config.Sync.Concurrency, logger)
	}

	a.Orchestrator = syncsvc.NewOrchestrator(
		storageManager.WorkspaceStorage(),
		storageManager.WorkItemStorage(),
		a.SnapshotStore,
		a.IndexReplacer,
		a.Notifier,
		a.EventService,
		builderFor,
		config.Sync.Timeout,
		logger,
	)

	a.Dispatcher = worker.NewDispatcher(
		storageManager.WorkItemStorage(),
		a.Orchestrator,
		config.Sync.PollInterval,
		config.Sync.Workers,
		logger,
	)

	a.SchedulerService = scheduler.NewService(storageManager.WorkItemStorage(), &config.Scheduler, logger)

	a.APIHandler = handlers.NewAPIHandler(storageManager, logger)
	a.SyncHandler = handlers.NewSyncHandler(storageManager.WorkItemStorage(), a.EventService, logger)
	a.WorkspaceHandler = handlers.NewWorkspaceHandler(
		storageManager.WorkspaceStorage(),
		a.SnapshotStore,
		a.IndexReplacer,
		storageManager.IndexStorage(),
		logger,
	)
	a.ScrapeHandler = handlers.NewScrapeHandler(a.ScrapeService, logger)
	a.DataHandler = handlers.NewDataHandler(blobStore, logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, logger)

	logger.Info().Msg("Application components initialized")
	return a, nil
}

// Start launches the background work dispatcher and scheduler.
func (a *App) Start() error {
	a.Dispatcher.Start()

	if err := a.SchedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	return nil
}

// Close stops background work and releases storage.
func (a *App) Close() error {
	a.SchedulerService.Stop()
	a.Dispatcher.Stop()
	a.WSHandler.Close()

	if err := a.StorageManager.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}

	a.Logger.Info().Msg("Application shut down")
	return nil
}
