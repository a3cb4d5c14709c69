package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/interfaces"
	syncsvc "github.com/ternarybob/speculo/internal/services/sync"
)

// Dispatcher polls the work item store and executes sync runs. Each claimed
// item is processed exactly once; failed runs leave their item in the store
// with a failed status.
type Dispatcher struct {
	workItems    interfaces.WorkItemStorage
	orchestrator *syncsvc.Orchestrator
	pollInterval time.Duration
	numWorkers   int
	logger       arbor.ILogger
	wg           sync.WaitGroup
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewDispatcher creates a work dispatcher.
func NewDispatcher(workItems interfaces.WorkItemStorage, orchestrator *syncsvc.Orchestrator, pollInterval time.Duration, numWorkers int, logger arbor.ILogger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if numWorkers <= 0 {
		numWorkers = 1
	}

	return &Dispatcher{
		workItems:    workItems,
		orchestrator: orchestrator,
		pollInterval: pollInterval,
		numWorkers:   numWorkers,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start starts the dispatcher workers.
func (d *Dispatcher) Start() {
	d.logger.Info().
		Int("num_workers", d.numWorkers).
		Msg("Starting sync dispatcher")

	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Stop stops the dispatcher gracefully.
func (d *Dispatcher) Stop() {
	d.logger.Info().Msg("Stopping sync dispatcher...")
	d.cancel()
	d.wg.Wait()
	d.logger.Info().Msg("Sync dispatcher stopped")
}

func (d *Dispatcher) worker(workerID int) {
	defer d.wg.Done()

	d.logger.Debug().
		Int("worker_id", workerID).
		Msg("Dispatcher worker started")

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Debug().
				Int("worker_id", workerID).
				Msg("Dispatcher worker stopping")
			return
		default:
			if !d.processNext(workerID) {
				d.sleep()
			}
		}
	}
}

// processNext claims and runs one pending work item. Returns false when the
// queue is empty.
func (d *Dispatcher) processNext(workerID int) bool {
	item, err := d.workItems.ClaimPending(d.ctx)
	if err != nil {
		if err != interfaces.ErrNotFound {
			d.logger.Error().Err(err).Msg("Failed to claim work item")
		}
		return false
	}

	d.logger.Info().
		Int("worker_id", workerID).
		Str("work_item_id", item.ID).
		Str("workspace_id", item.WorkspaceID).
		Msg("Processing work item")

	// Run records its own failure state; nothing further to do here.
	if err := d.orchestrator.Run(d.ctx, item); err != nil {
		d.logger.Error().
			Err(err).
			Str("work_item_id", item.ID).
			Msg("Sync run failed")
	}

	return true
}

func (d *Dispatcher) sleep() {
	timer := time.NewTimer(d.pollInterval)
	defer timer.Stop()

	select {
	case <-d.ctx.Done():
	case <-timer.C:
	}
}
