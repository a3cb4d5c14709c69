package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
)

// BuilderFactory constructs a snapshot builder authenticated with the work
// item's credential.
type BuilderFactory func(credential string) interfaces.SnapshotBuilder

// Orchestrator runs the sync workflow for one work item: build snapshot,
// persist it, replace the index, trigger re-materialization, delete the
// work item. Any failure before the durable snapshot write leaves snapshot,
// index, and work item untouched.
type Orchestrator struct {
	workspaces interfaces.WorkspaceStorage
	workItems  interfaces.WorkItemStorage
	snapshots  interfaces.SnapshotStore
	replacer   interfaces.IndexReplacer
	notifier   interfaces.Notifier
	events     interfaces.EventService
	builderFor BuilderFactory
	timeout    time.Duration
	logger     arbor.ILogger
}

// NewOrchestrator creates a sync orchestrator.
func NewOrchestrator(
	workspaces interfaces.WorkspaceStorage,
	workItems interfaces.WorkItemStorage,
	snapshots interfaces.SnapshotStore,
	replacer interfaces.IndexReplacer,
	notifier interfaces.Notifier,
	events interfaces.EventService,
	builderFor BuilderFactory,
	timeout time.Duration,
	logger arbor.ILogger,
) *Orchestrator {
	return &Orchestrator{
		workspaces: workspaces,
		workItems:  workItems,
		snapshots:  snapshots,
		replacer:   replacer,
		notifier:   notifier,
		events:     events,
		builderFor: builderFor,
		timeout:    timeout,
		logger:     logger,
	}
}

// Run executes one sync. The run is bounded by the configured wall-clock
// budget; exceeding it is a fatal failure, not a partial-success path.
func (o *Orchestrator) Run(ctx context.Context, item *models.WorkItem) error {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	o.logger.Info().
		Str("work_item_id", item.ID).
		Str("workspace_id", item.WorkspaceID).
		Str("collection_id", item.CollectionID).
		Msg("Sync run started")

	ws, err := o.workspaces.GetByWorkspaceID(ctx, item.WorkspaceID)
	if err != nil {
		return o.fail(ctx, item, fmt.Errorf("workspace lookup failed for %s: %w", item.WorkspaceID, err))
	}

	// Fetching and snapshotting merge into the build step.
	o.publish(models.SyncEventFetching, item, "building snapshot", 0)

	builder := o.builderFor(item.Credential)
	docs, err := builder.Build(ctx, item.CollectionID)
	if err != nil {
		return o.fail(ctx, item, fmt.Errorf("snapshot build failed: %w", err))
	}

	o.publish(models.SyncEventSnapshotting, item, "persisting snapshot", len(docs))

	if err := o.snapshots.Save(item.WorkspaceID, docs); err != nil {
		return o.fail(ctx, item, fmt.Errorf("snapshot save failed: %w", err))
	}

	o.publish(models.SyncEventIndexReplacing, item, "replacing index entries", len(docs))

	if err := o.replacer.Replace(ctx, ws, docs); err != nil {
		return o.fail(ctx, item, fmt.Errorf("index replacement failed: %w", err))
	}

	// Snapshot and index work is committed; notification failure is
	// logged but does not fail the run.
	o.publish(models.SyncEventNotifying, item, "triggering re-materialization", len(docs))

	if err := o.notifier.NotifyMaterialize(ctx, item.WorkspaceID); err != nil {
		o.logger.Error().
			Err(err).
			Str("workspace_id", item.WorkspaceID).
			Msg("Re-materialization notification failed")
	}

	if err := o.workItems.DeleteWorkItem(ctx, item.ID); err != nil {
		o.logger.Error().
			Err(err).
			Str("work_item_id", item.ID).
			Msg("Failed to delete completed work item")
	}

	o.publish(models.SyncEventDone, item, "sync complete", len(docs))

	o.logger.Info().
		Str("work_item_id", item.ID).
		Str("workspace_id", item.WorkspaceID).
		Int("documents", len(docs)).
		Msg("Sync run complete")

	return nil
}

// fail marks the work item failed and leaves it in place so operators can
// detect stuck syncs by its continued presence.
func (o *Orchestrator) fail(ctx context.Context, item *models.WorkItem, err error) error {
	o.logger.Error().
		Err(err).
		Str("work_item_id", item.ID).
		Str("workspace_id", item.WorkspaceID).
		Msg("Sync run failed")

	item.Status = models.WorkItemStatusFailed
	item.Error = err.Error()
	if saveErr := o.workItems.SaveWorkItem(ctx, item); saveErr != nil {
		o.logger.Error().
			Err(saveErr).
			Str("work_item_id", item.ID).
			Msg("Failed to record work item failure")
	}

	o.publish(models.SyncEventFailed, item, err.Error(), 0)

	return err
}

func (o *Orchestrator) publish(eventType models.SyncEventType, item *models.WorkItem, message string, count int) {
	if o.events == nil {
		return
	}
	o.events.Publish(models.SyncEvent{
		Type:        eventType,
		WorkItemID:  item.ID,
		WorkspaceID: item.WorkspaceID,
		Message:     message,
		Count:       count,
	})
}
