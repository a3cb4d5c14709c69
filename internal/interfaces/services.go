package interfaces

import (
	"context"

	"github.com/ternarybob/speculo/internal/models"
)

// AssetRehoster copies a remote binary asset into owned durable storage.
// Rehost never fails the caller: a missing or unfetchable asset yields an
// empty string.
type AssetRehoster interface {
	Rehost(ctx context.Context, assetURL string) string
}

// RecordProjector maps one raw source record into its projected form.
type RecordProjector interface {
	Project(ctx context.Context, rec models.SourceRecord) (*models.Document, error)
}

// SnapshotBuilder produces the full projected result set for a collection.
type SnapshotBuilder interface {
	Build(ctx context.Context, collectionID string) ([]*models.Document, error)
}

// IndexReplacer retires the prior index entries for a workspace and
// repopulates them from a snapshot.
type IndexReplacer interface {
	Replace(ctx context.Context, ws *models.Workspace, docs []*models.Document) error
}

// Notifier triggers downstream re-materialization for a workspace.
// Fire-and-forget except for logging; failures do not roll back committed
// snapshot or index changes.
type Notifier interface {
	NotifyMaterialize(ctx context.Context, workspaceID string) error
}

// EventService fans sync workflow events out to subscribers.
type EventService interface {
	Publish(event models.SyncEvent)
	Subscribe() (<-chan models.SyncEvent, func())
}

// PageScraper loads a page and extracts the target link from it.
type PageScraper interface {
	ScrapeDownloadURL(ctx context.Context, pageURL, selector string) (string, error)
}
