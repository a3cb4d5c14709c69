package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/speculo/internal/models"
)

// ErrNotFound is returned by storage lookups when no record matches.
var ErrNotFound = errors.New("not found")

// WorkspaceStorage persists workspace records, looked up by their external
// workspace identifier.
type WorkspaceStorage interface {
	SaveWorkspace(ctx context.Context, ws *models.Workspace) error
	GetByWorkspaceID(ctx context.Context, workspaceID string) (*models.Workspace, error)
	ListWorkspaces(ctx context.Context) ([]*models.Workspace, error)
	DeleteWorkspace(ctx context.Context, id string) error
}

// WorkItemStorage persists sync trigger records. ClaimPending transitions
// the oldest pending item to running and returns it, or ErrNotFound when the
// queue is empty.
type WorkItemStorage interface {
	SaveWorkItem(ctx context.Context, item *models.WorkItem) error
	GetWorkItem(ctx context.Context, id string) (*models.WorkItem, error)
	ClaimPending(ctx context.Context) (*models.WorkItem, error)
	ListWorkItems(ctx context.Context) ([]*models.WorkItem, error)
	DeleteWorkItem(ctx context.Context, id string) error
}

// IndexStorage is the queryable document index. Deletes and inserts are
// bulk operations; entries are never partially updated.
type IndexStorage interface {
	InsertEntries(ctx context.Context, entries []*models.IndexEntry) error
	DeleteByWorkspace(ctx context.Context, workspaceID string) (int, error)
	ListByWorkspace(ctx context.Context, workspaceID string, limit, offset int) ([]*models.IndexEntry, error)
	CountByWorkspace(ctx context.Context, workspaceID string) (int, error)
	CountEntries(ctx context.Context) (int, error)
	GetStats(ctx context.Context) (*models.IndexStats, error)
}

// StorageManager provides access to all storage backends.
type StorageManager interface {
	WorkspaceStorage() WorkspaceStorage
	WorkItemStorage() WorkItemStorage
	IndexStorage() IndexStorage
	Close() error
}
