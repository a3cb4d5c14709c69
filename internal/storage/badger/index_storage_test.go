package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
)

func setupTestDB(t *testing.T) *BadgerDB {
	t.Helper()

	db, err := NewBadgerDB(arbor.NewLogger(), &common.BadgerConfig{
		Path: t.TempDir() + "/badger",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func indexEntries(workspaceID string, n int) []*models.IndexEntry {
	entries := make([]*models.IndexEntry, n)
	for i := range entries {
		entries[i] = &models.IndexEntry{
			ID:          fmt.Sprintf("doc_%s_%d", workspaceID, i),
			WorkspaceID: workspaceID,
			Fields: map[string]any{
				"title":         fmt.Sprintf("Doc %d", i),
				"workspaces_id": workspaceID,
			},
		}
	}
	return entries
}

func TestIndexStorage_InsertAndCount(t *testing.T) {
	db := setupTestDB(t)
	storage := NewIndexStorage(db, arbor.NewLogger())
	ctx := context.Background()

	require.NoError(t, storage.InsertEntries(ctx, indexEntries("ws-1", 5)))

	count, err := storage.CountByWorkspace(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	total, err := storage.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestIndexStorage_DeleteByWorkspace(t *testing.T) {
	db := setupTestDB(t)
	storage := NewIndexStorage(db, arbor.NewLogger())
	ctx := context.Background()

	require.NoError(t, storage.InsertEntries(ctx, indexEntries("ws-1", 4)))
	require.NoError(t, storage.InsertEntries(ctx, indexEntries("ws-2", 3)))

	deleted, err := storage.DeleteByWorkspace(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, 4, deleted)

	// Other workspaces untouched.
	count, err := storage.CountByWorkspace(ctx, "ws-2")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = storage.CountByWorkspace(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIndexStorage_DeleteEmptyWorkspace(t *testing.T) {
	db := setupTestDB(t)
	storage := NewIndexStorage(db, arbor.NewLogger())

	deleted, err := storage.DeleteByWorkspace(context.Background(), "ws-none")

	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}

func TestIndexStorage_ListByWorkspacePagination(t *testing.T) {
	db := setupTestDB(t)
	storage := NewIndexStorage(db, arbor.NewLogger())
	ctx := context.Background()

	require.NoError(t, storage.InsertEntries(ctx, indexEntries("ws-1", 10)))

	page, err := storage.ListByWorkspace(ctx, "ws-1", 4, 0)
	require.NoError(t, err)
	assert.Len(t, page, 4)

	rest, err := storage.ListByWorkspace(ctx, "ws-1", 0, 8)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}

func TestIndexStorage_FieldsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	storage := NewIndexStorage(db, arbor.NewLogger())
	ctx := context.Background()

	entry := &models.IndexEntry{
		ID:          "doc_roundtrip",
		WorkspaceID: "ws-rt",
		Fields: map[string]any{
			"title":    "Stored",
			"Position": float64(3),
			"content":  []any{map[string]any{"type": "paragraph"}},
		},
	}
	require.NoError(t, storage.InsertEntries(ctx, []*models.IndexEntry{entry}))

	got, err := storage.ListByWorkspace(ctx, "ws-rt", 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Stored", got[0].Fields["title"])
	assert.NotZero(t, got[0].CreatedAt)
	assert.NotZero(t, got[0].UpdatedAt)
}

func TestIndexStorage_GetStats(t *testing.T) {
	db := setupTestDB(t)
	storage := NewIndexStorage(db, arbor.NewLogger())
	ctx := context.Background()

	require.NoError(t, storage.InsertEntries(ctx, indexEntries("ws-1", 2)))
	require.NoError(t, storage.InsertEntries(ctx, indexEntries("ws-2", 6)))

	stats, err := storage.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, stats.TotalEntries)
	assert.Equal(t, 2, stats.EntriesByWorkspace["ws-1"])
	assert.Equal(t, 6, stats.EntriesByWorkspace["ws-2"])
}

func TestWorkItemStorage_ClaimPendingOrder(t *testing.T) {
	db := setupTestDB(t)
	storage := NewWorkItemStorage(db, arbor.NewLogger())
	ctx := context.Background()

	first := &models.WorkItem{ID: "wi_1", WorkspaceID: "ws-1", Status: models.WorkItemStatusPending}
	require.NoError(t, storage.SaveWorkItem(ctx, first))

	second := &models.WorkItem{ID: "wi_2", WorkspaceID: "ws-2", Status: models.WorkItemStatusPending}
	require.NoError(t, storage.SaveWorkItem(ctx, second))

	claimed, err := storage.ClaimPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "wi_1", claimed.ID)
	assert.Equal(t, models.WorkItemStatusRunning, claimed.Status)

	// The claimed item is no longer pending.
	claimed2, err := storage.ClaimPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "wi_2", claimed2.ID)

	_, err = storage.ClaimPending(ctx)
	assert.Equal(t, interfaces.ErrNotFound, err)
}

func TestWorkspaceStorage_GetByWorkspaceID(t *testing.T) {
	db := setupTestDB(t)
	storage := NewWorkspaceStorage(db, arbor.NewLogger())
	ctx := context.Background()

	ws := &models.Workspace{
		ID:          "internal-1",
		WorkspaceID: "ws-ext",
		ProjectID:   "proj-1",
		UserID:      "user-1",
		Name:        "Primary",
	}
	require.NoError(t, storage.SaveWorkspace(ctx, ws))

	got, err := storage.GetByWorkspaceID(ctx, "ws-ext")
	require.NoError(t, err)
	assert.Equal(t, "Primary", got.Name)
	assert.Equal(t, "proj-1", got.ProjectID)

	_, err = storage.GetByWorkspaceID(ctx, "ws-missing")
	assert.Equal(t, interfaces.ErrNotFound, err)
}
