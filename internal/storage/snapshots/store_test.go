package snapshots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
	"github.com/ternarybob/speculo/internal/storage/blobs"
)

func setupStore(t *testing.T) interfaces.SnapshotStore {
	t.Helper()

	blobStore, err := blobs.NewStore(&common.BlobConfig{
		Path:    t.TempDir(),
		BaseURL: "http://localhost:8085/data",
	}, arbor.NewLogger())
	require.NoError(t, err)

	return NewStore(blobStore, arbor.NewLogger())
}

func TestSaveAndLoad(t *testing.T) {
	store := setupStore(t)

	docs := []*models.Document{
		{ID: "rec-1", Title: "First", Position: 1},
		{ID: "rec-2", Title: "Second", Position: 2, Content: []models.Block{{"type": "paragraph"}}},
	}

	require.NoError(t, store.Save("ws-1", docs))

	loaded, err := store.Load("ws-1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "First", loaded[0].Title)
	assert.Equal(t, float64(2), loaded[1].Position)
	require.Len(t, loaded[1].Content, 1)
	assert.Equal(t, "paragraph", loaded[1].Content[0]["type"])
}

func TestSave_Overwrites(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.Save("ws-1", []*models.Document{{ID: "old-1"}, {ID: "old-2"}}))
	require.NoError(t, store.Save("ws-1", []*models.Document{{ID: "new-1"}}))

	loaded, err := store.Load("ws-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new-1", loaded[0].ID)
}

func TestLoad_Missing(t *testing.T) {
	store := setupStore(t)

	_, err := store.Load("ws-missing")

	assert.Equal(t, interfaces.ErrNotFound, err)
}

func TestExists(t *testing.T) {
	store := setupStore(t)

	exists, err := store.Exists("ws-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Save("ws-1", nil))

	exists, err = store.Exists("ws-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSave_EmptySnapshot(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.Save("ws-1", []*models.Document{}))

	loaded, err := store.Load("ws-1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
