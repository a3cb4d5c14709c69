package snapshots

import (
	"encoding/json"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
)

// Namespace is the blob store prefix for workspace snapshots.
const Namespace = "workspace_data"

// Store persists workspace snapshots as JSON arrays in the blob store,
// keyed <namespace>/<workspaceId>.json. Each save overwrites the prior
// snapshot for the workspace.
type Store struct {
	blobs  interfaces.BlobStore
	logger arbor.ILogger
}

// NewStore creates a snapshot store on top of a blob store.
func NewStore(blobs interfaces.BlobStore, logger arbor.ILogger) interfaces.SnapshotStore {
	return &Store{
		blobs:  blobs,
		logger: logger,
	}
}

func (s *Store) Save(workspaceID string, docs []*models.Document) error {
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot for workspace %s: %w", workspaceID, err)
	}

	if err := s.blobs.Write(key(workspaceID), data, "application/json"); err != nil {
		return fmt.Errorf("failed to save snapshot for workspace %s: %w", workspaceID, err)
	}

	s.logger.Info().
		Str("workspace_id", workspaceID).
		Int("documents", len(docs)).
		Msg("Snapshot saved")

	return nil
}

func (s *Store) Load(workspaceID string) ([]*models.Document, error) {
	data, err := s.blobs.Read(key(workspaceID))
	if err != nil {
		if err == interfaces.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot for workspace %s: %w", workspaceID, err)
	}

	var docs []*models.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot for workspace %s: %w", workspaceID, err)
	}
	return docs, nil
}

func (s *Store) Exists(workspaceID string) (bool, error) {
	return s.blobs.Exists(key(workspaceID))
}

func key(workspaceID string) string {
	return Namespace + "/" + workspaceID + ".json"
}
