package interfaces

import "github.com/ternarybob/speculo/internal/models"

// BlobStore is durable binary storage with long-lived retrieval URLs.
type BlobStore interface {
	Write(key string, data []byte, contentType string) error
	Read(key string) ([]byte, error)
	Exists(key string) (bool, error)
	ContentType(key string) string
	URL(key string) string
}

// SnapshotStore persists the full projected result set for a workspace.
// Save overwrites any prior snapshot for the same workspace.
type SnapshotStore interface {
	Save(workspaceID string, docs []*models.Document) error
	Load(workspaceID string) ([]*models.Document, error)
	Exists(workspaceID string) (bool, error)
}
