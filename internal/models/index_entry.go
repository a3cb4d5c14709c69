package models

import (
	"encoding/gob"
	"time"
)

func init() {
	// Register dynamic field value types for BadgerDB serialization
	gob.Register(map[string]any{})
	gob.Register([]any{})
	gob.Register(Block{})
	gob.Register([]Block{})
}

// IndexEntry is one persisted document in the queryable index. Entries are
// created in bulk from a snapshot and deleted in bulk by workspace; they are
// never partially updated.
type IndexEntry struct {
	ID          string         `json:"id"` // doc_{uuid}, generated at insert time
	Fields      map[string]any `json:"fields"`
	WorkspaceID string         `json:"workspaces_id"`
	ProjectID   string         `json:"project_id"`
	UserID      string         `json:"user_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// IndexStats summarizes the state of the index.
type IndexStats struct {
	TotalEntries       int            `json:"total_entries"`
	EntriesByWorkspace map[string]int `json:"entries_by_workspace,omitempty"`
	LastUpdated        time.Time      `json:"last_updated"`
}
