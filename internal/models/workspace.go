package models

import "time"

// Workspace is a tenant-scoped grouping of source records and their
// projected counterparts. Looked up by the external WorkspaceID.
type Workspace struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaces_id"` // external workspace identifier
	ProjectID   string    `json:"project_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
