package models

import "time"

// Work item lifecycle states.
const (
	WorkItemStatusPending = "pending"
	WorkItemStatusRunning = "running"
	WorkItemStatusFailed  = "failed"
)

// WorkItem is an ephemeral trigger record for one sync run. It is consumed
// exactly once and deleted on successful completion; a failed run leaves the
// item in place so operators can detect stuck syncs.
type WorkItem struct {
	ID           string    `json:"id"` // wi_{uuid}
	Credential   string    `json:"credential"`
	CollectionID string    `json:"collection_id"`
	WorkspaceID  string    `json:"workspace_id"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
