package models

import "time"

// SyncEventType identifies a sync workflow transition.
type SyncEventType string

const (
	SyncEventQueued         SyncEventType = "sync_queued"
	SyncEventFetching       SyncEventType = "sync_fetching"
	SyncEventSnapshotting   SyncEventType = "sync_snapshotting"
	SyncEventIndexReplacing SyncEventType = "sync_index_replacing"
	SyncEventNotifying      SyncEventType = "sync_notifying"
	SyncEventDone           SyncEventType = "sync_done"
	SyncEventFailed         SyncEventType = "sync_failed"
)

// SyncEvent is published on workflow state transitions and streamed to
// connected WebSocket clients.
type SyncEvent struct {
	Type        SyncEventType `json:"type"`
	WorkItemID  string        `json:"work_item_id,omitempty"`
	WorkspaceID string        `json:"workspace_id,omitempty"`
	Message     string        `json:"message,omitempty"`
	Count       int           `json:"count,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}
