package common

import (
	"github.com/google/uuid"
)

// NewDocumentID generates a unique index entry ID with the "doc_" prefix
// Format: doc_<uuid>
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// NewWorkItemID generates a unique work item ID with the "wi_" prefix
// Format: wi_<uuid>
func NewWorkItemID() string {
	return "wi_" + uuid.New().String()
}

// NewWorkspaceID generates a unique workspace record ID with the "ws_" prefix
// Format: ws_<uuid>
func NewWorkspaceID() string {
	return "ws_" + uuid.New().String()
}
