package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
)

// SyncRequest is the body of a sync trigger.
type SyncRequest struct {
	Credential   string `json:"credential" validate:"required"`
	CollectionID string `json:"collection_id" validate:"required"`
	WorkspaceID  string `json:"workspace_id" validate:"required"`
}

// SyncHandler accepts sync triggers and creates work items for the
// dispatcher.
type SyncHandler struct {
	workItems interfaces.WorkItemStorage
	events    interfaces.EventService
	validate  *validator.Validate
	logger    arbor.ILogger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(workItems interfaces.WorkItemStorage, events interfaces.EventService, logger arbor.ILogger) *SyncHandler {
	return &SyncHandler{
		workItems: workItems,
		events:    events,
		validate:  validator.New(),
		logger:    logger,
	}
}

// TriggerSyncHandler creates a work item for one sync run.
// POST /api/sync
func (h *SyncHandler) TriggerSyncHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Missing credential, collection_id, or workspace_id")
		return
	}

	item := &models.WorkItem{
		ID:           common.NewWorkItemID(),
		Credential:   req.Credential,
		CollectionID: req.CollectionID,
		WorkspaceID:  req.WorkspaceID,
		Status:       models.WorkItemStatusPending,
	}

	if err := h.workItems.SaveWorkItem(r.Context(), item); err != nil {
		h.logger.Error().Err(err).Str("workspace_id", req.WorkspaceID).Msg("Failed to create work item")
		WriteError(w, http.StatusInternalServerError, "Failed to create work item")
		return
	}

	h.events.Publish(models.SyncEvent{
		Type:        models.SyncEventQueued,
		WorkItemID:  item.ID,
		WorkspaceID: item.WorkspaceID,
		Message:     "sync queued",
	})

	h.logger.Info().
		Str("work_item_id", item.ID).
		Str("workspace_id", item.WorkspaceID).
		Msg("Sync work item created")

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":       "started",
		"work_item_id": item.ID,
	})
}

// GetWorkItemHandler returns one work item by id.
// GET /api/workitems/{id}
func (h *SyncHandler) GetWorkItemHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/workitems/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Missing work item id in path")
		return
	}

	item, err := h.workItems.GetWorkItem(r.Context(), id)
	if err != nil {
		if err == interfaces.ErrNotFound {
			WriteError(w, http.StatusNotFound, "Work item not found")
			return
		}
		h.logger.Error().Err(err).Str("work_item_id", id).Msg("Failed to read work item")
		WriteError(w, http.StatusInternalServerError, "Failed to read work item")
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

// ListWorkItemsHandler lists work items, oldest first. Failed items remain
// visible here until re-triggered or cleaned up.
// GET /api/workitems
func (h *SyncHandler) ListWorkItemsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	items, err := h.workItems.ListWorkItems(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list work items")
		WriteError(w, http.StatusInternalServerError, "Failed to list work items")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"work_items": items,
		"count":      len(items),
	})
}
