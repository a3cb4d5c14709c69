package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
	"github.com/ternarybob/speculo/internal/interfaces"
)

// APIHandler serves system endpoints: version, health, status.
type APIHandler struct {
	storage interfaces.StorageManager
	logger  arbor.ILogger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(storage interfaces.StorageManager, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		storage: storage,
		logger:  logger,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
	})
}

// HealthHandler returns service health
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// StatusHandler returns workspace, work item, and index counts.
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := context.Background()

	workspaces, err := h.storage.WorkspaceStorage().ListWorkspaces(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list workspaces for status")
		WriteError(w, http.StatusInternalServerError, "Failed to read status")
		return
	}

	items, err := h.storage.WorkItemStorage().ListWorkItems(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list work items for status")
		WriteError(w, http.StatusInternalServerError, "Failed to read status")
		return
	}

	entries, err := h.storage.IndexStorage().CountEntries(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count index entries for status")
		WriteError(w, http.StatusInternalServerError, "Failed to read status")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"workspaces":    len(workspaces),
		"work_items":    len(items),
		"index_entries": entries,
	})
}

// NotFoundHandler handles unmatched API routes
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "Not found")
}
