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

// WorkspaceRequest is the body of a workspace registration.
type WorkspaceRequest struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	ProjectID   string `json:"project_id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
}

// WorkspaceHandler serves workspace registration, materialization, and
// document listing.
type WorkspaceHandler struct {
	workspaces interfaces.WorkspaceStorage
	snapshots  interfaces.SnapshotStore
	replacer   interfaces.IndexReplacer
	index      interfaces.IndexStorage
	validate   *validator.Validate
	logger     arbor.ILogger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(
	workspaces interfaces.WorkspaceStorage,
	snapshots interfaces.SnapshotStore,
	replacer interfaces.IndexReplacer,
	index interfaces.IndexStorage,
	logger arbor.ILogger,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaces: workspaces,
		snapshots:  snapshots,
		replacer:   replacer,
		index:      index,
		validate:   validator.New(),
		logger:     logger,
	}
}

// CreateWorkspaceHandler registers a workspace so sync runs can resolve it.
// Re-posting an existing workspace_id updates the record in place.
// POST /api/workspaces
func (h *WorkspaceHandler) CreateWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req WorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Missing workspace_id")
		return
	}

	ws, err := h.workspaces.GetByWorkspaceID(r.Context(), req.WorkspaceID)
	if err != nil {
		if err != interfaces.ErrNotFound {
			h.logger.Error().Err(err).Str("workspace_id", req.WorkspaceID).Msg("Workspace lookup failed")
			WriteError(w, http.StatusInternalServerError, "Failed to look up workspace")
			return
		}
		ws = &models.Workspace{
			ID:          common.NewWorkspaceID(),
			WorkspaceID: req.WorkspaceID,
		}
	}

	ws.ProjectID = req.ProjectID
	ws.UserID = req.UserID
	ws.Name = req.Name

	if err := h.workspaces.SaveWorkspace(r.Context(), ws); err != nil {
		h.logger.Error().Err(err).Str("workspace_id", req.WorkspaceID).Msg("Failed to save workspace")
		WriteError(w, http.StatusInternalServerError, "Failed to save workspace")
		return
	}

	h.logger.Info().
		Str("id", ws.ID).
		Str("workspace_id", ws.WorkspaceID).
		Msg("Workspace registered")

	WriteJSON(w, http.StatusOK, ws)
}

// ListWorkspacesHandler lists registered workspaces.
// GET /api/workspaces
func (h *WorkspaceHandler) ListWorkspacesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	workspaces, err := h.workspaces.ListWorkspaces(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list workspaces")
		WriteError(w, http.StatusInternalServerError, "Failed to list workspaces")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"workspaces": workspaces,
		"count":      len(workspaces),
	})
}

// MaterializeHandler re-derives index entries for a workspace from its
// stored snapshot.
// GET /api/workspaces/{id}/materialize
func (h *WorkspaceHandler) MaterializeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	workspaceID := workspaceIDFromPath(r.URL.Path, "/materialize")
	if workspaceID == "" {
		WriteError(w, http.StatusBadRequest, "Missing workspaceId in path")
		return
	}

	ws, err := h.workspaces.GetByWorkspaceID(r.Context(), workspaceID)
	if err != nil {
		if err == interfaces.ErrNotFound {
			WriteError(w, http.StatusNotFound, "Workspace not found")
			return
		}
		h.logger.Error().Err(err).Str("workspace_id", workspaceID).Msg("Workspace lookup failed")
		WriteError(w, http.StatusInternalServerError, "Failed to look up workspace")
		return
	}

	docs, err := h.snapshots.Load(workspaceID)
	if err != nil {
		if err == interfaces.ErrNotFound {
			WriteError(w, http.StatusNotFound, "Snapshot not found for workspace")
			return
		}
		h.logger.Error().Err(err).Str("workspace_id", workspaceID).Msg("Snapshot load failed")
		WriteError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}

	if err := h.replacer.Replace(r.Context(), ws, docs); err != nil {
		h.logger.Error().Err(err).Str("workspace_id", workspaceID).Msg("Index replacement failed")
		WriteError(w, http.StatusInternalServerError, "Failed to save documents")
		return
	}

	WriteSuccess(w, "Documents saved successfully")
}

// ListDocumentsHandler lists index entries for a workspace.
// GET /api/workspaces/{id}/documents
func (h *WorkspaceHandler) ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	workspaceID := workspaceIDFromPath(r.URL.Path, "/documents")
	if workspaceID == "" {
		WriteError(w, http.StatusBadRequest, "Missing workspaceId in path")
		return
	}

	limit, offset := GetPaginationParams(r)

	entries, err := h.index.ListByWorkspace(r.Context(), workspaceID, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Str("workspace_id", workspaceID).Msg("Failed to list documents")
		WriteError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	total, err := h.index.CountByWorkspace(r.Context(), workspaceID)
	if err != nil {
		h.logger.Error().Err(err).Str("workspace_id", workspaceID).Msg("Failed to count documents")
		WriteError(w, http.StatusInternalServerError, "Failed to count documents")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"documents": entries,
		"count":     len(entries),
		"total":     total,
	})
}

// StatsHandler returns index statistics.
// GET /api/documents/stats
func (h *WorkspaceHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats, err := h.index.GetStats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read index stats")
		WriteError(w, http.StatusInternalServerError, "Failed to read index stats")
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// workspaceIDFromPath extracts the workspace id from paths shaped
// /api/workspaces/{id}<suffix>.
func workspaceIDFromPath(path, suffix string) string {
	if !strings.HasSuffix(path, suffix) {
		return ""
	}
	trimmed := strings.TrimSuffix(path, suffix)
	return strings.TrimPrefix(trimmed, "/api/workspaces/")
}
