package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/interfaces"
)

// DataHandler serves rehosted assets and workspace snapshots straight
// from the blob store under /data/.
type DataHandler struct {
	blobs  interfaces.BlobStore
	logger arbor.ILogger
}

// NewDataHandler creates a new data handler
func NewDataHandler(blobs interfaces.BlobStore, logger arbor.ILogger) *DataHandler {
	return &DataHandler{
		blobs:  blobs,
		logger: logger,
	}
}

// ServeBlobHandler serves a stored blob by key.
// GET /data/{key}
func (h *DataHandler) ServeBlobHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/data/")
	if key == "" {
		WriteError(w, http.StatusBadRequest, "No key provided")
		return
	}

	exists, err := h.blobs.Exists(key)
	if err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("Failed to check blob")
		WriteError(w, http.StatusInternalServerError, "Failed to read blob")
		return
	}
	if !exists {
		WriteError(w, http.StatusNotFound, "Blob not found")
		return
	}

	data, err := h.blobs.Read(key)
	if err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("Failed to read blob")
		WriteError(w, http.StatusInternalServerError, "Failed to read blob")
		return
	}

	contentType := h.blobs.ContentType(key)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
