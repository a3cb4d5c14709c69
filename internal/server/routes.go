package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// Rehosted assets and stored snapshots
	mux.HandleFunc("/data/", s.app.DataHandler.ServeBlobHandler)

	// API routes - Sync
	mux.HandleFunc("/api/sync", s.app.SyncHandler.TriggerSyncHandler)
	mux.HandleFunc("/api/workitems", s.app.SyncHandler.ListWorkItemsHandler)
	mux.HandleFunc("/api/workitems/", s.app.SyncHandler.GetWorkItemHandler)
	mux.HandleFunc("/api/workspaces", s.handleWorkspaceCollection)
	mux.HandleFunc("/api/workspaces/", s.handleWorkspaceRoutes)
	mux.HandleFunc("/api/documents/stats", s.app.WorkspaceHandler.StatsHandler)

	// API routes - Scraping
	mux.HandleFunc("/api/scrape", s.app.ScrapeHandler.ScrapeDownloadURLHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/status", s.app.APIHandler.StatusHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleWorkspaceCollection routes /api/workspaces requests by method
func (s *Server) handleWorkspaceCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.app.WorkspaceHandler.CreateWorkspaceHandler(w, r)
	case http.MethodGet:
		s.app.WorkspaceHandler.ListWorkspacesHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleWorkspaceRoutes routes /api/workspaces/{id}/... requests
func (s *Server) handleWorkspaceRoutes(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if strings.HasSuffix(path, "/materialize") {
		s.app.WorkspaceHandler.MaterializeHandler(w, r)
		return
	}

	if strings.HasSuffix(path, "/documents") {
		s.app.WorkspaceHandler.ListDocumentsHandler(w, r)
		return
	}

	http.Error(w, "Not found", http.StatusNotFound)
}
