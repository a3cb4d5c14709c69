package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/services/scrape"
)

// ScrapeHandler serves single page-load + selector extraction requests.
type ScrapeHandler struct {
	scraper interfaces.PageScraper
	logger  arbor.ILogger
}

// NewScrapeHandler creates a new scrape handler
func NewScrapeHandler(scraper interfaces.PageScraper, logger arbor.ILogger) *ScrapeHandler {
	return &ScrapeHandler{
		scraper: scraper,
		logger:  logger,
	}
}

// ScrapeDownloadURLHandler loads the target page and returns the extracted
// download URL.
// GET /api/scrape?url=...&selector=...
func (h *ScrapeHandler) ScrapeDownloadURLHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	targetURL := r.URL.Query().Get("url")
	if targetURL == "" {
		WriteError(w, http.StatusBadRequest, "No URL provided")
		return
	}
	selector := r.URL.Query().Get("selector")

	downloadURL, err := h.scraper.ScrapeDownloadURL(r.Context(), targetURL, selector)
	if err != nil {
		if err == scrape.ErrNotFound {
			WriteError(w, http.StatusNotFound, "Download URL not found")
			return
		}
		h.logger.Error().Err(err).Str("url", targetURL).Msg("Scrape failed")
		WriteError(w, http.StatusInternalServerError, "Error scraping the URL")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"download_url": downloadURL,
	})
}
