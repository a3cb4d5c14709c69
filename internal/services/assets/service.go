package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/httpclient"
	"github.com/ternarybob/speculo/internal/interfaces"
)

const (
	maxAssetSize    = 10 * 1024 * 1024 // 10MB
	downloadTimeout = 30 * time.Second
)

// Service copies remote binary assets into the blob store and returns
// long-lived retrieval URLs. Failures are recovered locally: a missing or
// unfetchable asset yields an empty string and never aborts the caller.
type Service struct {
	blobs      interfaces.BlobStore
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewService creates an asset rehosting service.
func NewService(blobs interfaces.BlobStore, logger arbor.ILogger) interfaces.AssetRehoster {
	return &Service{
		blobs:      blobs,
		httpClient: httpclient.NewDefaultHTTPClient(downloadTimeout),
		logger:     logger,
	}
}

// Rehost fetches the asset bytes and stores them under a time-derived
// unique key. Re-running produces a new stored object but an equally valid
// URL; there is no dedup guarantee.
func (s *Service) Rehost(ctx context.Context, assetURL string) string {
	if assetURL == "" {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", assetURL).Msg("Failed to create asset request")
		return ""
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", assetURL).Msg("Failed to fetch asset")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn().
			Int("status", resp.StatusCode).
			Str("url", assetURL).
			Msg("Asset origin returned non-OK status")
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		s.logger.Warn().Err(err).Str("url", assetURL).Msg("Failed to read asset body")
		return ""
	}
	if int64(len(data)) > maxAssetSize {
		s.logger.Warn().Str("url", assetURL).Msg("Asset too large, skipping")
		return ""
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := fmt.Sprintf("images/image_%d_%s", time.Now().UnixMilli(), uuid.New().String()[:8])

	if err := s.blobs.Write(key, data, contentType); err != nil {
		s.logger.Warn().Err(err).Str("url", assetURL).Str("key", key).Msg("Failed to store asset")
		return ""
	}

	storedURL := s.blobs.URL(key)

	s.logger.Debug().
		Str("url", assetURL).
		Str("stored_url", storedURL).
		Int("size", len(data)).
		Msg("Asset rehosted")

	return storedURL
}
