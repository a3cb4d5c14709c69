package source

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
	"golang.org/x/time/rate"
)

// Fetcher drives exhaustive pagination over the source, throttled by a
// token bucket so dependent page fetches respect the upstream rate limit.
type Fetcher struct {
	client  interfaces.SourceClient
	limiter *rate.Limiter
	logger  arbor.ILogger
}

// NewFetcher creates a fetcher for one source client.
func NewFetcher(client interfaces.SourceClient, config *common.SourceConfig, logger arbor.ILogger) interfaces.TreeFetcher {
	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		logger:  logger,
	}
}

// FetchPage requests a single collection page after waiting for the rate
// limiter.
func (f *Fetcher) FetchPage(ctx context.Context, collectionID, startCursor string, pageSize int) (*models.CollectionPage, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	page, err := f.client.QueryCollection(ctx, collectionID, startCursor, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collectionID, err)
	}

	f.logger.Debug().
		Str("collection_id", collectionID).
		Int("items", len(page.Results)).
		Bool("has_more", page.HasMore).
		Msg("Fetched collection page")

	return page, nil
}

// FetchAllBlocks exhaustively paginates the child blocks of one parent in
// response order. A page-fetch error aborts the entire fetch for that
// parent; there is no partial-tree success.
func (f *Fetcher) FetchAllBlocks(ctx context.Context, parentID string) ([]models.Block, error) {
	var blocks []models.Block
	cursor := ""

	for {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := f.client.ListChildren(ctx, parentID, cursor, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to list children of %s: %w", parentID, err)
		}

		blocks = append(blocks, page.Results...)

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	f.logger.Debug().
		Str("parent_id", parentID).
		Int("blocks", len(blocks)).
		Msg("Fetched all child blocks")

	return blocks, nil
}
