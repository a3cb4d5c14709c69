package snapshot

import (
	"context"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
)

// Builder drives top-level pagination and fans record projection out with
// bounded concurrency. The accumulated result preserves page order and
// within-page order as returned by the source.
type Builder struct {
	fetcher     interfaces.TreeFetcher
	projector   interfaces.RecordProjector
	pageSize    int
	concurrency int
	logger      arbor.ILogger
}

// NewBuilder creates a snapshot builder.
func NewBuilder(fetcher interfaces.TreeFetcher, projector interfaces.RecordProjector, pageSize, concurrency int, logger arbor.ILogger) *Builder {
	if pageSize <= 0 {
		pageSize = 100
	}
	if concurrency <= 0 {
		concurrency = pageSize
	}
	return &Builder{
		fetcher:     fetcher,
		projector:   projector,
		pageSize:    pageSize,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Build paginates the collection exhaustively and projects every item.
// A page-fetch error or any record's projection error fails the whole
// build; there is no partial-snapshot success.
func (b *Builder) Build(ctx context.Context, collectionID string) ([]*models.Document, error) {
	var all []*models.Document
	cursor := ""
	pages := 0

	for {
		page, err := b.fetcher.FetchPage(ctx, collectionID, cursor, b.pageSize)
		if err != nil {
			return nil, err
		}
		pages++

		docs, err := b.projectPage(ctx, page.Results)
		if err != nil {
			return nil, err
		}
		all = append(all, docs...)

		if !page.HasMore || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	b.logger.Info().
		Str("collection_id", collectionID).
		Int("pages", pages).
		Int("documents", len(all)).
		Msg("Snapshot build complete")

	return all, nil
}

// projectPage projects one page of records concurrently, bounded by the
// configured worker limit. Results land at their source index, so the
// returned order matches the page order regardless of completion order.
// The first failure cancels the remaining projections (all-or-nothing per
// page).
func (b *Builder) projectPage(ctx context.Context, records []models.SourceRecord) ([]*models.Document, error) {
	if len(records) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	docs := make([]*models.Document, len(records))
	sem := make(chan struct{}, b.concurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, rec := range records {
		wg.Add(1)
		go func(idx int, rec models.SourceRecord) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			doc, err := b.projector.Project(ctx, rec)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()
				return
			}
			docs[idx] = doc
		}(i, rec)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
