package interfaces

import (
	"context"

	"github.com/ternarybob/speculo/internal/models"
)

// SourceClient talks to the remote hierarchical source. Both operations
// share the same pagination shape (items + cursor + has-more flag) and are
// authenticated per-client with a caller-supplied credential.
type SourceClient interface {
	QueryCollection(ctx context.Context, collectionID, startCursor string, pageSize int) (*models.CollectionPage, error)
	ListChildren(ctx context.Context, parentID, startCursor string, pageSize int) (*models.BlockPage, error)
}

// TreeFetcher drives exhaustive pagination over the source. FetchPage
// returns a single collection page; FetchAllBlocks resolves the complete
// ordered child-block sequence for one parent.
type TreeFetcher interface {
	FetchPage(ctx context.Context, collectionID, startCursor string, pageSize int) (*models.CollectionPage, error)
	FetchAllBlocks(ctx context.Context, parentID string) ([]models.Block, error)
}
