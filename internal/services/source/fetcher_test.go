package source

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
	"github.com/ternarybob/speculo/internal/models"
)

// mockSourceClient serves canned pages keyed by cursor
type mockSourceClient struct {
	collectionPages map[string]*models.CollectionPage
	blockPages      map[string]*models.BlockPage
	blockErrAt      string
	queryCalls      int
	listCalls       int
}

func (m *mockSourceClient) QueryCollection(ctx context.Context, collectionID, startCursor string, pageSize int) (*models.CollectionPage, error) {
	m.queryCalls++
	page, ok := m.collectionPages[startCursor]
	if !ok {
		return nil, fmt.Errorf("no page for cursor %q", startCursor)
	}
	return page, nil
}

func (m *mockSourceClient) ListChildren(ctx context.Context, parentID, startCursor string, pageSize int) (*models.BlockPage, error) {
	m.listCalls++
	if m.blockErrAt != "" && startCursor == m.blockErrAt {
		return nil, fmt.Errorf("simulated fetch failure")
	}
	page, ok := m.blockPages[startCursor]
	if !ok {
		return nil, fmt.Errorf("no block page for cursor %q", startCursor)
	}
	return page, nil
}

func testSourceConfig() *common.SourceConfig {
	return &common.SourceConfig{
		RequestsPerSecond: 1000, // Keep tests fast
		Burst:             1000,
		PageSize:          100,
	}
}

func makeRecords(prefix string, n int) []models.SourceRecord {
	records := make([]models.SourceRecord, n)
	for i := range records {
		records[i] = models.SourceRecord{
			ID:         fmt.Sprintf("%s-%d", prefix, i),
			Properties: map[string]any{},
		}
	}
	return records
}

func TestFetchPage(t *testing.T) {
	client := &mockSourceClient{
		collectionPages: map[string]*models.CollectionPage{
			"": {Results: makeRecords("rec", 3), HasMore: false},
		},
	}
	fetcher := NewFetcher(client, testSourceConfig(), arbor.NewLogger())

	page, err := fetcher.FetchPage(context.Background(), "col-1", "", 100)

	require.NoError(t, err)
	assert.Len(t, page.Results, 3)
	assert.False(t, page.HasMore)
	assert.Equal(t, 1, client.queryCalls)
}

func TestFetchPage_ClientError(t *testing.T) {
	client := &mockSourceClient{collectionPages: map[string]*models.CollectionPage{}}
	fetcher := NewFetcher(client, testSourceConfig(), arbor.NewLogger())

	_, err := fetcher.FetchPage(context.Background(), "col-1", "", 100)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "col-1")
}

func TestFetchAllBlocks_SinglePage(t *testing.T) {
	client := &mockSourceClient{
		blockPages: map[string]*models.BlockPage{
			"": {Results: []models.Block{{"id": "b1"}, {"id": "b2"}}},
		},
	}
	fetcher := NewFetcher(client, testSourceConfig(), arbor.NewLogger())

	blocks, err := fetcher.FetchAllBlocks(context.Background(), "page-1")

	require.NoError(t, err)
	assert.Len(t, blocks, 2)
	assert.Equal(t, 1, client.listCalls)
}

func TestFetchAllBlocks_FollowsCursors(t *testing.T) {
	client := &mockSourceClient{
		blockPages: map[string]*models.BlockPage{
			"":   {Results: []models.Block{{"id": "b1"}}, NextCursor: "c1", HasMore: true},
			"c1": {Results: []models.Block{{"id": "b2"}}, NextCursor: "c2", HasMore: true},
			"c2": {Results: []models.Block{{"id": "b3"}}},
		},
	}
	fetcher := NewFetcher(client, testSourceConfig(), arbor.NewLogger())

	blocks, err := fetcher.FetchAllBlocks(context.Background(), "page-1")

	require.NoError(t, err)
	require.Len(t, blocks, 3)
	// Response order is preserved across pages.
	assert.Equal(t, "b1", blocks[0]["id"])
	assert.Equal(t, "b2", blocks[1]["id"])
	assert.Equal(t, "b3", blocks[2]["id"])
	assert.Equal(t, 3, client.listCalls)
}

func TestFetchAllBlocks_ErrorAborts(t *testing.T) {
	client := &mockSourceClient{
		blockPages: map[string]*models.BlockPage{
			"": {Results: []models.Block{{"id": "b1"}}, NextCursor: "c1", HasMore: true},
		},
		blockErrAt: "c1",
	}
	fetcher := NewFetcher(client, testSourceConfig(), arbor.NewLogger())

	blocks, err := fetcher.FetchAllBlocks(context.Background(), "page-1")

	assert.Error(t, err)
	assert.Nil(t, blocks)
}

func TestFetchAllBlocks_CanceledContext(t *testing.T) {
	client := &mockSourceClient{
		blockPages: map[string]*models.BlockPage{
			"": {Results: []models.Block{{"id": "b1"}}},
		},
	}
	fetcher := NewFetcher(client, testSourceConfig(), arbor.NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.FetchAllBlocks(ctx, "page-1")

	assert.Error(t, err)
}
