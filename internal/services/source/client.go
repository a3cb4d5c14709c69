package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
	"github.com/ternarybob/speculo/internal/httpclient"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
)

// Client talks to the remote hierarchical source API. Authentication is
// per-client via the caller-supplied credential.
type Client struct {
	baseURL    string
	apiVersion string
	credential string
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewClient creates a source API client for one credential.
func NewClient(config *common.SourceConfig, credential string, logger arbor.ILogger) interfaces.SourceClient {
	return &Client{
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		apiVersion: config.APIVersion,
		credential: credential,
		httpClient: httpclient.NewDefaultHTTPClient(config.RequestTimeout),
		logger:     logger,
	}
}

// queryRequest is the body of a collection query.
type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

// QueryCollection requests one page of the top-level collection.
func (c *Client) QueryCollection(ctx context.Context, collectionID, startCursor string, pageSize int) (*models.CollectionPage, error) {
	body, err := json.Marshal(queryRequest{StartCursor: startCursor, PageSize: pageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, url.PathEscape(collectionID))

	data, err := c.do(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Results    []map[string]any `json:"results"`
		NextCursor string           `json:"next_cursor"`
		HasMore    bool             `json:"has_more"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse collection page: %w", err)
	}

	page := &models.CollectionPage{
		Results:    make([]models.SourceRecord, 0, len(raw.Results)),
		NextCursor: raw.NextCursor,
		HasMore:    raw.HasMore,
	}
	for _, item := range raw.Results {
		page.Results = append(page.Results, recordFromRaw(item))
	}
	return page, nil
}

// ListChildren requests one page of child blocks for a parent node.
func (c *Client) ListChildren(ctx context.Context, parentID, startCursor string, pageSize int) (*models.BlockPage, error) {
	endpoint := fmt.Sprintf("%s/v1/blocks/%s/children", c.baseURL, url.PathEscape(parentID))

	params := url.Values{}
	if startCursor != "" {
		params.Set("start_cursor", startCursor)
	}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	data, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var page models.BlockPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to parse block page: %w", err)
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.credential)
	req.Header.Set("Notion-Version", c.apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read source response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return data, nil
}

// recordFromRaw lifts the identity fields out of a raw source item. The
// property map is carried as-is; the projector handles its shape.
func recordFromRaw(item map[string]any) models.SourceRecord {
	rec := models.SourceRecord{}
	if id, ok := item["id"].(string); ok {
		rec.ID = id
	}
	if u, ok := item["url"].(string); ok {
		rec.URL = u
	}
	if edited, ok := item["last_edited_time"].(string); ok {
		rec.LastEditedTime = edited
	}
	if props, ok := item["properties"].(map[string]any); ok {
		rec.Properties = props
	} else {
		rec.Properties = map[string]any{}
	}
	return rec
}
