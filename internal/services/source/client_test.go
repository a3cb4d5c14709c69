package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
)

func TestQueryCollection(t *testing.T) {
	var gotAuth, gotVersion, gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{
					"id":               "rec-1",
					"url":              "https://source.example/rec-1",
					"last_edited_time": "2024-01-02T03:04:05.000Z",
					"properties":       map[string]any{"Status": map[string]any{"type": "status"}},
				},
			},
			"next_cursor": "cursor-2",
			"has_more":    true,
		})
	}))
	defer srv.Close()

	config := &common.SourceConfig{BaseURL: srv.URL, APIVersion: "2022-06-28"}
	client := NewClient(config, "secret-token", arbor.NewLogger())

	page, err := client.QueryCollection(context.Background(), "col-1", "cursor-1", 100)

	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "2022-06-28", gotVersion)
	assert.Equal(t, "/v1/databases/col-1/query", gotPath)
	assert.Equal(t, "cursor-1", gotBody["start_cursor"])
	assert.Equal(t, float64(100), gotBody["page_size"])

	require.Len(t, page.Results, 1)
	assert.Equal(t, "rec-1", page.Results[0].ID)
	assert.Equal(t, "https://source.example/rec-1", page.Results[0].URL)
	assert.Equal(t, "2024-01-02T03:04:05.000Z", page.Results[0].LastEditedTime)
	assert.Contains(t, page.Results[0].Properties, "Status")
	assert.Equal(t, "cursor-2", page.NextCursor)
	assert.True(t, page.HasMore)
}

func TestQueryCollection_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer srv.Close()

	config := &common.SourceConfig{BaseURL: srv.URL}
	client := NewClient(config, "bad-token", arbor.NewLogger())

	_, err := client.QueryCollection(context.Background(), "col-1", "", 100)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestListChildren(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/blocks/page-1/children", r.URL.Path)
		assert.Equal(t, "cursor-x", r.URL.Query().Get("start_cursor"))

		json.NewEncoder(w).Encode(map[string]any{
			"results":     []map[string]any{{"id": "block-1", "type": "paragraph"}},
			"next_cursor": "",
			"has_more":    false,
		})
	}))
	defer srv.Close()

	config := &common.SourceConfig{BaseURL: srv.URL}
	client := NewClient(config, "token", arbor.NewLogger())

	page, err := client.ListChildren(context.Background(), "page-1", "cursor-x", 0)

	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "block-1", page.Results[0]["id"])
	assert.False(t, page.HasMore)
}

func TestRecordFromRaw_MissingFields(t *testing.T) {
	rec := recordFromRaw(map[string]any{"id": "only-id"})

	assert.Equal(t, "only-id", rec.ID)
	assert.Equal(t, "", rec.URL)
	assert.NotNil(t, rec.Properties)
}
