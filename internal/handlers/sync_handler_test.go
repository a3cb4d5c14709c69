package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
)

// mockWorkItemStorage implements interfaces.WorkItemStorage for testing
type mockWorkItemStorage struct {
	items   map[string]*models.WorkItem
	saveErr error
	listErr error
}

func newMockWorkItemStorage() *mockWorkItemStorage {
	return &mockWorkItemStorage{items: make(map[string]*models.WorkItem)}
}

func (m *mockWorkItemStorage) SaveWorkItem(ctx context.Context, item *models.WorkItem) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items[item.ID] = item
	return nil
}

func (m *mockWorkItemStorage) GetWorkItem(ctx context.Context, id string) (*models.WorkItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return item, nil
}

func (m *mockWorkItemStorage) ClaimPending(ctx context.Context) (*models.WorkItem, error) {
	return nil, interfaces.ErrNotFound
}

func (m *mockWorkItemStorage) ListWorkItems(ctx context.Context) ([]*models.WorkItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.WorkItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *mockWorkItemStorage) DeleteWorkItem(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// mockEventService records published events
type mockEventService struct {
	published []models.SyncEvent
}

func (m *mockEventService) Publish(event models.SyncEvent) {
	m.published = append(m.published, event)
}

func (m *mockEventService) Subscribe() (<-chan models.SyncEvent, func()) {
	ch := make(chan models.SyncEvent)
	close(ch)
	return ch, func() {}
}

func TestTriggerSync_Success(t *testing.T) {
	storage := newMockWorkItemStorage()
	events := &mockEventService{}
	handler := NewSyncHandler(storage, events, arbor.NewLogger())

	body := `{"credential":"secret","collection_id":"col-1","workspace_id":"ws-1"}`
	req := httptest.NewRequest("POST", "/api/sync", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.TriggerSyncHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "started", resp["status"])
	assert.Contains(t, resp["work_item_id"], "wi_")

	require.Len(t, storage.items, 1)
	for _, item := range storage.items {
		assert.Equal(t, models.WorkItemStatusPending, item.Status)
		assert.Equal(t, "col-1", item.CollectionID)
		assert.Equal(t, "ws-1", item.WorkspaceID)
	}

	require.Len(t, events.published, 1)
	assert.Equal(t, models.SyncEventQueued, events.published[0].Type)
}

func TestTriggerSync_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"NoCredential", `{"collection_id":"col-1","workspace_id":"ws-1"}`},
		{"NoCollection", `{"credential":"secret","workspace_id":"ws-1"}`},
		{"NoWorkspace", `{"credential":"secret","collection_id":"col-1"}`},
		{"EmptyBody", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newMockWorkItemStorage()
			handler := NewSyncHandler(storage, &mockEventService{}, arbor.NewLogger())

			req := httptest.NewRequest("POST", "/api/sync", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.TriggerSyncHandler(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, storage.items)
		})
	}
}

func TestTriggerSync_InvalidJSON(t *testing.T) {
	handler := NewSyncHandler(newMockWorkItemStorage(), &mockEventService{}, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/sync", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.TriggerSyncHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerSync_MethodNotAllowed(t *testing.T) {
	handler := NewSyncHandler(newMockWorkItemStorage(), &mockEventService{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/sync", nil)
	rec := httptest.NewRecorder()

	handler.TriggerSyncHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetWorkItem(t *testing.T) {
	storage := newMockWorkItemStorage()
	storage.items["wi_1"] = &models.WorkItem{
		ID:          "wi_1",
		WorkspaceID: "ws-1",
		Status:      models.WorkItemStatusFailed,
		Error:       "snapshot build failed",
	}
	handler := NewSyncHandler(storage, &mockEventService{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/workitems/wi_1", nil)
	rec := httptest.NewRecorder()

	handler.GetWorkItemHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var item models.WorkItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "wi_1", item.ID)
	assert.Equal(t, models.WorkItemStatusFailed, item.Status)
	assert.Equal(t, "snapshot build failed", item.Error)
}

func TestGetWorkItem_NotFound(t *testing.T) {
	handler := NewSyncHandler(newMockWorkItemStorage(), &mockEventService{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/workitems/wi_missing", nil)
	rec := httptest.NewRecorder()

	handler.GetWorkItemHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetWorkItem_MissingID(t *testing.T) {
	handler := NewSyncHandler(newMockWorkItemStorage(), &mockEventService{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/workitems/", nil)
	rec := httptest.NewRecorder()

	handler.GetWorkItemHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListWorkItems(t *testing.T) {
	storage := newMockWorkItemStorage()
	storage.items["wi_1"] = &models.WorkItem{ID: "wi_1", Status: models.WorkItemStatusPending}
	storage.items["wi_2"] = &models.WorkItem{ID: "wi_2", Status: models.WorkItemStatusFailed}
	handler := NewSyncHandler(storage, &mockEventService{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/workitems", nil)
	rec := httptest.NewRecorder()

	handler.ListWorkItemsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		WorkItems []*models.WorkItem `json:"work_items"`
		Count     int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.WorkItems, 2)
}
