package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestNotifyMaterialize_PlaceholderSubstitution(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	notifier := NewNotifier(srv.URL+"/api/workspaces/{workspaceId}/materialize", arbor.NewLogger())

	err := notifier.NotifyMaterialize(context.Background(), "ws-42")

	require.NoError(t, err)
	assert.Equal(t, "/api/workspaces/ws-42/materialize", gotPath)
}

func TestNotifyMaterialize_QueryParamFallback(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("workspaceId")
	}))
	defer srv.Close()

	notifier := NewNotifier(srv.URL+"/materialize", arbor.NewLogger())

	err := notifier.NotifyMaterialize(context.Background(), "ws-42")

	require.NoError(t, err)
	assert.Equal(t, "ws-42", gotQuery)
}

func TestNotifyMaterialize_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	notifier := NewNotifier(srv.URL+"/materialize", arbor.NewLogger())

	err := notifier.NotifyMaterialize(context.Background(), "ws-42")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNotifyMaterialize_Unreachable(t *testing.T) {
	notifier := NewNotifier("http://127.0.0.1:1/materialize", arbor.NewLogger())

	err := notifier.NotifyMaterialize(context.Background(), "ws-42")

	assert.Error(t, err)
}
