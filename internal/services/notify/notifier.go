package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/httpclient"
	"github.com/ternarybob/speculo/internal/interfaces"
)

const placeholder = "{workspaceId}"

// Notifier triggers downstream re-materialization with an outbound GET to
// the configured endpoint.
type Notifier struct {
	endpoint   string
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewNotifier creates a re-materialization notifier. The endpoint may
// contain a {workspaceId} placeholder; without one the id is appended as a
// query parameter.
func NewNotifier(endpoint string, logger arbor.ILogger) interfaces.Notifier {
	return &Notifier{
		endpoint:   endpoint,
		httpClient: httpclient.NewDefaultHTTPClient(30 * time.Second),
		logger:     logger,
	}
}

func (n *Notifier) NotifyMaterialize(ctx context.Context, workspaceID string) error {
	endpoint := n.endpoint
	if strings.Contains(endpoint, placeholder) {
		endpoint = strings.ReplaceAll(endpoint, placeholder, url.PathEscape(workspaceID))
	} else {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + "workspaceId=" + url.QueryEscape(workspaceID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create materialize request: %w", err)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("materialize request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("materialize endpoint returned HTTP %d", resp.StatusCode)
	}

	n.logger.Info().
		Str("workspace_id", workspaceID).
		Msg("Re-materialization triggered")

	return nil
}
