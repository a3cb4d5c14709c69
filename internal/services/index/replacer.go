package index

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
	"github.com/ternarybob/speculo/internal/services/normalize"
)

// Replacer swaps the index contents for one workspace: delete every entry
// tagged with the workspace, then repopulate from the snapshot in a single
// bulk write. Not transactional across the two phases; concurrent readers
// can observe an empty result set between them.
type Replacer struct {
	index  interfaces.IndexStorage
	logger arbor.ILogger
}

// NewReplacer creates an index replacer.
func NewReplacer(index interfaces.IndexStorage, logger arbor.ILogger) interfaces.IndexReplacer {
	return &Replacer{
		index:  index,
		logger: logger,
	}
}

// Replace performs the two-phase swap. Each inserted entry passes through
// the shape normalizer as the last gate before persistence and is tagged
// with the workspace linkage fields.
func (r *Replacer) Replace(ctx context.Context, ws *models.Workspace, docs []*models.Document) error {
	deleted, err := r.index.DeleteByWorkspace(ctx, ws.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete prior index entries: %w", err)
	}

	entries := make([]*models.IndexEntry, 0, len(docs))
	for _, doc := range docs {
		fields, err := doc.ToMap()
		if err != nil {
			return fmt.Errorf("failed to convert document %s: %w", doc.ID, err)
		}

		fields = normalize.NormalizeMap(fields)
		fields["projectId"] = ws.ProjectID
		fields["workspaces_id"] = ws.WorkspaceID
		fields["userId"] = ws.UserID

		entries = append(entries, &models.IndexEntry{
			ID:          common.NewDocumentID(),
			Fields:      fields,
			WorkspaceID: ws.WorkspaceID,
			ProjectID:   ws.ProjectID,
			UserID:      ws.UserID,
		})
	}

	if err := r.index.InsertEntries(ctx, entries); err != nil {
		return fmt.Errorf("failed to insert index entries: %w", err)
	}

	r.logger.Info().
		Str("workspace_id", ws.WorkspaceID).
		Int("deleted", deleted).
		Int("inserted", len(entries)).
		Msg("Index replaced for workspace")

	return nil
}
