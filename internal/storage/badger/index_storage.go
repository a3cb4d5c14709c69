package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// IndexStorage implements the IndexStorage interface for Badger
type IndexStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewIndexStorage creates a new IndexStorage instance
func NewIndexStorage(db *BadgerDB, logger arbor.ILogger) interfaces.IndexStorage {
	return &IndexStorage{
		db:     db,
		logger: logger,
	}
}

// InsertEntries performs the bulk insert phase of an index replacement.
// Entries are written inside a single badgerhold transaction so a crash
// mid-insert does not leave a half-populated workspace visible alongside
// stale entries.
func (s *IndexStorage) InsertEntries(ctx context.Context, entries []*models.IndexEntry) error {
	now := time.Now()

	tx := s.db.Store().Badger().NewTransaction(true)
	defer tx.Discard()

	for _, entry := range entries {
		if entry.ID == "" {
			return fmt.Errorf("index entry ID is required")
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		entry.UpdatedAt = now

		if err := s.db.Store().TxInsert(tx, entry.ID, entry); err != nil {
			return fmt.Errorf("failed to insert index entry %s: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index entries: %w", err)
	}

	s.logger.Debug().Int("count", len(entries)).Msg("Inserted index entries")
	return nil
}

// DeleteByWorkspace removes every entry tagged with the workspace id and
// returns the number of entries removed. The delete fully completes before
// the caller begins repopulation.
func (s *IndexStorage) DeleteByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	count, err := s.CountByWorkspace(ctx, workspaceID)
	if err != nil {
		return 0, err
	}

	err = s.db.Store().DeleteMatching(&models.IndexEntry{}, badgerhold.Where("WorkspaceID").Eq(workspaceID))
	if err != nil {
		return 0, fmt.Errorf("failed to delete index entries for workspace %s: %w", workspaceID, err)
	}

	s.logger.Debug().Str("workspace_id", workspaceID).Int("count", count).Msg("Deleted index entries")
	return count, nil
}

func (s *IndexStorage) ListByWorkspace(ctx context.Context, workspaceID string, limit, offset int) ([]*models.IndexEntry, error) {
	query := badgerhold.Where("WorkspaceID").Eq(workspaceID)
	if offset > 0 {
		query = query.Skip(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []models.IndexEntry
	if err := s.db.Store().Find(&entries, query); err != nil {
		return nil, fmt.Errorf("failed to list index entries: %w", err)
	}

	result := make([]*models.IndexEntry, len(entries))
	for i := range entries {
		result[i] = &entries[i]
	}
	return result, nil
}

func (s *IndexStorage) CountByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	count, err := s.db.Store().Count(&models.IndexEntry{}, badgerhold.Where("WorkspaceID").Eq(workspaceID))
	if err != nil {
		return 0, fmt.Errorf("failed to count index entries: %w", err)
	}
	return int(count), nil
}

func (s *IndexStorage) CountEntries(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.IndexEntry{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count index entries: %w", err)
	}
	return int(count), nil
}

func (s *IndexStorage) GetStats(ctx context.Context) (*models.IndexStats, error) {
	total, err := s.CountEntries(ctx)
	if err != nil {
		return nil, err
	}

	var entries []models.IndexEntry
	if err := s.db.Store().Find(&entries, nil); err != nil {
		return nil, fmt.Errorf("failed to load index entries for stats: %w", err)
	}

	byWorkspace := make(map[string]int)
	for i := range entries {
		byWorkspace[entries[i].WorkspaceID]++
	}

	return &models.IndexStats{
		TotalEntries:       total,
		EntriesByWorkspace: byWorkspace,
		LastUpdated:        time.Now(),
	}, nil
}
