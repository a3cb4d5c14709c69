package badger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// WorkItemStorage implements the WorkItemStorage interface for Badger
type WorkItemStorage struct {
	db     *BadgerDB
	logger arbor.ILogger

	// Serializes ClaimPending so two dispatcher workers cannot claim the
	// same item.
	claimMu sync.Mutex
}

// NewWorkItemStorage creates a new WorkItemStorage instance
func NewWorkItemStorage(db *BadgerDB, logger arbor.ILogger) interfaces.WorkItemStorage {
	return &WorkItemStorage{
		db:     db,
		logger: logger,
	}
}

func (s *WorkItemStorage) SaveWorkItem(ctx context.Context, item *models.WorkItem) error {
	if item.ID == "" {
		return fmt.Errorf("work item ID is required")
	}

	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	if err := s.db.Store().Upsert(item.ID, item); err != nil {
		return fmt.Errorf("failed to save work item: %w", err)
	}
	return nil
}

func (s *WorkItemStorage) GetWorkItem(ctx context.Context, id string) (*models.WorkItem, error) {
	var item models.WorkItem
	if err := s.db.Store().Get(id, &item); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get work item: %w", err)
	}
	return &item, nil
}

func (s *WorkItemStorage) ClaimPending(ctx context.Context) (*models.WorkItem, error) {
	s.claimMu.Lock()
	defer s.claimMu.Unlock()

	var items []models.WorkItem
	err := s.db.Store().Find(&items, badgerhold.Where("Status").Eq(models.WorkItemStatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to find pending work items: %w", err)
	}
	if len(items) == 0 {
		return nil, interfaces.ErrNotFound
	}

	// Oldest first
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	item := items[0]
	item.Status = models.WorkItemStatusRunning
	if err := s.SaveWorkItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *WorkItemStorage) ListWorkItems(ctx context.Context) ([]*models.WorkItem, error) {
	var items []models.WorkItem
	if err := s.db.Store().Find(&items, nil); err != nil {
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	result := make([]*models.WorkItem, len(items))
	for i := range items {
		result[i] = &items[i]
	}
	return result, nil
}

func (s *WorkItemStorage) DeleteWorkItem(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.WorkItem{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete work item: %w", err)
	}
	return nil
}
