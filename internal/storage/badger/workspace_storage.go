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

// WorkspaceStorage implements the WorkspaceStorage interface for Badger
type WorkspaceStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewWorkspaceStorage creates a new WorkspaceStorage instance
func NewWorkspaceStorage(db *BadgerDB, logger arbor.ILogger) interfaces.WorkspaceStorage {
	return &WorkspaceStorage{
		db:     db,
		logger: logger,
	}
}

func (s *WorkspaceStorage) SaveWorkspace(ctx context.Context, ws *models.Workspace) error {
	if ws.ID == "" {
		return fmt.Errorf("workspace ID is required")
	}

	now := time.Now()
	if ws.CreatedAt.IsZero() {
		ws.CreatedAt = now
	}
	ws.UpdatedAt = now

	if err := s.db.Store().Upsert(ws.ID, ws); err != nil {
		return fmt.Errorf("failed to save workspace: %w", err)
	}
	return nil
}

func (s *WorkspaceStorage) GetByWorkspaceID(ctx context.Context, workspaceID string) (*models.Workspace, error) {
	var workspaces []models.Workspace
	err := s.db.Store().Find(&workspaces, badgerhold.Where("WorkspaceID").Eq(workspaceID).Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	if len(workspaces) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return &workspaces[0], nil
}

func (s *WorkspaceStorage) ListWorkspaces(ctx context.Context) ([]*models.Workspace, error) {
	var workspaces []models.Workspace
	if err := s.db.Store().Find(&workspaces, nil); err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	result := make([]*models.Workspace, len(workspaces))
	for i := range workspaces {
		result[i] = &workspaces[i]
	}
	return result, nil
}

func (s *WorkspaceStorage) DeleteWorkspace(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Workspace{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}
