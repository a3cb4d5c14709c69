package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
	"github.com/ternarybob/speculo/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db        *BadgerDB
	workspace interfaces.WorkspaceStorage
	workItem  interfaces.WorkItemStorage
	index     interfaces.IndexStorage
	logger    arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:        db,
		workspace: NewWorkspaceStorage(db, logger),
		workItem:  NewWorkItemStorage(db, logger),
		index:     NewIndexStorage(db, logger),
		logger:    logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// WorkspaceStorage returns the Workspace storage interface
func (m *Manager) WorkspaceStorage() interfaces.WorkspaceStorage {
	return m.workspace
}

// WorkItemStorage returns the WorkItem storage interface
func (m *Manager) WorkItemStorage() interfaces.WorkItemStorage {
	return m.workItem
}

// IndexStorage returns the Index storage interface
func (m *Manager) IndexStorage() interfaces.IndexStorage {
	return m.index
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
