package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
)

// Service enqueues work items on cron schedules so configured workspaces
// are re-synced periodically.
type Service struct {
	workItems interfaces.WorkItemStorage
	config    *common.SchedulerConfig
	cron      *cron.Cron
	logger    arbor.ILogger
	running   bool
}

// NewService creates a scheduler service.
func NewService(workItems interfaces.WorkItemStorage, config *common.SchedulerConfig, logger arbor.ILogger) *Service {
	return &Service{
		workItems: workItems,
		config:    config,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start registers all configured sync targets and starts the cron runner.
func (s *Service) Start() error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if !s.config.Enabled {
		s.logger.Debug().Msg("Scheduler disabled")
		return nil
	}

	for _, target := range s.config.Targets {
		target := target
		_, err := s.cron.AddFunc(target.Schedule, func() {
			s.enqueue(target)
		})
		if err != nil {
			return fmt.Errorf("failed to add cron entry for workspace %s: %w", target.WorkspaceID, err)
		}

		s.logger.Info().
			Str("workspace_id", target.WorkspaceID).
			Str("schedule", target.Schedule).
			Msg("Scheduled workspace re-sync")
	}

	s.cron.Start()
	s.running = true
	return nil
}

// Stop stops the cron runner and waits for in-flight entries.
func (s *Service) Stop() {
	if !s.running {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Service) enqueue(target common.SyncTarget) {
	item := &models.WorkItem{
		ID:           common.NewWorkItemID(),
		Credential:   target.Credential,
		CollectionID: target.CollectionID,
		WorkspaceID:  target.WorkspaceID,
		Status:       models.WorkItemStatusPending,
	}

	if err := s.workItems.SaveWorkItem(context.Background(), item); err != nil {
		s.logger.Error().
			Err(err).
			Str("workspace_id", target.WorkspaceID).
			Msg("Failed to enqueue scheduled sync")
		return
	}

	s.logger.Info().
		Str("work_item_id", item.ID).
		Str("workspace_id", target.WorkspaceID).
		Msg("Scheduled sync enqueued")
}
