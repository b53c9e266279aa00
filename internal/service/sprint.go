package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nexboard/nexboard/internal/adapter/ws"
	"github.com/nexboard/nexboard/internal/domain/sprint"
	"github.com/nexboard/nexboard/internal/port/broadcast"
	"github.com/nexboard/nexboard/internal/port/database"
)

// SprintService manages sprints.
type SprintService struct {
	store       database.Store
	broadcaster broadcast.Broadcaster
	logger      *slog.Logger
}

// NewSprintService creates the sprint service.
func NewSprintService(store database.Store, broadcaster broadcast.Broadcaster, logger *slog.Logger) *SprintService {
	return &SprintService{store: store, broadcaster: broadcaster, logger: logger}
}

func (s *SprintService) List(ctx context.Context, projectID string) ([]sprint.Sprint, error) {
	return s.store.ListSprints(ctx, projectID)
}

func (s *SprintService) Get(ctx context.Context, id string) (*sprint.Sprint, error) {
	return s.store.GetSprint(ctx, id)
}

func (s *SprintService) Create(ctx context.Context, req sprint.CreateRequest) (*sprint.Sprint, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sp, err := s.store.CreateSprint(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create sprint: %w", err)
	}

	s.logger.Info("sprint created", "id", sp.ID, "project", sp.ProjectID)
	return sp, nil
}

// SetActive flips a sprint's active flag and notifies dashboard clients.
func (s *SprintService) SetActive(ctx context.Context, id string, active bool) (*sprint.Sprint, error) {
	sp, err := s.store.GetSprint(ctx, id)
	if err != nil {
		return nil, err
	}

	sp.Active = active
	if err := s.store.UpdateSprint(ctx, sp); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(ctx, ws.EventSprintUpdated, ws.SprintUpdatedEvent{
			SprintID:  sp.ID,
			ProjectID: sp.ProjectID,
			Active:    sp.Active,
		})
	}

	s.logger.Info("sprint active flag set", "id", sp.ID, "active", sp.Active)
	return sp, nil
}
