package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nexboard/nexboard/internal/domain/project"
	"github.com/nexboard/nexboard/internal/port/database"
)

// ProjectService manages project lifecycle.
type ProjectService struct {
	store  database.Store
	sync   *CommitSyncService
	logger *slog.Logger
}

// NewProjectService creates the project service. sync may be nil when
// commit synchronization is not wired (some tests).
func NewProjectService(store database.Store, sync *CommitSyncService, logger *slog.Logger) *ProjectService {
	return &ProjectService{store: store, sync: sync, logger: logger}
}

func (s *ProjectService) List(ctx context.Context) ([]project.Project, error) {
	return s.store.ListProjects(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*project.Project, error) {
	return s.store.GetProject(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, req project.CreateRequest) (*project.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.store.CreateProject(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info("project created", "id", p.ID, "key", p.Key, "repo", p.RepoFullName)
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, req project.UpdateRequest) (*project.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	oldRepo := p.RepoFullName
	req.Apply(p)

	if err := s.store.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	p.Version++

	// The repo binding may have moved; evict both sides.
	if s.sync != nil {
		s.sync.InvalidateProject(ctx, oldRepo)
		s.sync.InvalidateProject(ctx, p.RepoFullName)
	}

	s.logger.Info("project updated", "id", p.ID, "key", p.Key)
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteProject(ctx, id); err != nil {
		return err
	}

	if s.sync != nil {
		s.sync.InvalidateProject(ctx, p.RepoFullName)
	}

	s.logger.Info("project deleted", "id", id)
	return nil
}
