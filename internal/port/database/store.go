// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/nexboard/nexboard/internal/domain/project"
	"github.com/nexboard/nexboard/internal/domain/sprint"
	"github.com/nexboard/nexboard/internal/domain/task"
)

// Store is the port interface for database operations.
type Store interface {
	// Projects
	ListProjects(ctx context.Context) ([]project.Project, error)
	GetProject(ctx context.Context, id string) (*project.Project, error)
	// GetProjectByRepo resolves a project by its repository full name
	// ("owner/name"). Returns domain.ErrNotFound when no project is
	// bound to the repository.
	GetProjectByRepo(ctx context.Context, repoFullName string) (*project.Project, error)
	CreateProject(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	UpdateProject(ctx context.Context, p *project.Project) error
	DeleteProject(ctx context.Context, id string) error

	// Tasks
	ListTasks(ctx context.Context, projectID string) ([]task.Task, error)
	GetTask(ctx context.Context, id string) (*task.Task, error)
	// GetTaskByKey resolves a task by its human-facing key ("NEX-12")
	// within the given project.
	GetTaskByKey(ctx context.Context, projectID, key string) (*task.Task, error)
	CreateTask(ctx context.Context, req task.CreateRequest) (*task.Task, error)
	UpdateTask(ctx context.Context, t *task.Task) error
	// UpdateTaskCommit overwrites status and commit provenance fields
	// in one atomic per-row write.
	UpdateTaskCommit(ctx context.Context, id string, status task.Status, commitMessage, commitURL string) error
	DeleteTask(ctx context.Context, id string) error

	// Sprints
	ListSprints(ctx context.Context, projectID string) ([]sprint.Sprint, error)
	GetSprint(ctx context.Context, id string) (*sprint.Sprint, error)
	CreateSprint(ctx context.Context, req sprint.CreateRequest) (*sprint.Sprint, error)
	UpdateSprint(ctx context.Context, s *sprint.Sprint) error
}
