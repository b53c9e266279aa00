package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexboard/nexboard/internal/domain"
	"github.com/nexboard/nexboard/internal/domain/project"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const projectColumns = `id, name, key, COALESCE(repo_full_name, ''), description, version, created_at, updated_at`

func scanProject(row rowScanner) (project.Project, error) {
	var p project.Project
	err := row.Scan(&p.ID, &p.Name, &p.Key, &p.RepoFullName, &p.Description,
		&p.Version, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// --- Projects ---

func (s *Store) ListProjects(ctx context.Context) ([]project.Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) GetProject(ctx context.Context, id string) (*project.Project, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return &p, nil
}

// GetProjectByRepo resolves the project bound to a repository full name.
// The schema enforces uniqueness; ordering by created_at keeps the
// result deterministic should that invariant ever be violated.
func (s *Store) GetProjectByRepo(ctx context.Context, repoFullName string) (*project.Project, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE repo_full_name = $1 ORDER BY created_at LIMIT 1`, repoFullName)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get project by repo %s: %w", repoFullName, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project by repo %s: %w", repoFullName, err)
	}
	return &p, nil
}

func (s *Store) CreateProject(ctx context.Context, req project.CreateRequest) (*project.Project, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO projects (id, name, key, repo_full_name, description)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		 RETURNING `+projectColumns,
		uuid.NewString(), req.Name, req.Key, req.RepoFullName, req.Description)

	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &p, nil
}

func (s *Store) UpdateProject(ctx context.Context, p *project.Project) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE projects
		 SET name = $2, key = $3, repo_full_name = NULLIF($4, ''), description = $5,
		     version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $6`,
		p.ID, p.Name, p.Key, p.RepoFullName, p.Description, p.Version)
	if err != nil {
		return fmt.Errorf("update project %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update project %s: %w", p.ID, domain.ErrConflict)
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete project %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
