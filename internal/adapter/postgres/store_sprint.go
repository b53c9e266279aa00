package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nexboard/nexboard/internal/domain"
	"github.com/nexboard/nexboard/internal/domain/sprint"
)

const sprintColumns = `id, project_id, name, goal, starts_on, ends_on, active, created_at, updated_at`

func scanSprint(row rowScanner) (sprint.Sprint, error) {
	var sp sprint.Sprint
	err := row.Scan(&sp.ID, &sp.ProjectID, &sp.Name, &sp.Goal,
		&sp.StartsOn, &sp.EndsOn, &sp.Active, &sp.CreatedAt, &sp.UpdatedAt)
	return sp, err
}

// --- Sprints ---

func (s *Store) ListSprints(ctx context.Context, projectID string) ([]sprint.Sprint, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+sprintColumns+` FROM sprints WHERE project_id = $1 ORDER BY starts_on`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list sprints: %w", err)
	}
	defer rows.Close()

	var sprints []sprint.Sprint
	for rows.Next() {
		sp, err := scanSprint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sprint: %w", err)
		}
		sprints = append(sprints, sp)
	}
	return sprints, rows.Err()
}

func (s *Store) GetSprint(ctx context.Context, id string) (*sprint.Sprint, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+sprintColumns+` FROM sprints WHERE id = $1`, id)

	sp, err := scanSprint(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get sprint %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get sprint %s: %w", id, err)
	}
	return &sp, nil
}

func (s *Store) CreateSprint(ctx context.Context, req sprint.CreateRequest) (*sprint.Sprint, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO sprints (id, project_id, name, goal, starts_on, ends_on)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+sprintColumns,
		uuid.NewString(), req.ProjectID, req.Name, req.Goal, req.StartsOn, req.EndsOn)

	sp, err := scanSprint(row)
	if err != nil {
		return nil, fmt.Errorf("create sprint: %w", err)
	}
	return &sp, nil
}

func (s *Store) UpdateSprint(ctx context.Context, sp *sprint.Sprint) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE sprints
		 SET name = $2, goal = $3, starts_on = $4, ends_on = $5, active = $6, updated_at = now()
		 WHERE id = $1`,
		sp.ID, sp.Name, sp.Goal, sp.StartsOn, sp.EndsOn, sp.Active)
	if err != nil {
		return fmt.Errorf("update sprint %s: %w", sp.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update sprint %s: %w", sp.ID, domain.ErrNotFound)
	}
	return nil
}
