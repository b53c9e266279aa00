package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nexboard/nexboard/internal/domain"
	"github.com/nexboard/nexboard/internal/domain/task"
)

const taskColumns = `id, project_id, seq, key, title, description, type, status, points,
	COALESCE(sprint_id::text, ''), COALESCE(last_commit_message, ''), COALESCE(last_commit_url, ''),
	version, created_at, updated_at`

func scanTask(row rowScanner) (task.Task, error) {
	var t task.Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Seq, &t.Key, &t.Title, &t.Description,
		&t.Type, &t.Status, &t.Points, &t.SprintID,
		&t.LastCommitMessage, &t.LastCommitURL,
		&t.Version, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// --- Tasks ---

func (s *Store) ListTasks(ctx context.Context, projectID string) ([]task.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY seq`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)

	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get task %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return &t, nil
}

func (s *Store) GetTaskByKey(ctx context.Context, projectID, key string) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 AND key = $2`, projectID, key)

	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get task %s in project %s: %w", key, projectID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get task %s in project %s: %w", key, projectID, err)
	}
	return &t, nil
}

// CreateTask assigns the next key from the project's sequence and
// inserts the task in one transaction.
func (s *Store) CreateTask(ctx context.Context, req task.CreateRequest) (*task.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create task: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var seq int
	var projectKey string
	err = tx.QueryRow(ctx,
		`UPDATE projects SET next_task_seq = next_task_seq + 1
		 WHERE id = $1
		 RETURNING next_task_seq, key`, req.ProjectID).Scan(&seq, &projectKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("create task: project %s: %w", req.ProjectID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("create task: next seq: %w", err)
	}

	key := fmt.Sprintf("%s-%d", projectKey, seq)
	row := tx.QueryRow(ctx,
		`INSERT INTO tasks (id, project_id, seq, key, title, description, type, status, points, sprint_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, '')::uuid)
		 RETURNING `+taskColumns,
		uuid.NewString(), req.ProjectID, seq, key, req.Title, req.Description,
		req.Type, task.StatusTodo, req.Points, req.SprintID)

	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create task: %w", err)
	}
	return &t, nil
}

func (s *Store) UpdateTask(ctx context.Context, t *task.Task) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks
		 SET title = $2, description = $3, type = $4, status = $5, points = $6,
		     sprint_id = NULLIF($7, '')::uuid, version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $8`,
		t.ID, t.Title, t.Description, t.Type, t.Status, t.Points, t.SprintID, t.Version)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update task %s: %w", t.ID, domain.ErrConflict)
	}
	return nil
}

// UpdateTaskCommit overwrites status and commit provenance in one
// atomic write. Commit synchronization deliberately bypasses the
// version check: last write wins.
func (s *Store) UpdateTaskCommit(ctx context.Context, id string, status task.Status, commitMessage, commitURL string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks
		 SET status = $2, last_commit_message = $3, last_commit_url = NULLIF($4, ''),
		     version = version + 1, updated_at = now()
		 WHERE id = $1`,
		id, status, commitMessage, commitURL)
	if err != nil {
		return fmt.Errorf("update task commit %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update task commit %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete task %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
