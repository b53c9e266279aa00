// Package task defines the Task domain entity.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/nexboard/nexboard/internal/domain"
)

// Status represents the board column a task sits in.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusInReview   Status = "in-review"
	StatusDone       Status = "done"
)

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

// Type categorizes a task on the backlog.
type Type string

const (
	TypeFeature Type = "feature"
	TypeBug     Type = "bug"
	TypeChore   Type = "chore"
)

// Task represents a single backlog item. Key is the human-facing
// reference ("NEX-12"), assigned by the store from a per-project
// sequence at creation time. LastCommitMessage and LastCommitURL are
// provenance fields written by commit synchronization; empty means no
// commit has referenced this task yet.
type Task struct {
	ID                string    `json:"id"`
	ProjectID         string    `json:"project_id"`
	Key               string    `json:"key"`
	Seq               int       `json:"seq"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	Type              Type      `json:"type"`
	Status            Status    `json:"status"`
	Points            int       `json:"points"`
	SprintID          string    `json:"sprint_id,omitempty"`
	LastCommitMessage string    `json:"last_commit_message,omitempty"`
	LastCommitURL     string    `json:"last_commit_url,omitempty"`
	Version           int       `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateRequest holds the fields needed to create a new task.
type CreateRequest struct {
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        Type   `json:"type,omitempty"`
	Points      int    `json:"points,omitempty"`
	SprintID    string `json:"sprint_id,omitempty"`
}

// Validate checks the create request and applies defaults.
func (r *CreateRequest) Validate() error {
	if r.ProjectID == "" {
		return fmt.Errorf("%w: project_id is required", domain.ErrValidation)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if r.Type == "" {
		r.Type = TypeFeature
	}
	if r.Points < 0 {
		return fmt.Errorf("%w: points must not be negative", domain.ErrValidation)
	}
	return nil
}

// UpdateRequest holds the mutable fields of a task. Nil pointers leave
// the current value unchanged.
type UpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Type        *Type   `json:"type,omitempty"`
	Status      *Status `json:"status,omitempty"`
	Points      *int    `json:"points,omitempty"`
	SprintID    *string `json:"sprint_id,omitempty"`
}

// Validate checks the update request.
func (r *UpdateRequest) Validate() error {
	if r.Status != nil && !ValidStatus(string(*r.Status)) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *r.Status)
	}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
	}
	if r.Points != nil && *r.Points < 0 {
		return fmt.Errorf("%w: points must not be negative", domain.ErrValidation)
	}
	return nil
}

// Apply copies the set fields of the request onto t.
func (r *UpdateRequest) Apply(t *Task) {
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.Type != nil {
		t.Type = *r.Type
	}
	if r.Status != nil {
		t.Status = *r.Status
	}
	if r.Points != nil {
		t.Points = *r.Points
	}
	if r.SprintID != nil {
		t.SprintID = *r.SprintID
	}
}
