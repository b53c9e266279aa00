// Package project defines the Project domain entity.
package project

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nexboard/nexboard/internal/domain"
)

// keyPattern constrains project keys to a short uppercase alphanumeric
// token starting with a letter, e.g. "NEX" or "OPS2".
var keyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,9}$`)

// Project represents a board managed by NexBoard. Key is the prefix
// used in task references ("NEX" in "NEX-12"); RepoFullName is the
// external repository identity ("owner/name") used to route inbound
// push webhooks to this project.
type Project struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Key          string    `json:"key"`
	RepoFullName string    `json:"repo_full_name,omitempty"`
	Description  string    `json:"description,omitempty"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateRequest holds the fields needed to create a new project.
type CreateRequest struct {
	Name         string `json:"name"`
	Key          string `json:"key"`
	RepoFullName string `json:"repo_full_name,omitempty"`
	Description  string `json:"description,omitempty"`
}

// NormalizeKey uppercases and trims a project key.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// Validate checks the create request and normalizes the key in place.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	r.Key = NormalizeKey(r.Key)
	if !keyPattern.MatchString(r.Key) {
		return fmt.Errorf("%w: key must be 2-10 uppercase alphanumeric characters starting with a letter", domain.ErrValidation)
	}
	if r.RepoFullName != "" && !validRepoFullName(r.RepoFullName) {
		return fmt.Errorf("%w: repo_full_name must be in owner/name form", domain.ErrValidation)
	}
	return nil
}

// UpdateRequest holds the mutable fields of a project. Nil pointers
// leave the current value unchanged.
type UpdateRequest struct {
	Name         *string `json:"name,omitempty"`
	Key          *string `json:"key,omitempty"`
	RepoFullName *string `json:"repo_full_name,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// Validate checks the update request and normalizes the key in place.
func (r *UpdateRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	if r.Key != nil {
		*r.Key = NormalizeKey(*r.Key)
		if !keyPattern.MatchString(*r.Key) {
			return fmt.Errorf("%w: key must be 2-10 uppercase alphanumeric characters starting with a letter", domain.ErrValidation)
		}
	}
	if r.RepoFullName != nil && *r.RepoFullName != "" && !validRepoFullName(*r.RepoFullName) {
		return fmt.Errorf("%w: repo_full_name must be in owner/name form", domain.ErrValidation)
	}
	return nil
}

// Apply copies the set fields of the request onto p.
func (r *UpdateRequest) Apply(p *Project) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Key != nil {
		p.Key = *r.Key
	}
	if r.RepoFullName != nil {
		p.RepoFullName = *r.RepoFullName
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
}

// validRepoFullName reports whether s looks like "owner/name".
func validRepoFullName(s string) bool {
	parts := strings.Split(s, "/")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}
