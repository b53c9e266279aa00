// Package webhook defines typed inbound VCS webhook events and their decoding.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EventPush is the only event type that drives commit synchronization.
// All other event types are accepted and ignored.
const EventPush = "push"

// ErrMalformedPayload indicates a push payload that cannot be decoded
// or lacks the repository identity.
var ErrMalformedPayload = errors.New("malformed webhook payload")

// Commit is one commit in a push delivery, in delivery order.
type Commit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// PushEvent is a decoded push delivery. Commits are ordered oldest
// first, as delivered; commit synchronization relies on that order.
type PushEvent struct {
	Repo    string   `json:"repo"`
	Ref     string   `json:"ref,omitempty"`
	Commits []Commit `json:"commits"`
}

// DecodePush parses a GitHub-style push payload. It fails with
// ErrMalformedPayload when the body is not JSON or has no
// repository.full_name. An empty commit list is valid.
func DecodePush(data []byte) (*PushEvent, error) {
	var raw struct {
		Ref        string `json:"ref"`
		Repository struct {
			FullName string `json:"full_name"`
		} `json:"repository"`
		Commits []struct {
			ID      string `json:"id"`
			Message string `json:"message"`
			URL     string `json:"url"`
		} `json:"commits"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if raw.Repository.FullName == "" {
		return nil, fmt.Errorf("%w: missing repository.full_name", ErrMalformedPayload)
	}

	ev := &PushEvent{
		Repo: raw.Repository.FullName,
		Ref:  raw.Ref,
	}
	for _, c := range raw.Commits {
		ev.Commits = append(ev.Commits, Commit(c))
	}
	return ev, nil
}
