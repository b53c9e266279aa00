package webhook

import (
	"errors"
	"testing"
)

func TestDecodePush(t *testing.T) {
	payload := []byte(`{
		"ref": "refs/heads/main",
		"repository": {"full_name": "acme/nexus"},
		"commits": [
			{"id": "a1", "message": "working on NEX-5", "url": "https://example.com/a1"},
			{"id": "b2", "message": "closes NEX-5", "url": "https://example.com/b2"}
		]
	}`)

	ev, err := DecodePush(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Repo != "acme/nexus" {
		t.Fatalf("expected 'acme/nexus', got %q", ev.Repo)
	}
	if len(ev.Commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(ev.Commits))
	}
	if ev.Commits[0].ID != "a1" || ev.Commits[1].ID != "b2" {
		t.Fatalf("commit order not preserved: %+v", ev.Commits)
	}
	if ev.Commits[1].URL != "https://example.com/b2" {
		t.Fatalf("unexpected commit url %q", ev.Commits[1].URL)
	}
}

func TestDecodePushEmptyCommits(t *testing.T) {
	ev, err := DecodePush([]byte(`{"repository": {"full_name": "acme/nexus"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ev.Commits) != 0 {
		t.Fatalf("expected no commits, got %d", len(ev.Commits))
	}
}

func TestDecodePushMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{{`},
		{"missing repository", `{"commits": []}`},
		{"empty full_name", `{"repository": {"full_name": ""}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePush([]byte(tt.payload))
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}
