package commitref

import (
	"testing"

	"github.com/nexboard/nexboard/internal/domain/task"
)

func TestPolicyStatusFor(t *testing.T) {
	p := NewPolicy(nil)

	tests := []struct {
		name    string
		message string
		want    task.Status
	}{
		{"fixes", "fixes NEX-3", task.StatusDone},
		{"closes", "closes NEX-5 for real", task.StatusDone},
		{"resolve", "resolve the flaky test NEX-9", task.StatusDone},
		{"done", "NEX-2 done", task.StatusDone},
		{"uppercase keyword", "FIXED NEX-1", task.StatusDone},
		{"wip", "wip on NEX-3", task.StatusInProgress},
		{"plain mention", "touch NEX-4 config", task.StatusInProgress},
		{"empty", "", task.StatusInProgress},
		// Substring semantics: "prefixes" contains "fix".
		{"substring match", "update prefixes for NEX-6", task.StatusDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.StatusFor(tt.message); got != tt.want {
				t.Fatalf("StatusFor(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestPolicyCustomKeywords(t *testing.T) {
	p := NewPolicy([]string{"shipped"})

	if got := p.StatusFor("fixes NEX-3"); got != task.StatusInProgress {
		t.Fatalf("custom policy should not match default keywords, got %q", got)
	}
	if got := p.StatusFor("Shipped NEX-3"); got != task.StatusDone {
		t.Fatalf("expected done for custom keyword, got %q", got)
	}
}
