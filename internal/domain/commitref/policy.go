package commitref

import (
	"strings"

	"github.com/nexboard/nexboard/internal/domain/task"
)

// DefaultClosingKeywords is the fixed vocabulary whose presence in a
// commit message marks the referenced tasks as done.
var DefaultClosingKeywords = []string{
	"fix", "fixes", "fixed",
	"close", "closes", "closed",
	"resolve", "resolves",
	"done",
}

// Policy maps a commit message to the status its referenced tasks
// should take. The match is a case-insensitive substring test, not
// word-bounded: "prefixes" contains "fix" and counts as closing. The
// policy is commit-local and never looks at a task's current status,
// so a done task can move back to in-progress when a later commit
// mentions it without a closing keyword.
type Policy struct {
	keywords []string
}

// NewPolicy creates a status policy. An empty keyword list falls back
// to DefaultClosingKeywords.
func NewPolicy(keywords []string) Policy {
	if len(keywords) == 0 {
		keywords = DefaultClosingKeywords
	}
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return Policy{keywords: lowered}
}

// StatusFor returns done when the message contains a closing keyword,
// in-progress otherwise.
func (p Policy) StatusFor(message string) task.Status {
	lower := strings.ToLower(message)
	for _, kw := range p.keywords {
		if strings.Contains(lower, kw) {
			return task.StatusDone
		}
	}
	return task.StatusInProgress
}
