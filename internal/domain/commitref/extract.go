// Package commitref derives task references and status intent from
// commit messages.
package commitref

import (
	"regexp"
	"strings"
)

// Extractor finds task references of the form <KEY>-<digits> in commit
// messages for a single project key.
type Extractor struct {
	re *regexp.Regexp
}

// NewExtractor builds an extractor for the given project key. Matching
// is case-insensitive and deliberately not anchored to word boundaries:
// "NEX-12foo" and "refs/NEX-12" both yield "NEX-12". The digit run
// terminates the match, so "NEX-123x" yields "NEX-123".
func NewExtractor(projectKey string) *Extractor {
	key := regexp.QuoteMeta(strings.ToUpper(strings.TrimSpace(projectKey)))
	return &Extractor{
		re: regexp.MustCompile(`(?i)` + key + `-\d+`),
	}
}

// Refs returns the distinct task keys referenced in message, uppercased,
// in first-occurrence order. Duplicate mentions collapse to one entry.
func (e *Extractor) Refs(message string) []string {
	matches := e.re.FindAllString(message, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		key := strings.ToUpper(m)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		refs = append(refs, key)
	}
	return refs
}
