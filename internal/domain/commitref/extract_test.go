package commitref

import (
	"reflect"
	"testing"
)

func TestExtractorRefs(t *testing.T) {
	ex := NewExtractor("NEX")

	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{"single ref", "working on NEX-5", []string{"NEX-5"}},
		{"no refs", "general cleanup", nil},
		{"lowercase", "fixes nex-7", []string{"NEX-7"}},
		{"mixed case", "Nex-7 and nEX-8", []string{"NEX-7", "NEX-8"}},
		{"duplicates collapse", "NEX-3 then NEX-3 again", []string{"NEX-3"}},
		{"duplicate across casing", "nex-3 and NEX-3", []string{"NEX-3"}},
		{"not word bounded", "see NEX-12foo", []string{"NEX-12"}},
		{"trailing letter after digits", "NEX-123x done", []string{"NEX-123"}},
		{"embedded in path", "refs/NEX-12/feature", []string{"NEX-12"}},
		{"multiple distinct", "NEX-1, NEX-2 and NEX-10", []string{"NEX-1", "NEX-2", "NEX-10"}},
		{"key without digits", "NEX- broken", nil},
		{"wrong key", "ACME-4 unrelated", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ex.Refs(tt.message)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Refs(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestExtractorKeyQuoting(t *testing.T) {
	// Regex metacharacters in a key must be treated literally.
	ex := NewExtractor("A.B")
	if got := ex.Refs("AXB-1 should not match"); got != nil {
		t.Fatalf("expected no match, got %v", got)
	}
	if got := ex.Refs("A.B-1 matches"); len(got) != 1 || got[0] != "A.B-1" {
		t.Fatalf("expected [A.B-1], got %v", got)
	}
}

func TestExtractorLowercaseKey(t *testing.T) {
	ex := NewExtractor("nex")
	if got := ex.Refs("NEX-9"); len(got) != 1 || got[0] != "NEX-9" {
		t.Fatalf("expected [NEX-9], got %v", got)
	}
}
