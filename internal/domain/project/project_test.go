package project

import "testing"

func TestCreateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateRequest
		wantErr bool
		wantKey string
	}{
		{"valid", CreateRequest{Name: "Nexus", Key: "NEX", RepoFullName: "acme/nexus"}, false, "NEX"},
		{"lowercase key normalized", CreateRequest{Name: "Nexus", Key: "nex"}, false, "NEX"},
		{"key with digits", CreateRequest{Name: "Ops", Key: "OPS2"}, false, "OPS2"},
		{"missing name", CreateRequest{Key: "NEX"}, true, ""},
		{"key too short", CreateRequest{Name: "X", Key: "N"}, true, ""},
		{"key starts with digit", CreateRequest{Name: "X", Key: "1AB"}, true, ""},
		{"key with hyphen", CreateRequest{Name: "X", Key: "NE-X"}, true, ""},
		{"bad repo name", CreateRequest{Name: "X", Key: "NEX", RepoFullName: "acme"}, true, ""},
		{"empty repo is fine", CreateRequest{Name: "X", Key: "NEX"}, false, "NEX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.req.Key != tt.wantKey {
				t.Fatalf("expected key %q, got %q", tt.wantKey, tt.req.Key)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("  nex "); got != "NEX" {
		t.Fatalf("expected NEX, got %q", got)
	}
}
