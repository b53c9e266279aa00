package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Sync.DefaultProjectKey != "TASK" {
		t.Fatalf("expected default project key TASK, got %q", cfg.Sync.DefaultProjectKey)
	}
	if cfg.Sync.MaxConcurrent != 8 {
		t.Fatalf("expected default max_concurrent 8, got %d", cfg.Sync.MaxConcurrent)
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nexboard.yaml")
	data := []byte(`
server:
  port: "9090"
sync:
  default_project_key: BRD
  closing_keywords: [shipped, landed]
  project_cache_ttl: 5m
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Sync.DefaultProjectKey != "BRD" {
		t.Fatalf("expected BRD, got %q", cfg.Sync.DefaultProjectKey)
	}
	if len(cfg.Sync.ClosingKeywords) != 2 || cfg.Sync.ClosingKeywords[0] != "shipped" {
		t.Fatalf("unexpected closing keywords: %v", cfg.Sync.ClosingKeywords)
	}
	if cfg.Sync.ProjectCacheTTL != 5*time.Minute {
		t.Fatalf("expected 5m cache TTL, got %v", cfg.Sync.ProjectCacheTTL)
	}
	// Untouched values keep their defaults.
	if cfg.Postgres.MaxConns != 10 {
		t.Fatalf("expected default max_conns 10, got %d", cfg.Postgres.MaxConns)
	}
}

func TestLoadFromEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nexboard.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	t.Setenv("NEXBOARD_PORT", "7070")
	t.Setenv("NEXBOARD_SYNC_CLOSING_KEYWORDS", "shipped, landed")
	t.Setenv("NEXBOARD_SYNC_MAX_CONCURRENT", "2")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("expected env to win, got %q", cfg.Server.Port)
	}
	if len(cfg.Sync.ClosingKeywords) != 2 || cfg.Sync.ClosingKeywords[1] != "landed" {
		t.Fatalf("unexpected closing keywords: %v", cfg.Sync.ClosingKeywords)
	}
	if cfg.Sync.MaxConcurrent != 2 {
		t.Fatalf("expected max_concurrent 2, got %d", cfg.Sync.MaxConcurrent)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	t.Setenv("NEXBOARD_SYNC_MAX_CONCURRENT", "0")
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected validation error for max_concurrent 0")
	}
}

func TestLoadFromBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nexboard.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}
