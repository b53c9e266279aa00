package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "nexboard.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "NEXBOARD_PORT")
	setString(&cfg.Server.CORSOrigin, "NEXBOARD_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "NEXBOARD_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "NEXBOARD_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "NEXBOARD_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "NEXBOARD_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "NEXBOARD_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.LiteLLM.URL, "LITELLM_URL")
	setString(&cfg.LiteLLM.MasterKey, "LITELLM_MASTER_KEY")
	setString(&cfg.Logging.Level, "NEXBOARD_LOG_LEVEL")
	setString(&cfg.Logging.Service, "NEXBOARD_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "NEXBOARD_LOG_ASYNC")
	setInt(&cfg.Logging.BufferSize, "NEXBOARD_LOG_BUFFER_SIZE")
	setInt(&cfg.Logging.Workers, "NEXBOARD_LOG_WORKERS")
	setInt(&cfg.Breaker.MaxFailures, "NEXBOARD_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "NEXBOARD_BREAKER_TIMEOUT")
	setString(&cfg.Webhook.GitHubSecret, "NEXBOARD_WEBHOOK_GITHUB_SECRET")
	setString(&cfg.Sync.DefaultProjectKey, "NEXBOARD_SYNC_DEFAULT_KEY")
	setStrings(&cfg.Sync.ClosingKeywords, "NEXBOARD_SYNC_CLOSING_KEYWORDS")
	setInt(&cfg.Sync.MaxConcurrent, "NEXBOARD_SYNC_MAX_CONCURRENT")
	setDuration(&cfg.Sync.ProjectCacheTTL, "NEXBOARD_SYNC_CACHE_TTL")
	setInt64(&cfg.Sync.ProjectCacheSizeMB, "NEXBOARD_SYNC_CACHE_SIZE_MB")
	setString(&cfg.Assist.Model, "NEXBOARD_ASSIST_MODEL")
	setInt(&cfg.Assist.MaxTokens, "NEXBOARD_ASSIST_MAX_TOKENS")
}

// validate checks invariants that would otherwise surface as confusing
// runtime failures.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port must not be empty")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn must not be empty")
	}
	if cfg.Sync.DefaultProjectKey == "" {
		return errors.New("sync.default_project_key must not be empty")
	}
	if cfg.Sync.MaxConcurrent < 1 {
		return fmt.Errorf("sync.max_concurrent must be at least 1, got %d", cfg.Sync.MaxConcurrent)
	}
	if cfg.Breaker.MaxFailures < 1 {
		return fmt.Errorf("breaker.max_failures must be at least 1, got %d", cfg.Breaker.MaxFailures)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// setStrings parses a comma-separated env value into a string slice.
func setStrings(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
