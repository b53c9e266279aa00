package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	nbhttp "github.com/nexboard/nexboard/internal/adapter/http"
	"github.com/nexboard/nexboard/internal/adapter/litellm"
	nbnats "github.com/nexboard/nexboard/internal/adapter/nats"
	nbotel "github.com/nexboard/nexboard/internal/adapter/otel"
	"github.com/nexboard/nexboard/internal/adapter/postgres"
	"github.com/nexboard/nexboard/internal/adapter/ristretto"
	"github.com/nexboard/nexboard/internal/adapter/ws"
	"github.com/nexboard/nexboard/internal/config"
	"github.com/nexboard/nexboard/internal/logger"
	"github.com/nexboard/nexboard/internal/middleware"
	"github.com/nexboard/nexboard/internal/resilience"
	"github.com/nexboard/nexboard/internal/secrets"
	"github.com/nexboard/nexboard/internal/service"
	"github.com/nexboard/nexboard/internal/syncpool"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	defer logCloser.Close()
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"sync_max_concurrent", cfg.Sync.MaxConcurrent,
	)

	ctx := context.Background()

	shutdownOtel := nbotel.InitTracer(cfg.Logging.Service)
	defer func() { _ = shutdownOtel(ctx) }()

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	queue, err := nbnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Close() }()

	projectCache, err := ristretto.New(cfg.Sync.ProjectCacheSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer projectCache.Close()

	metrics, err := nbotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	vault, err := secrets.NewVault(secrets.EnvLoader(secrets.KeyWebhookGitHub, secrets.KeyLiteLLMMaster))
	if err != nil {
		return fmt.Errorf("secrets: %w", err)
	}
	// SIGHUP re-reads the secret sources so rotated webhook secrets
	// take effect without a restart.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			if err := vault.Reload(); err != nil {
				slog.Error("secret reload failed", "error", err)
				continue
			}
			slog.Info("secrets reloaded")
		}
	}()

	webhookSecret := func() string {
		if s := vault.Get(secrets.KeyWebhookGitHub); s != "" {
			return s
		}
		return cfg.Webhook.GitHubSecret
	}

	llmKey := vault.Get(secrets.KeyLiteLLMMaster)
	if llmKey == "" {
		llmKey = cfg.LiteLLM.MasterKey
	}
	llmClient := litellm.NewClient(cfg.LiteLLM.URL, llmKey)
	llmClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	// --- Services ---

	hub := ws.NewHub()
	store := postgres.NewStore(pool)
	deliveryPool := syncpool.New(cfg.Sync.MaxConcurrent)

	syncSvc := service.NewCommitSyncService(store, projectCache, hub, queue, deliveryPool, metrics, cfg.Sync, log)
	projectSvc := service.NewProjectService(store, syncSvc, log)
	taskSvc := service.NewTaskService(store, hub, queue, log)
	sprintSvc := service.NewSprintService(store, hub, log)
	assistSvc := service.NewAssistService(llmClient, cfg.Assist, log)

	// --- HTTP ---

	handlers := &nbhttp.Handlers{
		Projects: projectSvc,
		Tasks:    taskSvc,
		Sprints:  sprintSvc,
		Sync:     syncSvc,
		Assist:   assistSvc,
		Hub:      hub,
		DBPing:   pool.Ping,
	}

	r := chi.NewRouter()

	r.Use(nbhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(nbhttp.SecurityHeaders)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestContext)
	r.Use(nbhttp.Logger)
	r.Use(nbotel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	nbhttp.MountRoutes(r, handlers, webhookSecret)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
