// Package service contains the application services that tie domain
// logic to the storage, messaging, and broadcast adapters.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nexboard/nexboard/internal/adapter/otel"
	"github.com/nexboard/nexboard/internal/adapter/ws"
	"github.com/nexboard/nexboard/internal/config"
	"github.com/nexboard/nexboard/internal/domain"
	"github.com/nexboard/nexboard/internal/domain/commitref"
	"github.com/nexboard/nexboard/internal/domain/project"
	"github.com/nexboard/nexboard/internal/domain/webhook"
	"github.com/nexboard/nexboard/internal/port/broadcast"
	"github.com/nexboard/nexboard/internal/port/cache"
	"github.com/nexboard/nexboard/internal/port/database"
	"github.com/nexboard/nexboard/internal/port/messagequeue"
	"github.com/nexboard/nexboard/internal/syncpool"
)

// SyncOutcome classifies how a webhook delivery was handled.
type SyncOutcome string

const (
	// OutcomeCompleted means the delivery was a push for a known
	// project and every commit was processed.
	OutcomeCompleted SyncOutcome = "completed"
	// OutcomeIgnored means the event type does not drive
	// synchronization.
	OutcomeIgnored SyncOutcome = "ignored"
	// OutcomeRejected means the delivery was a push that could not be
	// acted on; Reason says why.
	OutcomeRejected SyncOutcome = "rejected"
)

// RejectReason explains a rejected delivery.
type RejectReason string

const (
	RejectMalformedPayload RejectReason = "malformed_payload"
	RejectProjectNotFound  RejectReason = "project_not_found"
)

// SyncResult is the outcome of one webhook delivery. A non-nil result
// with a nil error always describes a terminal decision; storage
// failures surface as errors instead so callers can signal retry.
type SyncResult struct {
	Outcome      SyncOutcome  `json:"outcome"`
	Reason       RejectReason `json:"reason,omitempty"`
	TasksUpdated int          `json:"tasks_updated"`
	SkippedRefs  []string     `json:"skipped_refs,omitempty"`
}

// CommitSyncService turns push webhook deliveries into task status
// updates. Commits within a delivery are processed strictly in
// delivery order so the newest commit's status wins.
type CommitSyncService struct {
	store       database.Store
	cache       cache.Cache
	broadcaster broadcast.Broadcaster
	queue       messagequeue.Queue
	pool        *syncpool.Pool
	metrics     *otel.Metrics
	cfg         config.Sync
	logger      *slog.Logger
}

// NewCommitSyncService creates the commit synchronization service.
// cache, broadcaster, queue, pool, and metrics may each be nil; the
// corresponding side effect is then skipped.
func NewCommitSyncService(
	store database.Store,
	projectCache cache.Cache,
	broadcaster broadcast.Broadcaster,
	queue messagequeue.Queue,
	pool *syncpool.Pool,
	metrics *otel.Metrics,
	cfg config.Sync,
	logger *slog.Logger,
) *CommitSyncService {
	return &CommitSyncService{
		store:       store,
		cache:       projectCache,
		broadcaster: broadcaster,
		queue:       queue,
		pool:        pool,
		metrics:     metrics,
		cfg:         cfg,
		logger:      logger,
	}
}

// HandleEvent routes a webhook delivery by event type. Everything that
// is not a push is acknowledged and ignored.
func (s *CommitSyncService) HandleEvent(ctx context.Context, eventType string, body []byte) (*SyncResult, error) {
	if eventType != webhook.EventPush {
		s.logger.Debug("ignoring webhook event", "event", eventType)
		return &SyncResult{Outcome: OutcomeIgnored}, nil
	}
	return s.HandlePush(ctx, body)
}

// HandlePush processes one push delivery. Malformed payloads and
// unknown repositories come back as rejected results with a nil error;
// any returned error is a storage failure the caller should surface as
// retryable.
func (s *CommitSyncService) HandlePush(ctx context.Context, body []byte) (*SyncResult, error) {
	var result *SyncResult
	err := s.pool.Run(ctx, func() error {
		var runErr error
		result, runErr = s.processDelivery(ctx, body)
		return runErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *CommitSyncService) processDelivery(ctx context.Context, body []byte) (*SyncResult, error) {
	start := time.Now()

	ev, err := webhook.DecodePush(body)
	if err != nil {
		s.logger.Warn("rejecting webhook delivery", "reason", RejectMalformedPayload, "error", err)
		s.countRejected(ctx)
		return &SyncResult{Outcome: OutcomeRejected, Reason: RejectMalformedPayload}, nil
	}

	ctx, span := otel.StartDeliverySpan(ctx, ev.Repo, len(ev.Commits))
	defer span.End()

	proj, err := s.resolveProject(ctx, ev.Repo)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("rejecting webhook delivery", "reason", RejectProjectNotFound, "repo", ev.Repo)
			s.countRejected(ctx)
			return &SyncResult{Outcome: OutcomeRejected, Reason: RejectProjectNotFound}, nil
		}
		return nil, fmt.Errorf("resolve project for %s: %w", ev.Repo, err)
	}

	key := proj.Key
	if key == "" {
		key = s.cfg.DefaultProjectKey
	}
	extractor := commitref.NewExtractor(key)
	policy := commitref.NewPolicy(s.cfg.ClosingKeywords)

	result := &SyncResult{Outcome: OutcomeCompleted}
	for _, commit := range ev.Commits {
		if err := s.processCommit(ctx, proj, extractor, policy, commit, result); err != nil {
			return nil, err
		}
	}

	if s.metrics != nil {
		s.metrics.DeliveriesProcessed.Add(ctx, 1)
		s.metrics.SyncDuration.Record(ctx, time.Since(start).Seconds())
	}
	s.logger.Info("webhook delivery synchronized",
		"repo", ev.Repo,
		"commits", len(ev.Commits),
		"tasks_updated", result.TasksUpdated,
		"refs_skipped", len(result.SkippedRefs))
	return result, nil
}

func (s *CommitSyncService) processCommit(
	ctx context.Context,
	proj *project.Project,
	extractor *commitref.Extractor,
	policy commitref.Policy,
	commit webhook.Commit,
	result *SyncResult,
) error {
	refs := extractor.Refs(commit.Message)
	if len(refs) == 0 {
		return nil
	}

	ctx, span := otel.StartCommitSpan(ctx, commit.ID, len(refs))
	defer span.End()

	status := policy.StatusFor(commit.Message)
	for _, ref := range refs {
		t, err := s.store.GetTaskByKey(ctx, proj.ID, ref)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn("skipping unknown task reference", "ref", ref, "commit", commit.ID)
				result.SkippedRefs = append(result.SkippedRefs, ref)
				if s.metrics != nil {
					s.metrics.RefsSkipped.Add(ctx, 1)
				}
				continue
			}
			return fmt.Errorf("lookup task %s: %w", ref, err)
		}

		if err := s.store.UpdateTaskCommit(ctx, t.ID, status, commit.Message, commit.URL); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Deleted between lookup and write; same as unknown.
				s.logger.Warn("skipping deleted task reference", "ref", ref, "commit", commit.ID)
				result.SkippedRefs = append(result.SkippedRefs, ref)
				continue
			}
			return fmt.Errorf("update task %s: %w", ref, err)
		}

		result.TasksUpdated++
		if s.metrics != nil {
			s.metrics.TasksSynced.Add(ctx, 1)
		}
		s.logger.Info("task synchronized from commit",
			"task", ref, "status", status, "commit", commit.ID)
		s.notifyTaskSynced(ctx, proj.ID, t.ID, ref, string(status), commit)
	}
	return nil
}

// notifyTaskSynced fans the update out to dashboard clients and the
// message queue. Both are best-effort; a failed notification never
// fails the delivery.
func (s *CommitSyncService) notifyTaskSynced(ctx context.Context, projectID, taskID, key, status string, commit webhook.Commit) {
	ev := ws.TaskSyncedEvent{
		TaskID:    taskID,
		ProjectID: projectID,
		Key:       key,
		Status:    status,
		CommitID:  commit.ID,
		CommitURL: commit.URL,
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(ctx, ws.EventTaskSynced, ev)
	}

	if s.queue != nil {
		data, err := json.Marshal(ev)
		if err != nil {
			s.logger.Error("marshal task synced event", "task", key, "error", err)
			return
		}
		if err := s.queue.Publish(ctx, messagequeue.SubjectTaskSynced, data); err != nil {
			s.logger.Error("publish task synced event", "task", key, "error", err)
		}
	}
}

// resolveProject looks the project up in the L1 cache first and falls
// back to the store, refilling the cache on a hit.
func (s *CommitSyncService) resolveProject(ctx context.Context, repo string) (*project.Project, error) {
	cacheKey := "project:repo:" + repo

	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
			var p project.Project
			if err := json.Unmarshal(data, &p); err == nil {
				return &p, nil
			}
			// Corrupt entry; drop it and fall through to the store.
			_ = s.cache.Delete(ctx, cacheKey)
		}
	}

	p, err := s.store.GetProjectByRepo(ctx, repo)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(p); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.cfg.ProjectCacheTTL)
		}
	}
	return p, nil
}

// InvalidateProject evicts a project's repository binding from the L1
// cache. Called by the project service after updates and deletes.
func (s *CommitSyncService) InvalidateProject(ctx context.Context, repoFullName string) {
	if s.cache == nil || repoFullName == "" {
		return
	}
	_ = s.cache.Delete(ctx, "project:repo:"+repoFullName)
}

func (s *CommitSyncService) countRejected(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.DeliveriesRejected.Add(ctx, 1)
	}
}
