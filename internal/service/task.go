package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nexboard/nexboard/internal/adapter/ws"
	"github.com/nexboard/nexboard/internal/domain/task"
	"github.com/nexboard/nexboard/internal/port/broadcast"
	"github.com/nexboard/nexboard/internal/port/database"
	"github.com/nexboard/nexboard/internal/port/messagequeue"
)

// TaskService manages the backlog.
type TaskService struct {
	store       database.Store
	broadcaster broadcast.Broadcaster
	queue       messagequeue.Queue
	logger      *slog.Logger
}

// NewTaskService creates the task service. broadcaster and queue may
// be nil; the corresponding fan-out is then skipped.
func NewTaskService(store database.Store, broadcaster broadcast.Broadcaster, queue messagequeue.Queue, logger *slog.Logger) *TaskService {
	return &TaskService{store: store, broadcaster: broadcaster, queue: queue, logger: logger}
}

func (s *TaskService) List(ctx context.Context, projectID string) ([]task.Task, error) {
	return s.store.ListTasks(ctx, projectID)
}

func (s *TaskService) Get(ctx context.Context, id string) (*task.Task, error) {
	return s.store.GetTask(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, req task.CreateRequest) (*task.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.store.CreateTask(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("task created", "id", t.ID, "key", t.Key, "project", t.ProjectID)
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, id string, req task.UpdateRequest) (*task.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(t)
	if err := s.store.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	t.Version++

	s.logger.Info("task updated", "id", t.ID, "key", t.Key, "status", t.Status)
	s.notifyTaskUpdated(ctx, t)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", "id", id)
	return nil
}

func (s *TaskService) notifyTaskUpdated(ctx context.Context, t *task.Task) {
	ev := ws.TaskUpdatedEvent{
		TaskID:    t.ID,
		ProjectID: t.ProjectID,
		Key:       t.Key,
		Status:    string(t.Status),
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(ctx, ws.EventTaskUpdated, ev)
	}

	if s.queue != nil {
		data, err := json.Marshal(ev)
		if err != nil {
			s.logger.Error("marshal task updated event", "task", t.Key, "error", err)
			return
		}
		if err := s.queue.Publish(ctx, messagequeue.SubjectTaskUpdated, data); err != nil {
			s.logger.Error("publish task updated event", "task", t.Key, "error", err)
		}
	}
}
