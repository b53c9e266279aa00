package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event type constants for WebSocket messages.
const (
	EventTaskUpdated   = "task.updated"
	EventTaskSynced    = "task.synced"
	EventSprintUpdated = "sprint.updated"
)

// TaskUpdatedEvent is broadcast when a task changes through the API.
type TaskUpdatedEvent struct {
	TaskID    string `json:"task_id"`
	ProjectID string `json:"project_id"`
	Key       string `json:"key"`
	Status    string `json:"status"`
}

// TaskSyncedEvent is broadcast when commit synchronization updates a task.
type TaskSyncedEvent struct {
	TaskID    string `json:"task_id"`
	ProjectID string `json:"project_id"`
	Key       string `json:"key"`
	Status    string `json:"status"`
	CommitID  string `json:"commit_id"`
	CommitURL string `json:"commit_url,omitempty"`
}

// SprintUpdatedEvent is broadcast when a sprint changes.
type SprintUpdatedEvent struct {
	SprintID  string `json:"sprint_id"`
	ProjectID string `json:"project_id"`
	Active    bool   `json:"active"`
}

// BroadcastEvent marshals a typed event and broadcasts it to all clients.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
