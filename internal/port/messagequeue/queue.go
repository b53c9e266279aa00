// Package messagequeue defines the message queue port (interface).
package messagequeue

import "context"

// Subjects published by the board.
const (
	SubjectTaskUpdated = "board.task.updated"
	SubjectTaskSynced  = "board.task.synced"
)

// Queue is the port interface for publishing board events to external
// consumers (automation, notification fan-out).
type Queue interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}
