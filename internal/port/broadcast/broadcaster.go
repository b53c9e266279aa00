// Package broadcast defines the real-time client broadcast port.
package broadcast

import "context"

// Broadcaster pushes typed events to connected dashboard clients.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}
