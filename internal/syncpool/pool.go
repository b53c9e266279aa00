// Package syncpool bounds concurrent webhook delivery processing.
package syncpool

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool limits how many webhook deliveries are synchronized at once
// using a weighted semaphore. Commits within one delivery stay strictly
// ordered; the pool only caps cross-delivery parallelism so a burst of
// redeliveries cannot exhaust database connections.
type Pool struct {
	sem *semaphore.Weighted
}

// New creates a Pool that allows at most limit concurrent deliveries.
func New(limit int) *Pool {
	if limit < 1 {
		limit = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(limit))}
}

// Run acquires a slot, runs fn, and releases the slot. Blocks while all
// slots are busy and returns ctx.Err() if the context is cancelled
// while waiting. A nil pool runs fn directly.
func (p *Pool) Run(ctx context.Context, fn func() error) error {
	if p == nil || p.sem == nil {
		return fn()
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn()
}
