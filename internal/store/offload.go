package store

import (
	"context"

	"shortlink/internal/worker"
)

// Offloaded decorates a store so every operation runs on a worker pool
// instead of the calling goroutine. Used for the durable variants, whose
// operations perform blocking I/O that must not stall the connection
// handlers.
type Offloaded struct {
	inner URLStore
	pool  *worker.Pool
}

// NewOffloaded wraps inner so its calls are submitted to pool.
func NewOffloaded(inner URLStore, pool *worker.Pool) *Offloaded {
	return &Offloaded{inner: inner, pool: pool}
}

func (o *Offloaded) Allocate(ctx context.Context, fullURL string) (string, error) {
	return o.pool.Submit(ctx, func(ctx context.Context) (string, error) {
		return o.inner.Allocate(ctx, fullURL)
	})
}

func (o *Offloaded) Resolve(ctx context.Context, code string) (string, error) {
	return o.pool.Submit(ctx, func(ctx context.Context) (string, error) {
		return o.inner.Resolve(ctx, code)
	})
}

// Compile-time check: *Offloaded implements URLStore.
var _ URLStore = (*Offloaded)(nil)
