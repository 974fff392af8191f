// Package worker provides a bounded pool for offloading blocking store
// operations away from the connection-handling goroutines.
package worker

import (
	"context"
	"sync"
)

// Task is one unit of offloaded work.
type Task func(ctx context.Context) (string, error)

type result struct {
	value string
	err   error
}

type job struct {
	ctx context.Context
	fn  Task
	out chan result
}

// Pool runs submitted tasks on a fixed set of goroutines. No ordering is
// guaranteed between independent submissions; the store's own concurrency
// control is what provides correctness.
type Pool struct {
	jobs      chan job
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewPool starts size workers with a queue of depth pending jobs.
func NewPool(size, depth int) *Pool {
	if size < 1 {
		size = 1
	}
	if depth < 0 {
		depth = 0
	}

	p := &Pool{jobs: make(chan job, depth)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for j := range p.jobs {
		if err := j.ctx.Err(); err != nil {
			j.out <- result{err: err}
			continue
		}
		value, err := j.fn(j.ctx)
		j.out <- result{value: value, err: err}
	}
}

// Submit runs fn on a pool worker and waits for its outcome. The result or
// error is propagated unchanged. The wait is cooperative: a cancelled ctx
// abandons the wait, though an already-started task runs to completion.
func (p *Pool) Submit(ctx context.Context, fn Task) (string, error) {
	out := make(chan result, 1)

	select {
	case p.jobs <- job{ctx: ctx, fn: fn, out: out}:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case r := <-out:
		return r.value, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close stops accepting work and waits for in-flight tasks to finish.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.jobs)
		p.wg.Wait()
	})
}
