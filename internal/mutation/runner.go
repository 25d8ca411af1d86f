package mutation

import (
	"context"
	"sync"

	"taskmaster/internal/cache"
)

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

// Op performs one write against the backend.
type Op func(ctx context.Context) error

// Runner executes a single kind of write and tracks its lifecycle. On
// success it invalidates the declared cache keys without awaiting the
// refetch; on failure nothing is invalidated and the error stays readable
// until the next run. Writes are never retried.
type Runner struct {
	mu     sync.Mutex
	cache  *cache.Cache
	status Status
	err    error
}

func NewRunner(c *cache.Cache) *Runner {
	return &Runner{cache: c}
}

func (r *Runner) Do(ctx context.Context, op Op, invalidates ...cache.Key) error {
	r.mu.Lock()
	r.status = StatusPending
	r.err = nil
	r.mu.Unlock()

	if err := op(ctx); err != nil {
		r.mu.Lock()
		r.status = StatusError
		r.err = err
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	r.status = StatusSuccess
	r.mu.Unlock()

	for _, key := range invalidates {
		r.cache.Invalidate(key)
	}
	return nil
}

func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Runner) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
