package flume

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// Retry wraps a pipe and re-invokes it when it aborts the chain, up to
// maxAttempts total attempts. The engine itself never retries; retry is a
// pipe's responsibility, and this wrapper is that pipe.
//
// Only protocol aborts (the inner pipe continuing with a non-nil error)
// trigger a retry. Each attempt receives the same input value. Context
// cancellation is honored between attempts and during the optional delay.
type Retry[T any] struct {
	pipe        Pipe[T]
	clock       clockz.Clock
	name        Name
	delay       time.Duration
	maxAttempts int
	mu          sync.RWMutex
}

// NewRetry creates a new Retry wrapper. maxAttempts values below one are
// clamped to one.
func NewRetry[T any](name Name, pipe Pipe[T], maxAttempts int) *Retry[T] {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Retry[T]{
		name:        name,
		pipe:        pipe,
		maxAttempts: maxAttempts,
	}
}

// WithDelay sets a fixed delay between attempts.
func (r *Retry[T]) WithDelay(d time.Duration) *Retry[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delay = d
	return r
}

// WithClock sets a custom clock, primarily for testing with fake clocks.
func (r *Retry[T]) WithClock(clock clockz.Clock) *Retry[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = clock
	return r
}

// Name returns the name of this wrapper.
func (r *Retry[T]) Name() Name {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.name
}

func (r *Retry[T]) getClock() clockz.Clock {
	if r.clock == nil {
		return clockz.RealClock
	}
	return r.clock
}

// Pipe returns the retrying pipe.
func (r *Retry[T]) Pipe() Pipe[T] {
	return func(ctx context.Context, value T, next Next[T]) {
		r.attempt(ctx, value, next, 1)
	}
}

func (r *Retry[T]) attempt(ctx context.Context, value T, next Next[T], n int) {
	r.mu.RLock()
	pipe := r.pipe
	maxAttempts := r.maxAttempts
	delay := r.delay
	clock := r.getClock()
	r.mu.RUnlock()

	pipe(ctx, value, func(err error) {
		if err == nil {
			next(nil)
			return
		}
		if n >= maxAttempts || ctx.Err() != nil {
			next(err)
			return
		}
		if delay <= 0 {
			r.attempt(ctx, value, next, n+1)
			return
		}
		go func() {
			select {
			case <-clock.After(delay):
				r.attempt(ctx, value, next, n+1)
			case <-ctx.Done():
				next(ctx.Err())
			}
		}()
	})
}
