package flume

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Limit wraps a pipe with a cap on in-flight executions. The permit is
// held from before the inner pipe starts until it continues the chain, so
// the cap bounds concurrent work inside the wrapped pipe, typically a
// shared transport.
//
// Acquisition honors context cancellation; a canceled wait aborts the
// chain with the context's error. The release is guarded so an inner pipe
// that misbehaves and continues twice cannot release the permit twice.
type Limit[T any] struct {
	pipe Pipe[T]
	sem  *semaphore.Weighted
	name Name
}

// NewLimit creates a new Limit wrapper admitting at most max concurrent
// executions of pipe. max values below one are clamped to one.
func NewLimit[T any](name Name, pipe Pipe[T], max int64) *Limit[T] {
	if max < 1 {
		max = 1
	}
	return &Limit[T]{
		name: name,
		pipe: pipe,
		sem:  semaphore.NewWeighted(max),
	}
}

// Name returns the name of this wrapper.
func (l *Limit[T]) Name() Name { return l.name }

// Pipe returns the concurrency-limited pipe.
func (l *Limit[T]) Pipe() Pipe[T] {
	return func(ctx context.Context, value T, next Next[T]) {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			next(err)
			return
		}
		var once sync.Once
		l.pipe(ctx, value, func(err error) {
			once.Do(func() { l.sem.Release(1) })
			next(err)
		})
	}
}
