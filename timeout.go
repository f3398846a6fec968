package flume

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// Timeout wraps a pipe with a hard time limit. If the inner pipe has not
// continued the chain when the timer fires, the chain is aborted with a
// deadline error and the inner context is canceled.
//
// The base performer contract has no cancellation path, so a timeout is
// layered exactly this way: the timer races the real work, and whichever
// fires first wins. The continuation is guarded so that a late completion
// from the loser can never invoke next a second time.
//
// The wrapped pipe should respect context cancellation; work that ignores
// it may keep running in the background after the abort.
type Timeout[T any] struct {
	pipe     Pipe[T]
	clock    clockz.Clock
	name     Name
	duration time.Duration
	mu       sync.RWMutex
}

// NewTimeout creates a new Timeout wrapper around pipe.
func NewTimeout[T any](name Name, pipe Pipe[T], duration time.Duration) *Timeout[T] {
	return &Timeout[T]{
		name:     name,
		pipe:     pipe,
		duration: duration,
	}
}

// WithClock sets a custom clock, primarily for testing with fake clocks.
func (t *Timeout[T]) WithClock(clock clockz.Clock) *Timeout[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clock = clock
	return t
}

// SetDuration updates the timeout duration.
func (t *Timeout[T]) SetDuration(d time.Duration) *Timeout[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.duration = d
	return t
}

// GetDuration returns the current timeout duration.
func (t *Timeout[T]) GetDuration() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.duration
}

// Name returns the name of this wrapper.
func (t *Timeout[T]) Name() Name {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.name
}

func (t *Timeout[T]) getClock() clockz.Clock {
	if t.clock == nil {
		return clockz.RealClock
	}
	return t.clock
}

// Pipe returns the timeout-guarded pipe.
func (t *Timeout[T]) Pipe() Pipe[T] {
	return func(ctx context.Context, value T, next Next[T]) {
		t.mu.RLock()
		pipe := t.pipe
		duration := t.duration
		clock := t.getClock()
		t.mu.RUnlock()

		ctx, cancel := context.WithCancel(ctx)

		var once sync.Once
		forward := func(err error) {
			once.Do(func() {
				cancel()
				next(err)
			})
		}

		start := time.Now()
		timer := clock.After(duration)
		go func() {
			select {
			case <-timer:
				forward(&Error[T]{
					Err:       context.DeadlineExceeded,
					InputData: value,
					Path:      []Name{t.name},
					Timeout:   true,
					Timestamp: time.Now(),
					Duration:  time.Since(start),
				})
			case <-ctx.Done():
				// Inner pipe continued first, or the caller canceled.
			}
		}()

		pipe(ctx, value, forward)
	}
}
