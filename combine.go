package flume

import "context"

// CombineNext returns a Next that invokes every non-nil element in order
// with the same error. The fan-out is sequential, not fault-isolated: a
// panicking element aborts the remaining invocations and propagates.
func CombineNext[T any](nexts ...Next[T]) Next[T] {
	return func(err error) {
		for _, n := range nexts {
			if n != nil {
				n(err)
			}
		}
	}
}

// CombinePipes returns a pipe that invokes the given pipes in order,
// threading a synthetic next between them. Each pipe's successful
// continuation (a nil error) invokes the following pipe; a non-nil error
// short-circuits directly to the outer next, skipping the remaining
// pipes. This is what gives pipes veto power over chain continuation.
//
// Nil pipes are skipped. Combining zero pipes yields a passthrough that
// immediately invokes next with a nil error.
func CombinePipes[T any](pipes ...Pipe[T]) Pipe[T] {
	compact := make([]Pipe[T], 0, len(pipes))
	for _, p := range pipes {
		if p != nil {
			compact = append(compact, p)
		}
	}
	return func(ctx context.Context, value T, next Next[T]) {
		runPipesFrom(ctx, compact, 0, value, next)
	}
}

func runPipesFrom[T any](ctx context.Context, pipes []Pipe[T], i int, value T, next Next[T]) {
	if i >= len(pipes) {
		next(nil)
		return
	}
	pipes[i](ctx, value, func(err error) {
		if err != nil {
			next(err)
			return
		}
		runPipesFrom(ctx, pipes, i+1, value, next)
	})
}

// CombineInterceptors returns an Interceptor that runs each body in
// order. Interceptors cannot abort, so this is N side effects back to
// back; a panic aborts the remaining bodies and propagates to the caller.
func CombineInterceptors[T any](interceptors ...Interceptor[T]) Interceptor[T] {
	return func(ctx context.Context, value T) {
		for _, it := range interceptors {
			if it != nil {
				it(ctx, value)
			}
		}
	}
}

// Pipe lowers the interceptor into the Pipe contract: the body runs, then
// next is invoked with a nil error. A panicking body never reaches next.
func (it Interceptor[T]) Pipe() Pipe[T] {
	return func(ctx context.Context, value T, next Next[T]) {
		it(ctx, value)
		next(nil)
	}
}

// Next lowers the catcher into the Next contract: nil errors are ignored,
// non-nil errors are handed to the catcher.
func (c Catcher[T]) Next() Next[T] {
	return func(err error) {
		if err != nil {
			c(err)
		}
	}
}
