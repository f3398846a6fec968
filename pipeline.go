package flume

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for Pipeline.
const (
	// Metrics.
	PipelineRunsTotal      = metricz.Key("pipeline.runs.total")
	PipelineSuccessesTotal = metricz.Key("pipeline.successes.total")
	PipelineAbortsTotal    = metricz.Key("pipeline.aborts.total")
	PipelinePanicsTotal    = metricz.Key("pipeline.panics.total")
	PipelineDurationMs     = metricz.Key("pipeline.duration.ms")

	// Spans.
	PipelineRunSpan = tracez.Key("pipeline.run")

	// Tags.
	PipelineTagSuccess = tracez.Tag("pipeline.success")
	PipelineTagError   = tracez.Tag("pipeline.error")

	// Hook event keys.
	PipelineEventRunComplete = hookz.Key("pipeline.run_complete")
	PipelineEventAbort       = hookz.Key("pipeline.abort")
)

// RunEvent describes the outcome of one pipeline run. It is emitted via
// hookz when a run completes and, additionally, when a run aborts through
// a protocol error.
type RunEvent struct {
	Name      Name          // Pipeline name
	Err       error         // Abort or panic error, nil on success
	Success   bool          // Whether the run completed without error
	Duration  time.Duration // How long the run took
	Timestamp time.Time     // When the event occurred
}

// Pipeline is the mutable cursor a call is configured and executed
// through. It holds exactly two chain fields, the current pipe and the
// current next, both always non-nil: the pipe defaults to a passthrough
// that immediately continues and the next defaults to a no-op.
//
// Configuration (Use, Peek, Intercept, Then, Catch, Inject) extends the
// chain through combinator composition and must complete before execution
// begins; the cursor is not safe for concurrent mutation, and a cursor
// must be consumed by exactly one in-flight run at a time.
//
// # Observability
//
// Metrics:
//   - pipeline.runs.total: Counter of runs
//   - pipeline.successes.total: Counter of clean completions
//   - pipeline.aborts.total: Counter of protocol aborts
//   - pipeline.panics.total: Counter of recovered pipe panics
//   - pipeline.duration.ms: Gauge of last run duration
//
// Traces:
//   - pipeline.run: Span covering one run
//
// Events (via hooks):
//   - pipeline.run_complete: Fired at the end of every run
//   - pipeline.abort: Fired when a run aborts via next(err)
type Pipeline[T any] struct {
	name    Name
	pipe    Pipe[T]
	next    Next[T]
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[RunEvent]
}

// NewPipeline creates an empty pipeline cursor. The zero chain is a
// passthrough: running it completes immediately with no error.
func NewPipeline[T any](name Name) *Pipeline[T] {
	metrics := metricz.New()
	metrics.Counter(PipelineRunsTotal)
	metrics.Counter(PipelineSuccessesTotal)
	metrics.Counter(PipelineAbortsTotal)
	metrics.Counter(PipelinePanicsTotal)
	metrics.Gauge(PipelineDurationMs)

	return &Pipeline[T]{
		name:    name,
		pipe:    func(_ context.Context, _ T, next Next[T]) { next(nil) },
		next:    func(error) {},
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[RunEvent](),
	}
}

// Name returns the pipeline's name.
func (p *Pipeline[T]) Name() Name { return p.name }

// Pipe returns the current composed pipe.
func (p *Pipeline[T]) Pipe() Pipe[T] { return p.pipe }

// Next returns the current composed tail next.
func (p *Pipeline[T]) Next() Next[T] { return p.next }

// Use appends pipes to the chain. Pipes run in call order, strictly after
// everything previously configured; composition is FIFO, first attached
// first executed.
func (p *Pipeline[T]) Use(pipes ...Pipe[T]) *Pipeline[T] {
	p.pipe = CombinePipes(append([]Pipe[T]{p.pipe}, pipes...)...)
	return p
}

// Peek appends read-only observers of the value flowing through the
// chain. Observers cannot abort; they run in chain position like any
// other pipe.
func (p *Pipeline[T]) Peek(observers ...func(value T)) *Pipeline[T] {
	pipes := make([]Pipe[T], len(observers))
	for i, obs := range observers {
		fn := obs
		pipes[i] = Interceptor[T](func(_ context.Context, value T) { fn(value) }).Pipe()
	}
	return p.Use(pipes...)
}

// Intercept appends interceptors, lowered into the pipe chain. An
// interceptor always continues after its body returns.
func (p *Pipeline[T]) Intercept(interceptors ...Interceptor[T]) *Pipeline[T] {
	pipes := make([]Pipe[T], len(interceptors))
	for i, it := range interceptors {
		pipes[i] = it.Pipe()
	}
	return p.Use(pipes...)
}

// Then appends tail continuations. They run in call order, exactly once
// per run, after the entire pipe chain has completed or aborted.
func (p *Pipeline[T]) Then(nexts ...Next[T]) *Pipeline[T] {
	p.next = CombineNext(append([]Next[T]{p.next}, nexts...)...)
	return p
}

// Catch appends catchers to the tail. A catcher only reacts to aborts; it
// does not participate in the success path.
func (p *Pipeline[T]) Catch(catchers ...Catcher[T]) *Pipeline[T] {
	nexts := make([]Next[T], len(catchers))
	for i, c := range catchers {
		nexts[i] = c.Next()
	}
	return p.Then(nexts...)
}

// Inject applies middleware to this pipeline. Injection is synchronous
// and happens entirely at configuration time. Injecting the same
// middleware twice double-registers unless the middleware itself
// deduplicates; the framework does not.
func (p *Pipeline[T]) Inject(middleware ...Middleware[T]) *Pipeline[T] {
	for _, mw := range middleware {
		mw.Inject(p)
	}
	return p
}

// Run executes the configured chain with the default WaitPerformer.
func (p *Pipeline[T]) Run(ctx context.Context, value T) error {
	return p.RunWith(ctx, WaitPerformer{}, value)
}

// RunWith executes the configured chain under the given performer and
// returns once the chain has completed or aborted.
//
// A protocol abort (a pipe invoking next with a non-nil error) is routed
// to the configured catchers and returned as an *Error[T]. A panic inside
// a pipe is not shown to catchers: it is recovered, the performer wait is
// completed, and the panic is returned as an *Error[T].
func (p *Pipeline[T]) RunWith(ctx context.Context, performer Performer, value T) (err error) {
	pipe := p.pipe
	tail := p.next

	if ctx == nil {
		ctx = context.Background()
	}

	p.metrics.Counter(PipelineRunsTotal).Inc()
	start := time.Now()

	ctx, span := p.tracer.StartSpan(ctx, PipelineRunSpan)
	defer func() {
		elapsed := time.Since(start)
		p.metrics.Gauge(PipelineDurationMs).Set(float64(elapsed.Milliseconds()))
		if err == nil {
			span.SetTag(PipelineTagSuccess, "true")
			p.metrics.Counter(PipelineSuccessesTotal).Inc()
		} else {
			span.SetTag(PipelineTagSuccess, "false")
			span.SetTag(PipelineTagError, err.Error())
		}
		span.Finish()

		_ = p.hooks.Emit(ctx, PipelineEventRunComplete, RunEvent{ //nolint:errcheck
			Name:      p.name,
			Err:       err,
			Success:   err == nil,
			Duration:  elapsed,
			Timestamp: time.Now(),
		})
	}()

	var (
		done     func()
		abort    error
		panicked error
		finished atomic.Bool
	)

	performer.Perform(
		func(callback func()) {
			done = callback
		},
		func() {
			defer func() {
				if r := recover(); r != nil {
					panicked = fmt.Errorf("panic in pipe: %v", r)
					if !finished.Load() {
						finished.Store(true)
						done()
					}
				}
			}()
			pipe(ctx, value, func(e error) {
				if e != nil {
					abort = e
				}
				tail(e)
				finished.Store(true)
				done()
			})
		},
	)

	switch {
	case panicked != nil:
		p.metrics.Counter(PipelinePanicsTotal).Inc()
		return wrapError(p.name, panicked, value, start)
	case abort != nil:
		p.metrics.Counter(PipelineAbortsTotal).Inc()
		_ = p.hooks.Emit(ctx, PipelineEventAbort, RunEvent{ //nolint:errcheck
			Name:      p.name,
			Err:       abort,
			Success:   false,
			Duration:  time.Since(start),
			Timestamp: time.Now(),
		})
		return wrapError(p.name, abort, value, start)
	default:
		return nil
	}
}

// Metrics returns the metrics registry for this pipeline.
func (p *Pipeline[T]) Metrics() *metricz.Registry {
	return p.metrics
}

// Tracer returns the tracer for this pipeline.
func (p *Pipeline[T]) Tracer() *tracez.Tracer {
	return p.tracer
}

// Close gracefully shuts down observability components.
func (p *Pipeline[T]) Close() error {
	if p.tracer != nil {
		p.tracer.Close()
	}
	p.hooks.Close()
	return nil
}

// OnRunComplete registers a handler fired at the end of every run,
// successful or not.
func (p *Pipeline[T]) OnRunComplete(handler func(context.Context, RunEvent) error) error {
	_, err := p.hooks.Hook(PipelineEventRunComplete, handler)
	return err
}

// OnAbort registers a handler fired when a run aborts via next(err).
func (p *Pipeline[T]) OnAbort(handler func(context.Context, RunEvent) error) error {
	_, err := p.hooks.Hook(PipelineEventAbort, handler)
	return err
}
