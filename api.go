// Package flume provides the continuation-passing pipeline core for
// extensible HTTP clients in Go.
//
// # Overview
//
// flume models a client call as a chain of pipes driven by explicit
// continuations. A pipe receives a value and a "next" callback and decides
// whether, and when, to continue the chain. All I/O behavior is injected
// through middleware at configuration time; the engine itself never
// performs network operations and never inspects the values it carries.
//
// # Core Concepts
//
// The library is built around four capability roles:
//
//	Next[T]        func(err error)                  // resume or abort
//	Pipe[T]        func(ctx, T, Next[T])            // may veto continuation
//	Interceptor[T] func(ctx, T)                     // always continues
//	Catcher[T]     func(err error)                  // reacts to aborts only
//
// Interceptor and Catcher are not subtypes of Pipe and Next; they are
// distinct constructors that get lowered into the Pipe/Next contract at
// combination time via Interceptor.Pipe and Catcher.Next.
//
// A Pipeline[T] is a mutable cursor over exactly two fields, the current
// pipe and the current next. Use, Peek, Intercept, Then, and Catch extend
// the chain non-destructively through combinator composition; Inject
// applies a Middleware, which attaches whatever pipes and catchers it
// needs. Configuration must complete before execution begins.
//
// # Execution
//
// A Performer runs the configured chain and waits, without busy-waiting,
// until the chain's completion callback has fired exactly once:
//
//	p := flume.NewPipeline[*Call]("fetch")
//	p.Inject(transport)
//	p.Catch(func(err error) { log.Println(err) })
//	err := p.Run(ctx, call)
//
// Pipes may complete asynchronously: a pipe can return immediately after
// registering a completion that calls next from whatever goroutine the
// work finishes on. The Performer's wait discipline makes the overall run
// synchronous from the caller's point of view. Two implementations ship
// with the package, WaitPerformer (condition-variable blocking) and
// ChannelPerformer (channel wait); both enforce the same exactly-once
// contract and are freely substitutable.
//
// # Error Handling
//
// Calling next with a non-nil error is the only sanctioned way to signal
// failure; it short-circuits the remaining pipes and routes the error to
// every catcher attached via Then or Catch. A panic inside a pipe is a
// distinct, unmanaged failure: it is never routed to catchers. Run
// recovers it, completes the performer wait, and returns it as an
// *Error[T].
//
// # Observability
//
// Each Pipeline carries its own metrics registry, tracer, and event hooks,
// following the same wiring as the rest of the zoobzio stack. See the
// Pipeline documentation for the emitted keys.
package flume

import "context"

// Name identifies pipelines and pipes in errors, metrics, and traces.
// Using this type encourages storing names as constants rather than
// inline strings.
type Name = string

// Next is the continuation passed through a pipeline. Invoking it with a
// nil error continues the chain; invoking it with a non-nil error
// terminates forward progress and routes the error to catch handling.
//
// A Next must be invoked at most once per run. The Performer enforces
// this at the tail; intermediate pipes that race completions (timers
// against real work) must guard against double invocation themselves.
type Next[T any] func(err error)

// Pipe is a chain link. It receives the value being processed and the
// continuation for the rest of the chain, and decides whether and when to
// invoke next. A pipe may perform asynchronous work and call next from
// another goroutine after returning.
type Pipe[T any] func(ctx context.Context, value T, next Next[T])

// Interceptor is a non-aborting chain link: after its body returns
// normally, the chain always continues. An interceptor cannot veto
// continuation; if its body panics, the panic propagates to the host call
// rather than being routed to next.
type Interceptor[T any] func(ctx context.Context, value T)

// Catcher reacts to error continuations only. Lowered via Next, it is a
// no-op on the success path.
type Catcher[T any] func(err error)

// Middleware attaches pipes, interceptors, and catchers to a pipeline at
// configuration time. Inject is synchronous and runs before any
// execution; it never defers work into request processing.
//
// The framework does not deduplicate repeated injection of the same
// middleware. Middleware that must be idempotent under double injection
// should hold a single stored pipe value and re-register that value, as
// httpware.Transport does.
type Middleware[T any] interface {
	Inject(p *Pipeline[T])
}

// MiddlewareFunc adapts a plain function to the Middleware interface.
type MiddlewareFunc[T any] func(p *Pipeline[T])

// Inject implements Middleware.
func (f MiddlewareFunc[T]) Inject(p *Pipeline[T]) { f(p) }
