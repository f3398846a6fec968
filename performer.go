package flume

import (
	"errors"
	"sync"
)

// Performer contract violations. These are programming errors, signaled
// by panicking with the matching sentinel at the violation site. They are
// never retried or suppressed.
var (
	// ErrCallbackRegistered is raised when a second completion callback
	// is registered for the same run.
	ErrCallbackRegistered = errors.New("flume: completion callback already registered")

	// ErrCallbackMissing is raised when the block is invoked before a
	// completion callback was registered.
	ErrCallbackMissing = errors.New("flume: block invoked before completion callback was registered")

	// ErrBlockRestarted is raised when the block is invoked a second time.
	ErrBlockRestarted = errors.New("flume: block invoked twice")

	// ErrCallbackReinvoked is raised when the completion callback is
	// invoked a second time.
	ErrCallbackReinvoked = errors.New("flume: completion callback invoked twice")
)

// Performer runs a pipeline's execution block and does not return until
// the block's completion callback has been invoked exactly once.
//
// Perform first calls register with the callback the block must
// eventually fire (possibly from another goroutine), then invokes block
// exactly once, then waits. The state machine per invocation is
//
//	NotStarted -> CallbackReady -> BlockRunning -> Done
//
// and every transition out of order is a contract violation (see the
// sentinel errors above). The base contract defines no timeout or
// cancellation path; a caller wanting one must layer it inside the block
// while still honoring the callback-exactly-once invariant.
//
// WaitPerformer and ChannelPerformer are the built-in implementations.
// Callers must not assume which one is active.
type Performer interface {
	Perform(register func(callback func()), block func())
}

// PerformContract enforces the performer state machine. Custom Performer
// implementations embed one per invocation so that all implementations
// fail fast on the same violations.
type PerformContract struct {
	mu         sync.Mutex
	registered bool
	blockRun   bool
	done       bool
	notify     func()
}

// NewPerformContract returns a contract whose guarded callback invokes
// notify after the done flag is set. notify is called at most once.
func NewPerformContract(notify func()) *PerformContract {
	return &PerformContract{notify: notify}
}

// Callback returns the guarded completion callback. Calling Callback a
// second time panics with ErrCallbackRegistered; invoking the returned
// function a second time panics with ErrCallbackReinvoked.
func (c *PerformContract) Callback() func() {
	c.mu.Lock()
	if c.registered {
		c.mu.Unlock()
		panic(ErrCallbackRegistered)
	}
	c.registered = true
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		if c.done {
			c.mu.Unlock()
			panic(ErrCallbackReinvoked)
		}
		c.done = true
		c.mu.Unlock()
		c.notify()
	}
}

// RunBlock invokes block once. It panics with ErrCallbackMissing if no
// callback was registered yet and with ErrBlockRestarted on a second run.
func (c *PerformContract) RunBlock(block func()) {
	c.mu.Lock()
	if !c.registered {
		c.mu.Unlock()
		panic(ErrCallbackMissing)
	}
	if c.blockRun {
		c.mu.Unlock()
		panic(ErrBlockRestarted)
	}
	c.blockRun = true
	c.mu.Unlock()
	block()
}

// Done reports whether the completion callback has fired.
func (c *PerformContract) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// WaitPerformer blocks the calling goroutine on a condition variable
// until the completion callback fires. The wait loop re-checks the done
// flag to guard against spurious wakeups, so the block may fire the
// callback from any goroutine.
type WaitPerformer struct{}

// Perform implements Performer.
func (WaitPerformer) Perform(register func(callback func()), block func()) {
	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	fired := false

	contract := NewPerformContract(func() {
		mu.Lock()
		fired = true
		cond.Broadcast()
		mu.Unlock()
	})

	register(contract.Callback())
	contract.RunBlock(block)

	mu.Lock()
	for !fired {
		cond.Wait()
	}
	mu.Unlock()
}

// ChannelPerformer parks the calling goroutine on a channel until the
// completion callback fires. Same contract as WaitPerformer, different
// wait primitive; the two are freely substitutable.
type ChannelPerformer struct{}

// Perform implements Performer.
func (ChannelPerformer) Perform(register func(callback func()), block func()) {
	done := make(chan struct{})

	contract := NewPerformContract(func() {
		close(done)
	})

	register(contract.Callback())
	contract.RunBlock(block)

	<-done
}
