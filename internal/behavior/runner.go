package behavior

import (
	"context"
	"sync"
)

// Behavior is anything the runner can drive. A behavior that also
// implements Completed() bool stops the loop when it reports true;
// otherwise it runs until replaced or stopped.
type Behavior interface {
	Perform(ctx context.Context, eng Engine) error
}

// Logger is the logging interface the runner uses.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Runner drives one behavior at a time against the motion engine.
// Starting a new behavior preempts the current one: its context is
// cancelled and the engine's movement queue is stopped so an in-flight
// Move returns promptly.
type Runner struct {
	engine Engine
	logger Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner creates a runner over the engine. A nil logger disables
// logging.
func NewRunner(engine Engine, logger Logger) *Runner {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Runner{engine: engine, logger: logger}
}

// Do replaces the current behavior with b and drives it on a new
// goroutine until completion, error, preemption or parent context
// cancellation.
func (r *Runner) Do(ctx context.Context, b Behavior) {
	r.mu.Lock()
	r.preemptLocked()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	go func() {
		defer close(done)
		r.loop(runCtx, b)
	}()
}

func (r *Runner) loop(ctx context.Context, b Behavior) {
	completer, hasCompletion := b.(interface{ Completed() bool })
	for ctx.Err() == nil {
		if hasCompletion && completer.Completed() {
			r.logger.Debug("behavior completed")
			return
		}
		if err := b.Perform(ctx, r.engine); err != nil {
			r.logger.Error("behavior action failed", "error", err)
			return
		}
	}
}

// Stop cancels the current behavior and stops the engine's queue. It
// blocks until the behavior's goroutine has exited.
func (r *Runner) Stop() {
	r.mu.Lock()
	r.preemptLocked()
	r.cancel = nil
	r.done = nil
	r.mu.Unlock()
}

// Wait blocks until the current behavior finishes. It returns
// immediately when nothing is running.
func (r *Runner) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

// preemptLocked cancels and waits out the running behavior. Caller
// holds r.mu.
func (r *Runner) preemptLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	r.engine.Stop()
	<-r.done
}
