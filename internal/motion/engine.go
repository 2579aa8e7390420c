package motion

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tcode-works/motioncore/internal/axis"
)

// Output receives encoded command lines. Implementations add their own
// framing (the line carries no terminator).
type Output interface {
	WriteLine(line string) error
}

// Telemetry receives execution measurements. All methods must be
// non-blocking; a nil Telemetry disables recording.
type Telemetry interface {
	RecordAxisValue(axisName string, value float64)
	RecordMovement(id string, outcome string, duration time.Duration)
	RecordQueueDepth(depth int)
}

// Logger is the logging interface the engine uses. It matches the
// levelled slog-style signature used across the service.
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

// Movement outcomes reported to Telemetry.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

// Engine executes movement batches against an axis registry at a fixed
// tick frequency, serialising them through a FIFO queue. All methods
// are safe for concurrent use; concurrent Move calls queue up and run
// one at a time.
type Engine struct {
	registry  *axis.Registry
	queue     *queue
	frequency float64
	period    time.Duration

	mu          sync.RWMutex
	outputs     []Output
	defaultAxis string

	telemetry Telemetry
	logger    Logger
}

// Options configures a new Engine.
type Options struct {
	// Frequency is the tick rate in Hz. Must be finite and positive.
	Frequency float64

	// DefaultAxis, when set, receives requests that omit an axis name.
	DefaultAxis string

	// Telemetry is optional.
	Telemetry Telemetry

	// Logger is optional; a no-op logger is used when nil.
	Logger Logger
}

// New creates an Engine over the given registry.
func New(registry *axis.Registry, opts Options) (*Engine, error) {
	if opts.Frequency <= 0 || math.IsInf(opts.Frequency, 0) || math.IsNaN(opts.Frequency) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrequency, opts.Frequency)
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{
		registry:    registry,
		queue:       newQueue(),
		frequency:   opts.Frequency,
		period:      time.Duration(float64(time.Second) / opts.Frequency),
		defaultAxis: opts.DefaultAxis,
		telemetry:   opts.Telemetry,
		logger:      logger,
	}, nil
}

// Registry returns the axis registry the engine executes against.
func (e *Engine) Registry() *axis.Registry { return e.registry }

// ConfigureAxis adds or replaces an axis definition.
func (e *Engine) ConfigureAxis(ctx context.Context, cfg axis.Config) error {
	return e.registry.Configure(ctx, cfg)
}

// GetAxis returns the configuration of an axis by name or alias.
func (e *Engine) GetAxis(name string) (axis.Config, error) {
	return e.registry.Get(name)
}

// UpdateLimits narrows or widens the output window of an axis.
func (e *Engine) UpdateLimits(ctx context.Context, name string, lo, hi float64) error {
	return e.registry.UpdateLimits(ctx, name, lo, hi)
}

// Frequency returns the tick rate in Hz.
func (e *Engine) Frequency() float64 { return e.frequency }

// Period returns the duration of one tick.
func (e *Engine) Period() time.Duration { return e.period }

// QueueDepth returns the number of queued and executing movements.
func (e *Engine) QueueDepth() int { return e.queue.depth() }

// SetDefaultAxis changes the axis used by requests without an axis
// name. The name must resolve; an empty name clears the default.
func (e *Engine) SetDefaultAxis(name string) error {
	if name != "" {
		canonical, err := e.registry.Resolve(name)
		if err != nil {
			return err
		}
		name = canonical
	}
	e.mu.Lock()
	e.defaultAxis = name
	e.mu.Unlock()
	return nil
}

// DefaultAxis returns the canonical name of the default axis, or "".
func (e *Engine) DefaultAxis() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.defaultAxis
}

// AddOutput registers an output for subsequent command lines.
func (e *Engine) AddOutput(o Output) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outputs = append(e.outputs, o)
}

// RemoveOutput unregisters a previously added output.
func (e *Engine) RemoveOutput(o Output) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, existing := range e.outputs {
		if existing == o {
			e.outputs = append(e.outputs[:i], e.outputs[i+1:]...)
			return
		}
	}
}

func (e *Engine) currentOutputs() []Output {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Output, len(e.outputs))
	copy(out, e.outputs)
	return out
}

// Move validates, queues and executes a movement batch. The batch waits
// its turn in the FIFO queue, then all its axes step together.
//
// Move returns (true, nil) when the batch ran to completion and
// (false, nil) when it was cancelled by Stop before or during
// execution. Validation and write failures return an error.
func (e *Engine) Move(ctx context.Context, reqs ...Request) (bool, error) {
	normalized, err := validateBatch(reqs, e.registry, e.DefaultAxis())
	if err != nil {
		return false, err
	}

	id := uuid.NewString()
	e.queue.enqueue(id)
	e.recordQueueDepth()
	e.logger.Debug("movement queued", "id", id, "axes", len(normalized))

	admitted, err := e.waitTurn(ctx, id)
	if err != nil || !admitted {
		e.recordQueueDepth()
		return false, err
	}
	defer func() {
		e.queue.release(id)
		e.recordQueueDepth()
	}()

	// Origins are read only now, after admission, so each batch departs
	// from wherever the previous one left the axes.
	cfgs := make(map[string]axis.Config, len(normalized))
	for _, r := range normalized {
		cfg, err := e.registry.Get(r.Axis)
		if err != nil {
			return false, fmt.Errorf("%w: axis %q: %w", ErrInvalidMovement, r.Axis, err)
		}
		cfgs[r.Axis] = cfg
	}

	movements := planBatch(normalized, cfgs, e.frequency)
	for _, m := range movements {
		bindProvider(m)
	}

	exec := &executor{
		registry:  e.registry,
		queue:     e.queue,
		frequency: e.frequency,
		period:    e.period,
		outputs:   e.currentOutputs,
		telemetry: e.telemetry,
		logger:    e.logger,
	}

	start := time.Now()
	ok, err := exec.run(ctx, id, movements)
	e.recordMovement(id, ok, err, time.Since(start))
	if flushErr := e.registry.FlushValues(context.Background()); flushErr != nil {
		e.logger.Warn("axis value flush failed", "error", flushErr)
	}
	return ok, err
}

// waitTurn polls until the movement reaches the head of the queue. It
// returns false when the movement was cancelled while waiting.
func (e *Engine) waitTurn(ctx context.Context, id string) (bool, error) {
	for {
		if !e.queue.contains(id) {
			return false, nil
		}
		if e.queue.tryAcquire(id) {
			return true, nil
		}
		select {
		case <-ctx.Done():
			e.queue.release(id)
			return false, ctx.Err()
		case <-time.After(e.period):
		}
	}
}

// Home moves every linear and rotation axis to midpoint at half speed.
func (e *Engine) Home(ctx context.Context) (bool, error) {
	axes := e.registry.ListByTypes(axis.TypeLinear, axis.TypeRotation)
	if len(axes) == 0 {
		return true, nil
	}
	to := axis.Number(0.5)
	speed := 0.5
	reqs := make([]Request, len(axes))
	for i, a := range axes {
		reqs[i] = Request{Axis: a.Name, To: &to, Speed: &speed}
	}
	return e.Move(ctx, reqs...)
}

// Stop cancels the executing movement and discards everything queued
// behind it, in one atomic step. Pending Move calls return false.
func (e *Engine) Stop() {
	e.queue.clear()
	e.recordQueueDepth()
	e.logger.Info("movement queue stopped")
}

// Sleep suspends the caller, honouring context cancellation. Fractional
// seconds are supported.
func (e *Engine) Sleep(ctx context.Context, seconds float64) error {
	if seconds <= 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(seconds * float64(time.Second))):
		return nil
	}
}

func (e *Engine) recordQueueDepth() {
	if e.telemetry != nil {
		e.telemetry.RecordQueueDepth(e.queue.depth())
	}
}

func (e *Engine) recordMovement(id string, ok bool, err error, elapsed time.Duration) {
	outcome := OutcomeCompleted
	switch {
	case err != nil:
		outcome = OutcomeFailed
	case !ok:
		outcome = OutcomeCancelled
	}
	e.logger.Debug("movement finished", "id", id, "outcome", outcome, "elapsed", elapsed)
	if e.telemetry != nil {
		e.telemetry.RecordMovement(id, outcome, elapsed)
	}
}
