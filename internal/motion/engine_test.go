package motion

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tcode-works/motioncore/internal/axis"
)

// captureOutput records every written line.
type captureOutput struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (c *captureOutput) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.lines = append(c.lines, line)
	return nil
}

func (c *captureOutput) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *captureOutput) waitForLines(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(c.snapshot()) >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d lines, have %d", n, len(c.snapshot()))
}

// recordingTelemetry counts telemetry calls.
type recordingTelemetry struct {
	mu        sync.Mutex
	values    int
	movements []string
	depths    []int
}

func (r *recordingTelemetry) RecordAxisValue(string, float64) {
	r.mu.Lock()
	r.values++
	r.mu.Unlock()
}

func (r *recordingTelemetry) RecordMovement(_ string, outcome string, _ time.Duration) {
	r.mu.Lock()
	r.movements = append(r.movements, outcome)
	r.mu.Unlock()
}

func (r *recordingTelemetry) RecordQueueDepth(depth int) {
	r.mu.Lock()
	r.depths = append(r.depths, depth)
	r.mu.Unlock()
}

func newTestRegistry(t *testing.T) *axis.Registry {
	t.Helper()
	reg := axis.NewRegistry(nil)
	ctx := context.Background()
	for _, cfg := range []axis.Config{
		{Name: "L0", Type: axis.TypeLinear, Alias: "stroke"},
		{Name: "R1", Type: axis.TypeRotation},
		{Name: "V0", Type: axis.TypeBoolean},
	} {
		if err := reg.Configure(ctx, cfg); err != nil {
			t.Fatalf("configuring %s: %v", cfg.Name, err)
		}
	}
	return reg
}

func newTestEngine(t *testing.T, freq float64) (*Engine, *captureOutput) {
	t.Helper()
	eng, err := New(newTestRegistry(t), Options{Frequency: freq})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out := &captureOutput{}
	eng.AddOutput(out)
	return eng, out
}

type moveResult struct {
	ok  bool
	err error
}

func TestNew_InvalidFrequency(t *testing.T) {
	for _, freq := range []float64{0, -50} {
		if _, err := New(axis.NewRegistry(nil), Options{Frequency: freq}); !errors.Is(err, ErrInvalidFrequency) {
			t.Errorf("New(freq=%v) error = %v, want ErrInvalidFrequency", freq, err)
		}
	}
}

func TestEngine_MoveCompletes(t *testing.T) {
	eng, out := newTestEngine(t, 200)

	to := axis.Number(1)
	ok, err := eng.Move(context.Background(), Request{Axis: "stroke", To: &to, Duration: fptr(0.05)})
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !ok {
		t.Fatal("Move() = false, want true")
	}

	lines := out.snapshot()
	if len(lines) != 10 {
		t.Errorf("wrote %d lines, want 10", len(lines))
	}
	if last := lines[len(lines)-1]; last != "L0999" {
		t.Errorf("final line = %q, want L0999", last)
	}

	cfg, err := eng.Registry().Get("L0")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if cfg.Value.Num != 1 {
		t.Errorf("committed value = %v, want 1", cfg.Value.Num)
	}
}

func TestEngine_InstantBooleanMove(t *testing.T) {
	eng, out := newTestEngine(t, 50)

	on := axis.Boolean(true)
	start := time.Now()
	ok, err := eng.Move(context.Background(), Request{Axis: "V0", To: &on})
	if err != nil || !ok {
		t.Fatalf("Move() = %v, %v", ok, err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("instant move took %v", elapsed)
	}

	lines := out.snapshot()
	if len(lines) != 1 || lines[0] != "V0999" {
		t.Errorf("lines = %v, want [V0999]", lines)
	}

	cfg, _ := eng.Registry().Get("V0")
	if !cfg.Value.On {
		t.Error("boolean value not committed")
	}
}

func TestEngine_InstantMovesPrecedeStepping(t *testing.T) {
	eng, out := newTestEngine(t, 200)

	to := axis.Number(1)
	on := axis.Boolean(true)
	ok, err := eng.Move(context.Background(),
		Request{Axis: "L0", To: &to, Duration: fptr(0.02)},
		Request{Axis: "V0", To: &on},
	)
	if err != nil || !ok {
		t.Fatalf("Move() = %v, %v", ok, err)
	}

	lines := out.snapshot()
	if len(lines) != 5 {
		t.Fatalf("wrote %d lines, want 5", len(lines))
	}
	if lines[0] != "V0999" {
		t.Errorf("first line = %q, want the instant boolean V0999", lines[0])
	}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, "L0") {
			t.Errorf("stepping line = %q, want L0 prefix", line)
		}
	}
}

func TestEngine_MovesDepartFromLastPosition(t *testing.T) {
	eng, _ := newTestEngine(t, 200)
	ctx := context.Background()

	to := axis.Number(0.8)
	if ok, err := eng.Move(ctx, Request{Axis: "L0", To: &to, Duration: fptr(0.02)}); err != nil || !ok {
		t.Fatalf("first Move() = %v, %v", ok, err)
	}

	back := axis.Number(0.3)
	if ok, err := eng.Move(ctx, Request{Axis: "L0", To: &back, Duration: fptr(0.02)}); err != nil || !ok {
		t.Fatalf("second Move() = %v, %v", ok, err)
	}

	cfg, _ := eng.Registry().Get("L0")
	if cfg.Value.Num != 0.3 {
		t.Errorf("value = %v, want 0.3", cfg.Value.Num)
	}
}

func TestEngine_StopCancelsExecuting(t *testing.T) {
	eng, out := newTestEngine(t, 100)

	to := axis.Number(1)
	results := make(chan moveResult, 1)
	go func() {
		ok, err := eng.Move(context.Background(), Request{Axis: "L0", To: &to, Duration: fptr(10)})
		results <- moveResult{ok, err}
	}()

	out.waitForLines(t, 2)
	eng.Stop()

	select {
	case r := <-results:
		if r.err != nil {
			t.Errorf("cancelled Move() error = %v, want nil", r.err)
		}
		if r.ok {
			t.Error("cancelled Move() = true, want false")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Move did not return after Stop")
	}

	// Progress made before the stop stays committed.
	cfg, _ := eng.Registry().Get("L0")
	if cfg.Value.Num <= 0.5 {
		t.Errorf("value = %v, want progress past 0.5", cfg.Value.Num)
	}
	if cfg.Value.Num == 1 {
		t.Error("movement ran to completion despite Stop")
	}
}

func TestEngine_StopCancelsQueued(t *testing.T) {
	eng, out := newTestEngine(t, 100)
	ctx := context.Background()

	to := axis.Number(1)
	first := make(chan moveResult, 1)
	go func() {
		ok, err := eng.Move(ctx, Request{Axis: "L0", To: &to, Duration: fptr(10)})
		first <- moveResult{ok, err}
	}()
	out.waitForLines(t, 1)

	second := make(chan moveResult, 1)
	go func() {
		ok, err := eng.Move(ctx, Request{Axis: "R1", To: &to, Duration: fptr(1)})
		second <- moveResult{ok, err}
	}()

	// Let the second movement reach the queue before stopping.
	deadline := time.Now().Add(2 * time.Second)
	for eng.QueueDepth() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if eng.QueueDepth() < 2 {
		t.Fatal("second movement never queued")
	}

	eng.Stop()

	for _, ch := range []chan moveResult{first, second} {
		select {
		case r := <-ch:
			if r.err != nil || r.ok {
				t.Errorf("cancelled Move() = %v, %v, want false, nil", r.ok, r.err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Move did not return after Stop")
		}
	}
	if eng.QueueDepth() != 0 {
		t.Errorf("queue depth = %d after Stop, want 0", eng.QueueDepth())
	}
}

func TestEngine_SerializesConcurrentMoves(t *testing.T) {
	eng, out := newTestEngine(t, 500)
	ctx := context.Background()
	to := axis.Number(1)

	var wg sync.WaitGroup
	for _, name := range []string{"L0", "R1"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if ok, err := eng.Move(ctx, Request{Axis: name, To: &to, Duration: fptr(0.02)}); err != nil || !ok {
				t.Errorf("Move(%s) = %v, %v", name, ok, err)
			}
		}(name)
	}
	wg.Wait()

	// One batch runs at a time, so lines never interleave across axes.
	transitions := 0
	var prev string
	for _, line := range out.snapshot() {
		prefix := line[:2]
		if prev != "" && prefix != prev {
			transitions++
		}
		prev = prefix
	}
	if transitions > 1 {
		t.Errorf("lines interleaved across %d transitions: %v", transitions, out.snapshot())
	}
}

func TestEngine_NoOutputFailsWrite(t *testing.T) {
	eng, err := New(newTestRegistry(t), Options{Frequency: 50})
	if err != nil {
		t.Fatal(err)
	}

	on := axis.Boolean(true)
	ok, moveErr := eng.Move(context.Background(), Request{Axis: "V0", To: &on})
	if ok {
		t.Error("Move() = true, want false")
	}
	if !errors.Is(moveErr, ErrNoOutput) {
		t.Errorf("Move() error = %v, want ErrNoOutput", moveErr)
	}
}

func TestEngine_OutputErrorAbortsBatch(t *testing.T) {
	eng, out := newTestEngine(t, 50)
	out.err = errors.New("port gone")

	to := axis.Number(1)
	ok, err := eng.Move(context.Background(), Request{Axis: "L0", To: &to, Duration: fptr(1)})
	if ok {
		t.Error("Move() = true, want false")
	}
	if err == nil || !strings.Contains(err.Error(), "port gone") {
		t.Errorf("Move() error = %v, want wrapped write error", err)
	}
}

func TestEngine_InvalidBatchLeavesQueueEmpty(t *testing.T) {
	eng, out := newTestEngine(t, 50)

	_, err := eng.Move(context.Background(), Request{Axis: "nope"})
	if !errors.Is(err, ErrInvalidMovement) {
		t.Errorf("Move() error = %v, want ErrInvalidMovement", err)
	}
	if eng.QueueDepth() != 0 {
		t.Errorf("queue depth = %d, want 0", eng.QueueDepth())
	}
	if len(out.snapshot()) != 0 {
		t.Error("invalid batch produced output")
	}
}

func TestEngine_CustomProvider(t *testing.T) {
	eng, out := newTestEngine(t, 200)

	var calls int
	provider := func(tc ProviderContext) Sample {
		calls++
		// Hold the current value for the first half, then jump to the
		// target region.
		if tc.X < 0.5 {
			return NoChange()
		}
		return Number(tc.X)
	}

	ok, err := eng.Move(context.Background(), Request{Axis: "L0", Value: provider, Duration: fptr(0.05)})
	if err != nil || !ok {
		t.Fatalf("Move() = %v, %v", ok, err)
	}
	if calls != 10 {
		t.Errorf("provider called %d times, want 10", calls)
	}
	// The four no-change ticks write nothing.
	if n := len(out.snapshot()); n != 6 {
		t.Errorf("wrote %d lines, want 6", n)
	}

	cfg, _ := eng.Registry().Get("L0")
	if cfg.Value.Num != 1 {
		t.Errorf("final value = %v, want 1", cfg.Value.Num)
	}
}

func TestEngine_InvalidProviderOutputSkipsTick(t *testing.T) {
	eng, out := newTestEngine(t, 200)

	provider := func(tc ProviderContext) Sample {
		if tc.TickIndex%2 == 0 {
			return Number(math.NaN())
		}
		return Number(0.25)
	}

	ok, err := eng.Move(context.Background(), Request{Axis: "L0", Value: provider, Duration: fptr(0.02)})
	if err != nil || !ok {
		t.Fatalf("Move() = %v, %v", ok, err)
	}
	if n := len(out.snapshot()); n != 2 {
		t.Errorf("wrote %d lines, want 2 (invalid ticks skipped)", n)
	}
	cfg, _ := eng.Registry().Get("L0")
	if cfg.Value.Num != 0.25 {
		t.Errorf("value = %v, want 0.25", cfg.Value.Num)
	}
}

func TestEngine_ProviderValuesClamped(t *testing.T) {
	eng, out := newTestEngine(t, 200)

	provider := func(ProviderContext) Sample { return Number(3.7) }
	ok, err := eng.Move(context.Background(), Request{Axis: "L0", Value: provider, Duration: fptr(0.01)})
	if err != nil || !ok {
		t.Fatalf("Move() = %v, %v", ok, err)
	}
	for _, line := range out.snapshot() {
		if line != "L0999" {
			t.Errorf("line = %q, want L0999 (clamped to 1)", line)
		}
	}
}

func TestEngine_Home(t *testing.T) {
	eng, _ := newTestEngine(t, 500)
	ctx := context.Background()

	if err := eng.Registry().SetValue("L0", axis.Number(0.51)); err != nil {
		t.Fatal(err)
	}
	if err := eng.Registry().SetValue("R1", axis.Number(0.49)); err != nil {
		t.Fatal(err)
	}

	ok, err := eng.Home(ctx)
	if err != nil || !ok {
		t.Fatalf("Home() = %v, %v", ok, err)
	}

	for _, name := range []string{"L0", "R1"} {
		cfg, _ := eng.Registry().Get(name)
		if cfg.Value.Num != 0.5 {
			t.Errorf("%s value = %v, want 0.5", name, cfg.Value.Num)
		}
	}
}

func TestEngine_Sleep(t *testing.T) {
	eng, _ := newTestEngine(t, 50)

	if err := eng.Sleep(context.Background(), 0.01); err != nil {
		t.Errorf("Sleep() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := eng.Sleep(ctx, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep() with cancelled context error = %v, want context.Canceled", err)
	}

	// Non-positive durations return immediately.
	if err := eng.Sleep(context.Background(), -1); err != nil {
		t.Errorf("Sleep(-1) error = %v", err)
	}
}

func TestEngine_SetDefaultAxis(t *testing.T) {
	eng, out := newTestEngine(t, 200)

	if err := eng.SetDefaultAxis("stroke"); err != nil {
		t.Fatalf("SetDefaultAxis() error = %v", err)
	}
	if got := eng.DefaultAxis(); got != "L0" {
		t.Errorf("DefaultAxis() = %q, want L0", got)
	}

	to := axis.Number(1)
	if ok, err := eng.Move(context.Background(), Request{To: &to, Duration: fptr(0.01)}); err != nil || !ok {
		t.Fatalf("Move() = %v, %v", ok, err)
	}
	if n := len(out.snapshot()); n == 0 {
		t.Fatal("no lines written")
	}

	if err := eng.SetDefaultAxis("nope"); !errors.Is(err, axis.ErrNotFound) {
		t.Errorf("SetDefaultAxis(nope) error = %v, want ErrNotFound", err)
	}

	if err := eng.SetDefaultAxis(""); err != nil {
		t.Fatalf("clearing default axis: %v", err)
	}
	if eng.DefaultAxis() != "" {
		t.Error("default axis not cleared")
	}
}

func TestEngine_Telemetry(t *testing.T) {
	tel := &recordingTelemetry{}
	eng, err := New(newTestRegistry(t), Options{Frequency: 200, Telemetry: tel})
	if err != nil {
		t.Fatal(err)
	}
	eng.AddOutput(&captureOutput{})

	to := axis.Number(1)
	if ok, err := eng.Move(context.Background(), Request{Axis: "L0", To: &to, Duration: fptr(0.02)}); err != nil || !ok {
		t.Fatalf("Move() = %v, %v", ok, err)
	}

	tel.mu.Lock()
	defer tel.mu.Unlock()
	if tel.values != 4 {
		t.Errorf("recorded %d axis values, want 4", tel.values)
	}
	if len(tel.movements) != 1 || tel.movements[0] != OutcomeCompleted {
		t.Errorf("movements = %v, want [completed]", tel.movements)
	}
	if len(tel.depths) == 0 {
		t.Error("no queue depths recorded")
	}
}

func TestEngine_RemoveOutput(t *testing.T) {
	eng, out := newTestEngine(t, 200)
	second := &captureOutput{}
	eng.AddOutput(second)
	eng.RemoveOutput(out)

	on := axis.Boolean(true)
	if ok, err := eng.Move(context.Background(), Request{Axis: "V0", To: &on}); err != nil || !ok {
		t.Fatalf("Move() = %v, %v", ok, err)
	}
	if len(out.snapshot()) != 0 {
		t.Error("removed output still received lines")
	}
	if len(second.snapshot()) != 1 {
		t.Error("remaining output received nothing")
	}
}
