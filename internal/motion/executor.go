package motion

import (
	"context"
	"fmt"
	"time"

	"github.com/tcode-works/motioncore/internal/axis"
)

// executor steps a planned batch at the engine's tick frequency.
type executor struct {
	registry  *axis.Registry
	queue     *queue
	frequency float64
	period    time.Duration
	outputs   func() []Output
	telemetry Telemetry
	logger    Logger
}

// run drives one admitted movement batch to completion. It returns true
// when every movement finished, and false without error when the batch
// was cancelled (its id vanished from the queue, or the context ended
// mid-sleep — the context error is reported in that case). Write
// failures abort the batch with an error.
//
// Movements with a zero step count are applied once, immediately, in a
// single combined command line. The remaining movements then step
// together: per tick each active provider is evaluated, valid results
// are encoded into one line, the line is written to every output, the
// new values are committed to the registry, and the executor suspends
// for one period. Committed progress survives cancellation.
func (e *executor) run(ctx context.Context, id string, movements []*resolved) (bool, error) {
	maxSteps := 0
	var instant, stepping []*resolved
	for _, m := range movements {
		if m.stepCount > 0 {
			stepping = append(stepping, m)
			if m.stepCount > maxSteps {
				maxSteps = m.stepCount
			}
		} else {
			instant = append(instant, m)
		}
	}

	if len(instant) > 0 {
		if err := e.tick(instant, 0); err != nil {
			return false, err
		}
	}
	if maxSteps == 0 {
		return true, nil
	}

	ticker := time.NewTicker(e.period)
	defer ticker.Stop()

	for i := 0; i < maxSteps; i++ {
		if !e.queue.contains(id) {
			return false, nil
		}

		active := stepping[:0:0]
		for _, m := range stepping {
			if i < m.stepCount {
				active = append(active, m)
			}
		}
		if err := e.tick(active, i); err != nil {
			return false, err
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
		}
	}

	return true, nil
}

// tick evaluates one step for the given movements and emits the
// combined command line. A tick with nothing to say writes nothing.
func (e *executor) tick(movements []*resolved, i int) error {
	pairs := make([]tokenPair, 0, len(movements))
	for _, m := range movements {
		cfg, v, ok := e.evaluate(m, i)
		if !ok {
			continue
		}
		pairs = append(pairs, tokenPair{cfg: cfg, value: v})
	}
	if len(pairs) == 0 {
		return nil
	}

	if err := e.write(encodeLine(pairs)); err != nil {
		return err
	}

	for _, p := range pairs {
		if err := e.registry.SetValue(p.cfg.Name, p.value); err != nil {
			e.logger.Warn("commit failed", "axis", p.cfg.Name, "error", err)
			continue
		}
		if e.telemetry != nil && !p.value.IsBool {
			e.telemetry.RecordAxisValue(p.cfg.Name, p.value.Num)
		}
	}
	return nil
}

// evaluate runs one provider call and normalises the result. The
// returned bool is false when the axis produces nothing this tick,
// either deliberately (no-change) or because the result was invalid.
func (e *executor) evaluate(m *resolved, i int) (axis.Config, axis.Value, bool) {
	cfg, err := e.registry.Get(m.axisName)
	if err != nil {
		e.logger.Warn("axis vanished mid-movement", "axis", m.axisName, "error", err)
		return axis.Config{}, axis.Value{}, false
	}

	periodSec := e.period.Seconds()
	t := ProviderContext{
		Axis:         m.axisName,
		From:         m.from,
		To:           m.to,
		Speed:        m.speed,
		Duration:     m.duration,
		StepCount:    m.stepCount,
		TickIndex:    i,
		Time:         float64(i+1) * periodSec,
		Period:       periodSec,
		Frequency:    e.frequency,
		CurrentValue: cfg.Value,
	}
	if m.stepCount > 0 {
		t.X = float64(i+1) / float64(m.stepCount)
	}

	s, ok := normalizeSample(m.provider(t), cfg.IsBoolean())
	if !ok {
		e.logger.Warn("provider returned an invalid value", "axis", m.axisName, "tick", i)
		return axis.Config{}, axis.Value{}, false
	}
	if s.IsNoChange() {
		return axis.Config{}, axis.Value{}, false
	}

	if s.kind == sampleBool {
		return cfg, axis.Boolean(s.on), true
	}
	return cfg, axis.Number(s.num), true
}

// write sends one command line to every registered output.
func (e *executor) write(line string) error {
	if line == "" {
		return ErrBlankLine
	}
	outputs := e.outputs()
	if len(outputs) == 0 {
		return ErrNoOutput
	}
	for _, o := range outputs {
		if err := o.WriteLine(line); err != nil {
			return fmt.Errorf("motion: writing command line: %w", err)
		}
	}
	return nil
}
