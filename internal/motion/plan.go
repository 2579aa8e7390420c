package motion

import (
	"math"

	"github.com/tcode-works/motioncore/internal/axis"
)

// round10 rounds to ten decimal places, absorbing float drift in
// derived speeds and durations.
func round10(v float64) float64 {
	return math.Round(v*1e10) / 1e10
}

// planBatch resolves a validated batch into per-axis movements.
//
// Pass one reads each axis's live value as the movement origin and
// derives the missing one of speed and duration where a constant target
// supplies a displacement, tracking the longest duration seen. Pass two
// hands that longest duration to every request still without one (sync
// chains resolve transitively), so by default all axes in a batch
// finish together. Boolean axes without explicit timing stay
// instantaneous.
func planBatch(reqs []Request, cfgs map[string]axis.Config, frequency float64) []*resolved {
	movements := make([]*resolved, len(reqs))
	index := make(map[string]*resolved, len(reqs))
	maxDuration := 0.0

	for i, r := range reqs {
		cfg := cfgs[r.Axis]
		m := &resolved{
			axisName: cfg.Name,
			axisType: cfg.Type,
			from:     cfg.Value,
			to:       r.To,
			custom:   r.Value != nil,
			provider: r.Value,
			sync:     r.Sync,
		}

		if m.to != nil && !m.to.IsBool {
			disp := m.to.Num - m.from.Num
			switch {
			case disp > 0:
				m.direction = 1
			case disp < 0:
				m.direction = -1
			}

			switch {
			case r.Speed != nil:
				m.speed = *r.Speed
				m.duration = round10(math.Abs(disp) / m.speed)
				m.hasDuration = true
			case r.Duration != nil:
				m.duration = *r.Duration
				m.hasDuration = true
				if m.duration > 0 {
					m.speed = round10(math.Abs(disp) / m.duration)
				}
			}
		} else if r.Duration != nil {
			m.duration = *r.Duration
			m.hasDuration = true
		}

		if m.hasDuration && m.duration > maxDuration {
			maxDuration = m.duration
		}

		movements[i] = m
		index[m.axisName] = m
	}

	for _, m := range movements {
		if m.hasDuration {
			continue
		}
		switch {
		case m.sync != "":
			m.duration = syncDuration(m, index, maxDuration)
			m.hasDuration = true
		case m.axisType != axis.TypeBoolean:
			m.duration = maxDuration
			m.hasDuration = true
		}
		if m.hasDuration && m.to != nil && !m.to.IsBool && m.duration > 0 {
			m.speed = round10(math.Abs(m.to.Num-m.from.Num) / m.duration)
		}
	}

	for _, m := range movements {
		if m.hasDuration {
			m.stepCount = int(math.Round(m.duration * frequency))
		}
	}

	return movements
}

// syncDuration walks a sync chain until it reaches a movement with a
// resolved duration, falling back to the batch maximum. Validation has
// already rejected cycles.
func syncDuration(m *resolved, index map[string]*resolved, maxDuration float64) float64 {
	for next := index[m.sync]; next != nil; next = index[next.sync] {
		if next.hasDuration {
			return next.duration
		}
		if next.sync == "" {
			break
		}
	}
	return maxDuration
}
