package motion

import (
	"math"
)

// bindProvider assigns the movement its value provider. Custom
// providers are used verbatim; constant targets get a linear ramp
// (numeric) or a latch (boolean); sync-only entries get a provider that
// never moves.
func bindProvider(m *resolved) {
	if m.custom {
		return
	}

	switch {
	case m.to == nil:
		m.provider = noopProvider
	case m.to.IsBool:
		on := m.to.On
		m.provider = func(ProviderContext) Sample { return Bool(on) }
	case m.direction == 0:
		// Already at the target.
		m.provider = noopProvider
	default:
		from, to := m.from.Num, m.to.Num
		m.provider = func(t ProviderContext) Sample {
			if t.StepCount <= 0 {
				return Number(to)
			}
			return Number(from + t.X*(to-from))
		}
	}
}

func noopProvider(ProviderContext) Sample {
	return NoChange()
}

// normalizeSample validates a provider result against the axis type and
// clamps numeric values into [0,1]. The second return is false for
// invalid results, which the executor logs and skips.
func normalizeSample(s Sample, boolean bool) (Sample, bool) {
	switch s.kind {
	case sampleNone:
		return s, true
	case sampleBool:
		if !boolean {
			return Sample{}, false
		}
		return s, true
	case sampleNumber:
		if boolean || math.IsNaN(s.num) || math.IsInf(s.num, 0) {
			return Sample{}, false
		}
		return Number(round10(clamp01(s.num))), true
	default:
		return Sample{}, false
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
