package motion

import (
	"github.com/tcode-works/motioncore/internal/axis"
)

// Request is one per-axis movement request within a Move batch.
//
// Exactly one of To or Value supplies the target unless Sync is set, in
// which case both may be omitted (a sync-only timing entry). Speed and
// Duration are mutually exclusive; Sync excludes both.
type Request struct {
	// Axis is the axis name or alias. May be empty only when the engine
	// has a default axis configured.
	Axis string

	// To is a constant target value matching the axis type.
	To *axis.Value

	// Value is a custom per-tick value provider, used verbatim.
	Value Provider

	// Speed is the rate of travel in full range units per second.
	// Requires To.
	Speed *float64

	// Duration is the travel time in seconds.
	Duration *float64

	// Sync names another axis in the same batch whose resolved duration
	// this request adopts.
	Sync string
}

// Provider computes an axis's next value for one tick.
//
// A Provider returns a numeric sample, a boolean sample, or NoChange.
// Anything else (a non-finite number, or a sample kind mismatching the
// axis type) is invalid: the executor logs a warning and skips that
// axis for the tick.
type Provider func(t ProviderContext) Sample

// ProviderContext carries resolved movement parameters and tick progress
// into a Provider.
type ProviderContext struct {
	// Axis is the canonical axis name.
	Axis string

	// From is the axis value at batch start.
	From axis.Value

	// To is the constant target, nil when the request supplied none.
	To *axis.Value

	// Speed and Duration are the resolved timing parameters; zero when
	// unresolved (instantaneous movements).
	Speed    float64
	Duration float64

	// StepCount is the total number of ticks; zero means instantaneous.
	StepCount int

	// Time is seconds elapsed since the movement started stepping.
	Time float64

	// TickIndex is the zero-based index of the current tick.
	TickIndex int

	// Period is the seconds per tick; Frequency is ticks per second.
	Period    float64
	Frequency float64

	// CurrentValue is the axis's live value before this tick.
	CurrentValue axis.Value

	// X is the progress fraction (TickIndex+1)/StepCount, 0 when
	// StepCount is 0.
	X float64
}

// sampleKind discriminates Sample variants.
type sampleKind uint8

const (
	sampleNone sampleKind = iota
	sampleNumber
	sampleBool
)

// Sample is a Provider result: a number, a boolean, or the no-change
// sentinel.
type Sample struct {
	kind sampleKind
	num  float64
	on   bool
}

// NoChange returns the sentinel sample meaning "no movement this tick".
func NoChange() Sample {
	return Sample{kind: sampleNone}
}

// Number returns a numeric sample.
func Number(v float64) Sample {
	return Sample{kind: sampleNumber, num: v}
}

// Bool returns a boolean sample.
func Bool(on bool) Sample {
	return Sample{kind: sampleBool, on: on}
}

// IsNoChange reports whether the sample is the no-change sentinel.
func (s Sample) IsNoChange() bool {
	return s.kind == sampleNone
}

// resolved is one planned per-axis movement, derived from a validated
// Request. Never mutated once stepping begins.
type resolved struct {
	axisName string
	axisType axis.Type

	from      axis.Value
	to        *axis.Value
	direction int

	speed       float64
	duration    float64
	hasDuration bool

	// stepCount is round(duration * frequency); zero means the provider
	// is applied once, immediately.
	stepCount int

	provider Provider
	custom   bool

	// sync is carried through planning only.
	sync string
}
