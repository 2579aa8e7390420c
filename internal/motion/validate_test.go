package motion

import (
	"errors"
	"strings"
	"testing"

	"github.com/tcode-works/motioncore/internal/axis"
)

// stubResolver resolves axes from a fixed map, matching aliases the way
// the registry does.
type stubResolver map[string]axis.Config

func (s stubResolver) Get(name string) (axis.Config, error) {
	if c, ok := s[name]; ok {
		return c, nil
	}
	for _, c := range s {
		if c.Alias == name {
			return c, nil
		}
	}
	return axis.Config{}, axis.ErrNotFound
}

func testAxes() stubResolver {
	return stubResolver{
		"L0": {Name: "L0", Type: axis.TypeLinear, Alias: "stroke", Min: 0, Max: 1, Value: axis.Number(0.5)},
		"R1": {Name: "R1", Type: axis.TypeRotation, Min: 0, Max: 1, Value: axis.Number(0.5)},
		"V0": {Name: "V0", Type: axis.TypeBoolean, Value: axis.Boolean(false)},
	}
}

func fptr(v float64) *float64       { return &v }
func vptr(v axis.Value) *axis.Value { return &v }

func TestValidateBatch_Rejections(t *testing.T) {
	on := axis.Boolean(true)
	half := axis.Number(0.5)

	tests := []struct {
		name    string
		reqs    []Request
		wantMsg string
	}{
		{
			name:    "empty batch",
			reqs:    nil,
			wantMsg: "empty batch",
		},
		{
			name:    "unknown axis",
			reqs:    []Request{{Axis: "Z9", To: &half, Duration: fptr(1)}},
			wantMsg: `axis "Z9"`,
		},
		{
			name:    "no default axis",
			reqs:    []Request{{To: &half, Duration: fptr(1)}},
			wantMsg: "no default axis",
		},
		{
			name:    "duplicate axis via alias",
			reqs:    []Request{{Axis: "L0", To: &half, Duration: fptr(1)}, {Axis: "stroke", To: &half, Duration: fptr(1)}},
			wantMsg: "targeted more than once",
		},
		{
			name:    "target and provider together",
			reqs:    []Request{{Axis: "L0", To: &half, Value: noopProvider, Duration: fptr(1)}},
			wantMsg: "both a target and a value provider",
		},
		{
			name:    "neither target nor provider",
			reqs:    []Request{{Axis: "L0", Duration: fptr(1)}},
			wantMsg: "target or a value provider",
		},
		{
			name:    "boolean target on numeric axis",
			reqs:    []Request{{Axis: "L0", To: &on, Duration: fptr(1)}},
			wantMsg: "target must be numeric",
		},
		{
			name:    "numeric target on boolean axis",
			reqs:    []Request{{Axis: "V0", To: &half}},
			wantMsg: "target must be boolean",
		},
		{
			name:    "target out of range",
			reqs:    []Request{{Axis: "L0", To: vptr(axis.Number(1.5)), Duration: fptr(1)}},
			wantMsg: "out of range",
		},
		{
			name:    "speed and duration together",
			reqs:    []Request{{Axis: "L0", To: &half, Speed: fptr(1), Duration: fptr(1)}},
			wantMsg: "both speed and duration",
		},
		{
			name:    "negative speed",
			reqs:    []Request{{Axis: "L0", To: &half, Speed: fptr(-1)}},
			wantMsg: "finite positive",
		},
		{
			name:    "zero duration",
			reqs:    []Request{{Axis: "L0", To: &half, Duration: fptr(0)}},
			wantMsg: "finite positive",
		},
		{
			name:    "speed without target",
			reqs:    []Request{{Axis: "L0", Value: noopProvider, Speed: fptr(1)}},
			wantMsg: "speed requires a constant target",
		},
		{
			name: "sync with duration",
			reqs: []Request{
				{Axis: "L0", To: &half, Duration: fptr(1)},
				{Axis: "R1", To: &half, Sync: "L0", Duration: fptr(1)},
			},
			wantMsg: "sync excludes speed and duration",
		},
		{
			name: "sync target outside batch",
			reqs: []Request{
				{Axis: "L0", To: &half, Duration: fptr(1)},
				{Axis: "R1", To: &half, Sync: "V0"},
			},
			wantMsg: "not in the batch",
		},
		{
			name: "sync with itself",
			reqs: []Request{
				{Axis: "L0", To: &half, Duration: fptr(1)},
				{Axis: "R1", To: &half, Sync: "R1"},
			},
			wantMsg: "cannot sync with itself",
		},
		{
			name: "sync cycle",
			reqs: []Request{
				{Axis: "L0", To: &half, Sync: "R1"},
				{Axis: "R1", To: &half, Sync: "stroke"},
				{Axis: "V0", Value: noopProvider, Duration: fptr(1)},
			},
			wantMsg: "cyclic sync chain",
		},
		{
			name:    "boolean axis with speed",
			reqs:    []Request{{Axis: "V0", To: &on, Speed: fptr(1)}},
			wantMsg: "do not accept a speed",
		},
		{
			name:    "boolean axis constant target with duration",
			reqs:    []Request{{Axis: "V0", To: &on, Duration: fptr(1)}},
			wantMsg: "only with a value provider",
		},
		{
			name:    "no timing anywhere",
			reqs:    []Request{{Axis: "L0", To: &half}, {Axis: "R1", To: &half}},
			wantMsg: "speed or duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateBatch(tt.reqs, testAxes(), "")
			if err == nil {
				t.Fatal("validateBatch() succeeded, want error")
			}
			if !errors.Is(err, ErrInvalidMovement) {
				t.Errorf("error %v does not wrap ErrInvalidMovement", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidateBatch_Normalizes(t *testing.T) {
	half := axis.Number(0.5)
	reqs := []Request{
		{Axis: "stroke", To: &half, Speed: fptr(1)},
		{Axis: "R1", To: &half, Sync: "stroke"},
	}

	got, err := validateBatch(reqs, testAxes(), "")
	if err != nil {
		t.Fatalf("validateBatch() error = %v", err)
	}
	if got[0].Axis != "L0" {
		t.Errorf("alias not resolved: axis = %q, want L0", got[0].Axis)
	}
	if got[1].Sync != "L0" {
		t.Errorf("sync alias not resolved: sync = %q, want L0", got[1].Sync)
	}
}

func TestValidateBatch_DefaultAxis(t *testing.T) {
	half := axis.Number(0.5)
	got, err := validateBatch([]Request{{To: &half, Speed: fptr(1)}}, testAxes(), "L0")
	if err != nil {
		t.Fatalf("validateBatch() error = %v", err)
	}
	if got[0].Axis != "L0" {
		t.Errorf("default axis not applied: axis = %q, want L0", got[0].Axis)
	}
}

func TestValidateBatch_BooleanOnlyNeedsNoTiming(t *testing.T) {
	on := axis.Boolean(true)
	if _, err := validateBatch([]Request{{Axis: "V0", To: &on}}, testAxes(), ""); err != nil {
		t.Fatalf("validateBatch() error = %v", err)
	}
}

func TestValidateBatch_SyncOnlyTimingEntry(t *testing.T) {
	half := axis.Number(0.9)
	reqs := []Request{
		{Axis: "L0", To: &half, Duration: fptr(1)},
		{Axis: "R1", Sync: "L0"},
	}
	if _, err := validateBatch(reqs, testAxes(), ""); err != nil {
		t.Fatalf("validateBatch() error = %v", err)
	}
}
