package motion

import (
	"fmt"
	"math"

	"github.com/tcode-works/motioncore/internal/axis"
)

// axisResolver is the slice of the registry validation needs.
type axisGetter interface {
	Get(name string) (axis.Config, error)
}

// validateBatch checks a Move batch against the rules below and returns
// the requests with axis names rewritten to their canonical form. The
// batch is all-or-nothing: the first violation rejects every request.
//
//   - the batch is non-empty and every axis resolves
//   - at most one of To and Value; when Sync is empty exactly one
//   - To matches the axis type, numeric targets finite in [0,1]
//   - Speed and Duration are mutually exclusive, finite and positive
//   - Speed requires a constant target
//   - Sync excludes Speed and Duration, references a different axis in
//     the same batch, and sync chains contain no cycle
//   - boolean axes accept no Speed, and Duration only with a custom
//     Value provider
//   - no axis appears twice
//   - at least one request carries explicit timing, unless every
//     request targets a boolean axis
func validateBatch(reqs []Request, resolver axisGetter, defaultAxis string) ([]Request, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidMovement)
	}

	normalized := make([]Request, len(reqs))
	seen := make(map[string]int, len(reqs))
	allBoolean := true
	hasTiming := false

	for i, r := range reqs {
		name := r.Axis
		if name == "" {
			if defaultAxis == "" {
				return nil, fmt.Errorf("%w: request %d: %w", ErrInvalidMovement, i, ErrNoDefaultAxis)
			}
			name = defaultAxis
		}

		cfg, err := resolver.Get(name)
		if err != nil {
			return nil, fmt.Errorf("%w: request %d: axis %q: %w", ErrInvalidMovement, i, name, err)
		}
		if _, dup := seen[cfg.Name]; dup {
			return nil, fmt.Errorf("%w: axis %q targeted more than once", ErrInvalidMovement, cfg.Name)
		}
		seen[cfg.Name] = i

		if err := validateRequest(r, cfg); err != nil {
			return nil, fmt.Errorf("%w: axis %q: %s", ErrInvalidMovement, cfg.Name, err)
		}

		if !cfg.IsBoolean() {
			allBoolean = false
		}
		if r.Speed != nil || r.Duration != nil {
			hasTiming = true
		}

		r.Axis = cfg.Name
		normalized[i] = r
	}

	if !hasTiming && !allBoolean {
		return nil, fmt.Errorf("%w: at least one request must specify a speed or duration", ErrInvalidMovement)
	}

	if err := validateSync(normalized, seen, resolver); err != nil {
		return nil, err
	}

	return normalized, nil
}

// validateRequest checks a single request against its axis. Errors are
// plain; the caller wraps ErrInvalidMovement around them.
func validateRequest(r Request, cfg axis.Config) error {
	if r.To != nil && r.Value != nil {
		return fmt.Errorf("cannot specify both a target and a value provider")
	}
	if r.To == nil && r.Value == nil && r.Sync == "" {
		return fmt.Errorf("must specify a target or a value provider")
	}

	if r.To != nil {
		if cfg.IsBoolean() != r.To.IsBool {
			if cfg.IsBoolean() {
				return fmt.Errorf("target must be boolean")
			}
			return fmt.Errorf("target must be numeric")
		}
		if !r.To.IsBool {
			if math.IsNaN(r.To.Num) || math.IsInf(r.To.Num, 0) || r.To.Num < 0 || r.To.Num > 1 {
				return fmt.Errorf("target %v out of range [0,1]", r.To.Num)
			}
		}
	}

	if r.Speed != nil && r.Duration != nil {
		return fmt.Errorf("cannot specify both speed and duration")
	}
	if r.Speed != nil {
		if !positiveFinite(*r.Speed) {
			return fmt.Errorf("speed %v must be a finite positive number", *r.Speed)
		}
		if r.To == nil {
			return fmt.Errorf("speed requires a constant target")
		}
	}
	if r.Duration != nil && !positiveFinite(*r.Duration) {
		return fmt.Errorf("duration %v must be a finite positive number", *r.Duration)
	}

	if r.Sync != "" && (r.Speed != nil || r.Duration != nil) {
		return fmt.Errorf("sync excludes speed and duration")
	}

	if cfg.IsBoolean() {
		if r.Speed != nil {
			return fmt.Errorf("boolean axes do not accept a speed")
		}
		if r.Duration != nil && r.Value == nil {
			return fmt.Errorf("boolean axes accept a duration only with a value provider")
		}
	}

	return nil
}

// validateSync resolves sync references to canonical names and rejects
// unknown targets, self references and cycles.
func validateSync(reqs []Request, index map[string]int, resolver axisGetter) error {
	for i := range reqs {
		if reqs[i].Sync == "" {
			continue
		}
		cfg, err := resolver.Get(reqs[i].Sync)
		if err != nil {
			return fmt.Errorf("%w: axis %q: sync target %q: %w", ErrInvalidMovement, reqs[i].Axis, reqs[i].Sync, err)
		}
		if _, ok := index[cfg.Name]; !ok {
			return fmt.Errorf("%w: axis %q: sync target %q is not in the batch", ErrInvalidMovement, reqs[i].Axis, reqs[i].Sync)
		}
		if cfg.Name == reqs[i].Axis {
			return fmt.Errorf("%w: axis %q cannot sync with itself", ErrInvalidMovement, cfg.Name)
		}
		reqs[i].Sync = cfg.Name
	}

	for i := range reqs {
		visited := map[string]bool{reqs[i].Axis: true}
		next := reqs[i].Sync
		for next != "" {
			if visited[next] {
				return fmt.Errorf("%w: cyclic sync chain involving axis %q", ErrInvalidMovement, next)
			}
			visited[next] = true
			next = reqs[index[next]].Sync
		}
	}

	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
