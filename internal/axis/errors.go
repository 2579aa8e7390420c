package axis

import "errors"

// Domain errors for the axis package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, axis.ErrNotFound) {
//	    // handle unknown axis
//	}
var (
	// ErrNotFound is returned when an axis name or alias does not resolve.
	ErrNotFound = errors.New("axis: not found")

	// ErrInvalidConfig is returned when axis configuration validation fails.
	ErrInvalidConfig = errors.New("axis: invalid configuration")

	// ErrInvalidName is returned when an axis name is empty or malformed.
	ErrInvalidName = errors.New("axis: invalid name")

	// ErrInvalidType is returned when an axis type is not recognised.
	ErrInvalidType = errors.New("axis: invalid type")

	// ErrInvalidLimits is returned when limit bounds are out of range or equal.
	ErrInvalidLimits = errors.New("axis: invalid limits")

	// ErrAliasConflict is returned when an alias collides with another
	// axis's name or alias.
	ErrAliasConflict = errors.New("axis: alias conflict")
)
