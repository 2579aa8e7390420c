package motion

import "errors"

var (
	// ErrInvalidMovement indicates a Move batch failed validation. No
	// movement in the batch is executed.
	ErrInvalidMovement = errors.New("motion: invalid movement")

	// ErrNoOutput indicates a tick had a command line to write but no
	// output collaborator is registered.
	ErrNoOutput = errors.New("motion: no output registered")

	// ErrBlankLine indicates an empty command line reached the write
	// path.
	ErrBlankLine = errors.New("motion: blank command line")

	// ErrInvalidFrequency indicates a non-positive or non-finite tick
	// frequency.
	ErrInvalidFrequency = errors.New("motion: invalid frequency")

	// ErrNoDefaultAxis indicates a request omitted the axis name and no
	// default axis is configured.
	ErrNoDefaultAxis = errors.New("motion: no default axis configured")
)
