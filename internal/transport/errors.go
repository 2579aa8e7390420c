package transport

import "errors"

var (
	// ErrBlankLine indicates an empty command line was handed to a
	// transport.
	ErrBlankLine = errors.New("transport: blank command line")

	// ErrClosed indicates a write on a closed transport.
	ErrClosed = errors.New("transport: closed")
)
