package transport

import (
	"fmt"
	"io"
	"sync"
)

// Console writes command lines to an io.Writer, one per line. Used for
// dry runs and tests.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a console transport over w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// WriteLine writes the line followed by a newline.
func (c *Console) WriteLine(line string) error {
	if line == "" {
		return ErrBlankLine
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintln(c.w, line); err != nil {
		return fmt.Errorf("transport: console write: %w", err)
	}
	return nil
}
