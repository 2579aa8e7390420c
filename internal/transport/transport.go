package transport

import (
	"errors"
	"sync"
)

// LineWriter is the sink contract for encoded command lines. Lines
// arrive without a terminator; each transport applies its own framing.
type LineWriter interface {
	WriteLine(line string) error
}

// Multi fans one line out to several transports. Every transport is
// attempted even when an earlier one fails; the errors are joined.
type Multi struct {
	mu      sync.RWMutex
	writers []LineWriter
}

// NewMulti creates a fan-out over the given transports.
func NewMulti(writers ...LineWriter) *Multi {
	return &Multi{writers: writers}
}

// Add registers another transport.
func (m *Multi) Add(w LineWriter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writers = append(m.writers, w)
}

// Remove unregisters a transport.
func (m *Multi) Remove(w LineWriter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.writers {
		if existing == w {
			m.writers = append(m.writers[:i], m.writers[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered transports.
func (m *Multi) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.writers)
}

// WriteLine writes the line to every registered transport.
func (m *Multi) WriteLine(line string) error {
	if line == "" {
		return ErrBlankLine
	}

	m.mu.RLock()
	writers := make([]LineWriter, len(m.writers))
	copy(writers, m.writers)
	m.mu.RUnlock()

	var errs []error
	for _, w := range writers {
		if err := w.WriteLine(line); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
