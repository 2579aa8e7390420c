package transport

import (
	"fmt"
	"sync"

	"go.bug.st/serial"

	"github.com/tcode-works/motioncore/internal/infrastructure/config"
)

// Serial writes command lines to a serial device, newline-terminated.
type Serial struct {
	mu     sync.Mutex
	port   serial.Port
	name   string
	closed bool
}

// OpenSerial opens the configured serial port.
func OpenSerial(cfg config.SerialConfig) (*Serial, error) {
	baud := cfg.BaudRate
	if baud == 0 {
		baud = 115200
	}
	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("transport: opening serial port %q: %w", cfg.Port, err)
	}
	return &Serial{port: port, name: cfg.Port}, nil
}

// Name returns the device path of the port.
func (s *Serial) Name() string {
	return s.name
}

// WriteLine writes the line followed by a newline to the port.
func (s *Serial) WriteLine(line string) error {
	if line == "" {
		return ErrBlankLine
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, err := s.port.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("transport: serial write to %q: %w", s.name, err)
	}
	return nil
}

// Close closes the underlying port. Subsequent writes return ErrClosed.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.port.Close(); err != nil {
		return fmt.Errorf("transport: closing serial port %q: %w", s.name, err)
	}
	return nil
}
