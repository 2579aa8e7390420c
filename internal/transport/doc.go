// Package transport carries encoded command lines to their devices.
//
// The motion engine hands each transport a bare line; the transport
// applies its own framing. Serial and Console append a newline, MQTT
// relies on message boundaries. Multi fans one line out to several
// transports and joins their errors, so one dead sink does not starve
// the others.
//
// All transports reject blank lines with ErrBlankLine.
package transport
