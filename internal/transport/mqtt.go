package transport

import "fmt"

// Publisher is the slice of the MQTT client this transport needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// MQTT publishes command lines to a broker topic, one message per line.
type MQTT struct {
	pub   Publisher
	topic string
	qos   byte
}

// NewMQTT creates an MQTT transport publishing to topic.
func NewMQTT(pub Publisher, topic string, qos byte) *MQTT {
	return &MQTT{pub: pub, topic: topic, qos: qos}
}

// WriteLine publishes the line without a terminator; message framing
// replaces newline framing on this transport.
func (m *MQTT) WriteLine(line string) error {
	if line == "" {
		return ErrBlankLine
	}
	if err := m.pub.Publish(m.topic, []byte(line), m.qos, false); err != nil {
		return fmt.Errorf("transport: mqtt publish to %q: %w", m.topic, err)
	}
	return nil
}
