package influxdb

import (
	"context"
	"errors"
	"testing"

	"github.com/tcode-works/motioncore/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() err = %v, want ErrDisabled", err)
	}
}

func TestHealthCheck_NotConnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() err = %v, want ErrNotConnected", err)
	}
}

func TestWrites_NoopWhenDisconnected(t *testing.T) {
	// A disconnected client must silently drop telemetry, never panic.
	c := &Client{}
	c.WriteAxisValue("L0", 0.5)
	c.WriteMovementEvent("m-1", "completed", 0)
	c.WriteQueueDepth(3)
	c.Flush()
}

func TestClose_NilClient(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}
