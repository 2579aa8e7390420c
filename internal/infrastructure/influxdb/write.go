package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteAxisValue records the committed value of an axis after a tick.
//
// This is the hottest telemetry path: it runs once per axis per tick.
// The write is non-blocking; data is batched and sent asynchronously.
func (c *Client) WriteAxisValue(axis string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"axis_values",
		map[string]string{
			"axis": axis,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteMovementEvent records a movement lifecycle event.
//
// Parameters:
//   - movementID: The movement's queue identifier
//   - outcome: "completed" or "cancelled"
//   - duration: Wall-clock execution time of the movement
func (c *Client) WriteMovementEvent(movementID string, outcome string, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"movements",
		map[string]string{
			"outcome": outcome,
		},
		map[string]interface{}{
			"movement_id": movementID,
			"duration_ms": duration.Milliseconds(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteQueueDepth records the number of movements waiting for admission.
func (c *Client) WriteQueueDepth(depth int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"movement_queue",
		nil,
		map[string]interface{}{
			"depth": depth,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// Flush forces all pending writes to be sent immediately.
// Useful before shutdown or in tests.
func (c *Client) Flush() {
	if c.writeAPI != nil {
		c.writeAPI.Flush()
	}
}
