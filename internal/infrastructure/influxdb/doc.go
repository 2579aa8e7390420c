// Package influxdb provides motion telemetry recording for motiond.
//
// It wraps the InfluxDB v2 Go client with non-blocking batched writes.
// Three measurements are recorded:
//
//   - axis_values: committed axis position per tick (tag: axis)
//   - movements: movement completion/cancellation with wall-clock duration
//   - movement_queue: admission queue depth
//
// Telemetry must never stall the tick loop, so every write is fire-and-
// forget; asynchronous write errors surface through SetOnError.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // telemetry off, engine runs without it
//	}
package influxdb
