// Package config provides configuration loading for motiond.
//
// Configuration is read from a YAML file, with hardcoded defaults applied
// first and MOTIOND_* environment variables applied last. The loaded
// configuration is validated before use.
//
// # Sections
//
//   - device: identity of the controlled device
//   - motion: tick frequency and default axis
//   - axes: axis set seeded into the registry at startup
//   - serial: serial output transport
//   - mqtt: broker connection, line publishing, remote commands
//   - influxdb: telemetry sink
//   - api / websocket: HTTP control surface and line streaming
//   - database: SQLite persistence for axis configuration
//   - logging: level, format, destination
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	period := cfg.TickPeriod()
package config
