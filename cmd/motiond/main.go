// motiond - TCode motion synchronisation and execution daemon.
//
// motiond drives multi-axis devices over the TCode protocol: movement
// batches are validated, queued and stepped at a fixed tick rate, and
// the resulting command lines are fanned out to serial, MQTT and
// WebSocket transports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tcode-works/motioncore/internal/api"
	"github.com/tcode-works/motioncore/internal/axis"
	"github.com/tcode-works/motioncore/internal/behavior"
	"github.com/tcode-works/motioncore/internal/infrastructure/config"
	"github.com/tcode-works/motioncore/internal/infrastructure/database"
	"github.com/tcode-works/motioncore/internal/infrastructure/influxdb"
	"github.com/tcode-works/motioncore/internal/infrastructure/logging"
	"github.com/tcode-works/motioncore/internal/infrastructure/mqtt"
	"github.com/tcode-works/motioncore/internal/motion"
	"github.com/tcode-works/motioncore/internal/transport"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting motiond",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Initialise axis registry from persisted state, then seed any
	// configured axes. Seeding is idempotent: reconfiguring an existing
	// axis preserves its live value.
	repo := axis.NewSQLiteRepository(db.DB)
	registry := axis.NewRegistry(repo)
	registry.SetLogger(log)
	if loadErr := registry.Load(ctx); loadErr != nil {
		return fmt.Errorf("loading axis registry: %w", loadErr)
	}
	if seedErr := seedAxes(ctx, registry, cfg.Axes); seedErr != nil {
		return fmt.Errorf("seeding axes: %w", seedErr)
	}
	log.Info("axis registry initialised", "axes", registry.Count())

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Build the line transports. Every emitted line is fanned out to all
	// of them; when none are configured, lines land on stdout so the
	// daemon is observable out of the box.
	multi := transport.NewMulti()
	if cfg.Serial.Enabled {
		serialPort, serialErr := transport.OpenSerial(cfg.Serial)
		if serialErr != nil {
			return fmt.Errorf("opening serial port: %w", serialErr)
		}
		defer func() {
			log.Info("closing serial port")
			if closeErr := serialPort.Close(); closeErr != nil {
				log.Error("error closing serial port", "error", closeErr)
			}
		}()
		multi.Add(serialPort)
		log.Info("serial output enabled", "port", cfg.Serial.Port, "baud_rate", cfg.Serial.BaudRate)
	}
	if mqttClient != nil {
		multi.Add(transport.NewMQTT(mqttClient, cfg.MQTT.Topics.Lines, byte(cfg.MQTT.QoS)))
		log.Info("MQTT output enabled", "topic", cfg.MQTT.Topics.Lines)
	}
	if multi.Len() == 0 {
		multi.Add(transport.NewConsole(os.Stdout))
		log.Info("no transports configured, writing lines to stdout")
	}

	// WebSocket hub is created up front so the engine can register it as
	// an output before the API server starts.
	var hub *api.Hub
	if cfg.API.Enabled {
		hub = api.NewHub(cfg.WebSocket, log)
	}

	// Motion engine
	engine, err := motion.New(registry, motion.Options{
		Frequency:   cfg.Motion.Frequency,
		DefaultAxis: cfg.Motion.DefaultAxis,
		Telemetry:   newTelemetry(influxClient, hub),
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("creating motion engine: %w", err)
	}
	engine.AddOutput(multi)
	if hub != nil {
		engine.AddOutput(hub)
	}
	log.Info("motion engine initialised",
		"frequency_hz", cfg.Motion.Frequency,
		"tick_period", cfg.TickPeriod(),
		"default_axis", engine.DefaultAxis(),
	)

	// Behavior runner
	runner := behavior.NewRunner(engine, log)
	defer func() {
		log.Info("stopping behavior runner")
		runner.Stop()
	}()

	// Remote commands over MQTT
	if mqttClient != nil && cfg.MQTT.Topics.Command != "" {
		subErr := mqttClient.Subscribe(cfg.MQTT.Topics.Command, byte(cfg.MQTT.QoS), func(topic string, payload []byte) error {
			return handleCommand(ctx, engine, runner, log, payload)
		})
		if subErr != nil {
			return fmt.Errorf("subscribing to command topic: %w", subErr)
		}
		log.Info("remote commands enabled", "topic", cfg.MQTT.Topics.Command)
	}

	// API server (optional)
	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer, err = api.New(api.Deps{
			Config:      cfg.API,
			WS:          cfg.WebSocket,
			Logger:      log,
			Engine:      engine,
			Registry:    registry,
			ExternalHub: hub,
			Version:     version,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		if startErr := apiServer.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			log.Info("closing API server")
			if closeErr := apiServer.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("API server disabled")
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Stop motion first so nothing writes to the transports while they
	// close, then persist the final axis positions.
	runner.Stop()
	engine.Stop()

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if flushErr := registry.FlushValues(flushCtx); flushErr != nil {
		log.Error("error persisting axis values", "error", flushErr)
	}
	if influxClient != nil {
		influxClient.Flush()
	}

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. Behavior runner (already stopped, no-op)
	// 3. Serial port
	// 4. InfluxDB (if enabled)
	// 5. MQTT (if enabled)
	// 6. Database

	log.Info("motiond stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses MOTIOND_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("MOTIOND_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// seedAxes applies the configured axis definitions to the registry.
func seedAxes(ctx context.Context, registry *axis.Registry, axes []config.AxisConfig) error {
	for _, a := range axes {
		cfg := axis.Config{
			Name:  a.Name,
			Type:  axis.Type(a.Type),
			Alias: a.Alias,
		}
		if a.Min != nil {
			cfg.Min = *a.Min
		}
		if a.Max != nil {
			cfg.Max = *a.Max
		}
		if err := registry.Configure(ctx, cfg); err != nil {
			return fmt.Errorf("axis %q: %w", a.Name, err)
		}
	}
	return nil
}

// handleCommand dispatches a remote command received over MQTT.
// Unknown commands are logged and dropped; a malformed message must not
// take the subscription down.
func handleCommand(ctx context.Context, engine *motion.Engine, runner *behavior.Runner, log *logging.Logger, payload []byte) error {
	cmd := strings.TrimSpace(strings.ToLower(string(payload)))
	switch cmd {
	case "stop":
		log.Info("remote stop received")
		runner.Stop()
		engine.Stop()
	case "home":
		log.Info("remote home received")
		go func() {
			if _, err := engine.Home(ctx); err != nil {
				log.Error("remote home failed", "error", err)
			}
		}()
	default:
		log.Warn("unknown remote command", "command", cmd)
	}
	return nil
}

// healthCheck verifies all infrastructure connections are healthy.
// Disabled clients are nil and skipped.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}

// telemetry fans execution measurements out to InfluxDB and the
// WebSocket hub. Either sink may be nil.
type telemetry struct {
	influx *influxdb.Client
	hub    *api.Hub
}

func newTelemetry(influx *influxdb.Client, hub *api.Hub) motion.Telemetry {
	return &telemetry{influx: influx, hub: hub}
}

func (t *telemetry) RecordAxisValue(axisName string, value float64) {
	if t.influx != nil {
		t.influx.WriteAxisValue(axisName, value)
	}
}

func (t *telemetry) RecordMovement(id string, outcome string, duration time.Duration) {
	if t.influx != nil {
		t.influx.WriteMovementEvent(id, outcome, duration)
	}
	if t.hub != nil {
		t.hub.BroadcastMovement(id, outcome, duration)
	}
}

func (t *telemetry) RecordQueueDepth(depth int) {
	if t.influx != nil {
		t.influx.WriteQueueDepth(depth)
	}
}
