// Package logging provides structured logging for motiond.
//
// It wraps log/slog with configuration-driven level filtering, output
// format selection (JSON or text), and default service/version fields.
//
// # Usage
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("engine started", "frequency", 50)
//
//	motionLog := log.With("component", "motion")
//	motionLog.Debug("tick", "index", i)
//
// Use logging.Default() during early startup before configuration is
// available.
package logging
