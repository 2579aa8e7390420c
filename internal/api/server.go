// Package api provides the HTTP REST API and WebSocket server for
// motioncore.
//
// It exposes axis registry operations, movement commands and a
// real-time stream of emitted TCode lines and movement lifecycle
// events.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple
// goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tcode-works/motioncore/internal/axis"
	"github.com/tcode-works/motioncore/internal/infrastructure/config"
	"github.com/tcode-works/motioncore/internal/infrastructure/logging"
	"github.com/tcode-works/motioncore/internal/motion"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Engine is the slice of the motion engine the API drives.
type Engine interface {
	Move(ctx context.Context, reqs ...motion.Request) (bool, error)
	Home(ctx context.Context) (bool, error)
	Stop()
	Frequency() float64
	QueueDepth() int
	DefaultAxis() string
	SetDefaultAxis(name string) error
}

// Registry is the slice of the axis registry the API exposes.
type Registry interface {
	List() []axis.Config
	Get(name string) (axis.Config, error)
	Configure(ctx context.Context, cfg axis.Config) error
	UpdateLimits(ctx context.Context, name string, lo, hi float64) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Logger   *logging.Logger
	Engine   Engine
	Registry Registry
	// ExternalHub, when set, is used instead of creating a hub. The
	// engine needs the hub as an output before the server starts.
	ExternalHub *Hub
	Version     string
}

// Server is the HTTP API server for motioncore.
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	logger   *logging.Logger
	engine   Engine
	registry Registry
	version  string
	server   *http.Server
	hub      *Hub
	cancel   context.CancelFunc
}

// New creates a new API server with the given dependencies. The server
// is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("motion engine is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("axis registry is required")
	}

	return &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		logger:   deps.Logger,
		engine:   deps.Engine,
		registry: deps.Registry,
		hub:      deps.ExternalHub,
		version:  deps.Version,
	}, nil
}

// Start begins listening for HTTP connections. The WebSocket hub and
// the listener run on background goroutines until Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	go s.hub.Run(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server listening", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the API server. It waits up to ten
// seconds for in-flight requests, then forcefully closes what remains.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// Hub returns the WebSocket hub, creating it on first use. The engine
// registers it as an output so emitted lines reach stream subscribers.
func (s *Server) Hub() *Hub {
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	return s.hub
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}
	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
