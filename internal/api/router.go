package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Axis endpoints
		r.Route("/axes", func(r chi.Router) {
			r.Get("/", s.handleListAxes)
			r.Post("/", s.handleConfigureAxis)

			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", s.handleGetAxis)
				r.Put("/limits", s.handleUpdateLimits)
			})
		})

		// Movement endpoints
		r.Post("/move", s.handleMove)
		r.Post("/home", s.handleHome)
		r.Post("/stop", s.handleStop)

		// Default axis
		r.Put("/default-axis", s.handleSetDefaultAxis)
	})

	// WebSocket stream of emitted lines and movement events
	r.Get("/ws", s.handleWebSocket)

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"version":     s.version,
		"frequency":   s.engine.Frequency(),
		"queue_depth": s.engine.QueueDepth(),
	})
}
