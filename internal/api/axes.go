package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tcode-works/motioncore/internal/axis"
)

// axisRequest is the payload for creating or reconfiguring an axis.
type axisRequest struct {
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	Alias string   `json:"alias,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// limitsRequest is the payload for updating axis output limits.
type limitsRequest struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// handleListAxes returns every configured axis.
func (s *Server) handleListAxes(w http.ResponseWriter, _ *http.Request) {
	axes := s.registry.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"axes":  axes,
		"count": len(axes),
	})
}

// handleGetAxis returns one axis by name or alias.
func (s *Server) handleGetAxis(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	cfg, err := s.registry.Get(name)
	if err != nil {
		if errors.Is(err, axis.ErrNotFound) {
			writeNotFound(w, "axis not found: "+name)
			return
		}
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handleConfigureAxis creates or replaces an axis configuration.
func (s *Server) handleConfigureAxis(w http.ResponseWriter, r *http.Request) {
	var req axisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	cfg := axis.Config{
		Name:  req.Name,
		Type:  axis.Type(req.Type),
		Alias: req.Alias,
	}
	if req.Min != nil {
		cfg.Min = *req.Min
	}
	if req.Max != nil {
		cfg.Max = *req.Max
	}

	if err := s.registry.Configure(r.Context(), cfg); err != nil {
		switch {
		case errors.Is(err, axis.ErrAliasConflict):
			writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())
		case errors.Is(err, axis.ErrInvalidConfig),
			errors.Is(err, axis.ErrInvalidName),
			errors.Is(err, axis.ErrInvalidType),
			errors.Is(err, axis.ErrInvalidLimits):
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		default:
			writeInternalError(w, err.Error())
		}
		return
	}

	created, err := s.registry.Get(cfg.Name)
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateLimits changes an axis's output bounds.
func (s *Server) handleUpdateLimits(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req limitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.registry.UpdateLimits(r.Context(), name, req.Min, req.Max); err != nil {
		switch {
		case errors.Is(err, axis.ErrNotFound):
			writeNotFound(w, "axis not found: "+name)
		case errors.Is(err, axis.ErrInvalidLimits):
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		default:
			writeInternalError(w, err.Error())
		}
		return
	}

	updated, err := s.registry.Get(name)
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
