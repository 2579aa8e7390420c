package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tcode-works/motioncore/internal/axis"
	"github.com/tcode-works/motioncore/internal/motion"
)

// moveRequest is the payload for POST /movement/move.
type moveRequest struct {
	Movements []movementEntry `json:"movements"`
}

// movementEntry is one per-axis movement. To accepts a number or a
// boolean, matching the axis type.
type movementEntry struct {
	Axis     string          `json:"axis,omitempty"`
	To       json.RawMessage `json:"to,omitempty"`
	Speed    *float64        `json:"speed,omitempty"`
	Duration *float64        `json:"duration,omitempty"`
	Sync     string          `json:"sync,omitempty"`
}

// toRequest converts a wire entry into an engine request.
func (e movementEntry) toRequest() (motion.Request, error) {
	req := motion.Request{
		Axis:     e.Axis,
		Speed:    e.Speed,
		Duration: e.Duration,
		Sync:     e.Sync,
	}

	if len(e.To) > 0 {
		var num float64
		if err := json.Unmarshal(e.To, &num); err == nil {
			v := axis.Number(num)
			req.To = &v
			return req, nil
		}
		var on bool
		if err := json.Unmarshal(e.To, &on); err != nil {
			return motion.Request{}, errors.New("to must be a number or a boolean")
		}
		v := axis.Boolean(on)
		req.To = &v
	}
	return req, nil
}

// handleMove queues and executes a movement batch. The response reports
// whether the batch ran to completion or was cancelled.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	reqs := make([]motion.Request, 0, len(req.Movements))
	for _, e := range req.Movements {
		mr, err := e.toRequest()
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
		reqs = append(reqs, mr)
	}

	completed, err := s.engine.Move(r.Context(), reqs...)
	if err != nil {
		if errors.Is(err, motion.ErrInvalidMovement) {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"completed": completed})
}

// handleHome returns every positional axis to its midpoint.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	completed, err := s.engine.Home(r.Context())
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"completed": completed})
}

// handleStop cancels the executing movement and clears the queue.
func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request) {
	s.engine.Stop()
	writeJSON(w, http.StatusOK, map[string]any{"stopped": true})
}

// defaultAxisRequest is the payload for PUT /default-axis.
type defaultAxisRequest struct {
	Axis string `json:"axis"`
}

// handleSetDefaultAxis changes the axis used by requests that omit one.
func (s *Server) handleSetDefaultAxis(w http.ResponseWriter, r *http.Request) {
	var req defaultAxisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.engine.SetDefaultAxis(req.Axis); err != nil {
		if errors.Is(err, axis.ErrNotFound) {
			writeNotFound(w, "axis not found: "+req.Axis)
			return
		}
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"axis": s.engine.DefaultAxis()})
}
