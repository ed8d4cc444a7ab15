package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shlokapp/narrate-server/internal/domain"
	"github.com/shlokapp/narrate-server/internal/http/response"
	"github.com/shlokapp/narrate-server/internal/id"
)

// LoadReadingRequest is the request body for starting a playback session.
type LoadReadingRequest struct {
	SessionID  string `json:"session_id"`
	ReadingID  int    `json:"reading_id" validate:"gte=0"`
	ReadingKey string `json:"reading_key" validate:"required"`
	Language   string `json:"language"`
}

// handleLoadReading starts (or restarts) a playback session on a reading.
// POST /api/v1/playback/load
func (s *Server) handleLoadReading(w http.ResponseWriter, r *http.Request) {
	var req LoadReadingRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if req.SessionID == "" {
		sessionID, err := id.Generate("ses")
		if err != nil {
			s.logger.Error("Failed to generate session ID", "error", err)
			response.InternalError(w, "Failed to create session", s.logger)
			return
		}
		req.SessionID = sessionID
	}
	if req.Language == "" {
		req.Language = defaultLanguage
	}

	view, err := s.playback.LoadReading(r.Context(), req.SessionID, req.ReadingID, req.ReadingKey, req.Language)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, view, s.logger)
}

// handleGetSession returns the session snapshot.
// GET /api/v1/playback/{sessionID}
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.playback.View(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, view, s.logger)
}

// handleGetPosition returns the session's live playback position.
// GET /api/v1/playback/{sessionID}/position
func (s *Server) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	pos, err := s.playback.Position(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, pos, s.logger)
}

// handleGetHighlight returns the session's current highlight state.
// GET /api/v1/playback/{sessionID}/highlight
func (s *Server) handleGetHighlight(w http.ResponseWriter, r *http.Request) {
	highlight, err := s.playback.Highlight(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, highlight, s.logger)
}

// timeRequest carries a time value in seconds.
type timeRequest struct {
	Seconds float64 `json:"seconds" validate:"gte=0"`
}

// handlePushTime records a client-observed playback time.
// POST /api/v1/playback/{sessionID}/time
func (s *Server) handlePushTime(w http.ResponseWriter, r *http.Request) {
	var req timeRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.playback.PushTime(chi.URLParam(r, "sessionID"), req.Seconds); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handlePlay resumes the session's modeled engine.
// POST /api/v1/playback/{sessionID}/play
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	if err := s.playback.Play(chi.URLParam(r, "sessionID")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handlePause freezes the session's modeled engine.
// POST /api/v1/playback/{sessionID}/pause
func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := s.playback.Pause(chi.URLParam(r, "sessionID")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleSeek moves the session's modeled engine.
// POST /api/v1/playback/{sessionID}/seek
func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var req timeRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.playback.Seek(chi.URLParam(r, "sessionID"), req.Seconds); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// ActionRequest is the request body for dispatching a player action.
type ActionRequest struct {
	Type  string  `json:"type" validate:"required,oneof=minimize dismiss mark_listened set_speed toggle_speed_panel"`
	Value float64 `json:"value"`
}

// handleAction dispatches a player state machine action.
// POST /api/v1/playback/{sessionID}/actions
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var action domain.PlayerAction
	switch req.Type {
	case "minimize":
		action = domain.Minimize{}
	case "dismiss":
		action = domain.Dismiss{}
	case "mark_listened":
		action = domain.MarkListened{}
	case "set_speed":
		if req.Value <= 0 || req.Value > 4 {
			response.BadRequest(w, "Speed must be between 0 and 4", s.logger)
			return
		}
		action = domain.SetSpeed{Value: req.Value}
	case "toggle_speed_panel":
		action = domain.ToggleSpeedPanel{}
	}

	state, err := s.playback.Apply(r.Context(), chi.URLParam(r, "sessionID"), action)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, state, s.logger)
}
