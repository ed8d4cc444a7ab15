package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shlokapp/narrate-server/internal/domain"
	"github.com/shlokapp/narrate-server/internal/http/response"
)

// defaultLanguage is used when a request does not name one.
const defaultLanguage = "hi"

// handleListReadings returns summaries of every stored reading.
// GET /api/v1/readings
func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.library.ListReadings(r.Context())
	if err != nil {
		s.logger.Error("Failed to list readings", "error", err)
		response.InternalError(w, "Failed to retrieve readings", s.logger)
		return
	}
	response.Success(w, summaries, s.logger)
}

// handleGetReading returns one aligned reading.
// GET /api/v1/readings/{key}?lang=hi
func (s *Server) handleGetReading(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		response.BadRequest(w, "Reading key is required", s.logger)
		return
	}
	language := languageParam(r)

	reading, err := s.library.GetReading(r.Context(), key, language)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, reading, s.logger)
}

// handleReadingKey derives the artifact key for a chapter and verse range and
// reports whether a reading is stored under it.
// GET /api/v1/readings/key?chapter=1&verses=1-3&lang=hi
func (s *Server) handleReadingKey(w http.ResponseWriter, r *http.Request) {
	chapter, err := strconv.Atoi(r.URL.Query().Get("chapter"))
	if err != nil {
		response.BadRequest(w, "chapter must be a number", s.logger)
		return
	}

	key, err := domain.ReadingKey(chapter, r.URL.Query().Get("verses"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	available, err := s.library.HasReading(r.Context(), key, languageParam(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"reading_key": key,
		"available":   available,
	}, s.logger)
}

// MarkAssetRequest is the request body for recording a downloaded audio asset.
type MarkAssetRequest struct {
	AudioFileRef string `json:"audio_file_ref" validate:"required"`
	LocalPath    string `json:"local_path" validate:"required"`
}

// handleMarkAssetDownloaded records that an audio asset is available locally.
// POST /api/v1/assets
func (s *Server) handleMarkAssetDownloaded(w http.ResponseWriter, r *http.Request) {
	var req MarkAssetRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.library.MarkAssetDownloaded(r.Context(), req.AudioFileRef, req.LocalPath); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// languageParam reads the lang query parameter with the app default.
func languageParam(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return defaultLanguage
}
