package api

import (
	"net/http"
	"strconv"

	"github.com/shlokapp/narrate-server/internal/http/response"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// handleSearch runs a text search over reading sections. Each result carries
// the highlight request the client forwards when navigating to the match.
// GET /api/v1/search?q=dharma&limit=10
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := s.library.Search(r.Context(), query, searchLimit(r.URL.Query().Get("limit")))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, results, s.logger)
}

// searchLimit parses the limit query parameter, capped so a single request
// cannot drive an arbitrarily large index query.
func searchLimit(raw string) int {
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return defaultSearchLimit
	}
	if parsed > maxSearchLimit {
		return maxSearchLimit
	}
	return parsed
}
