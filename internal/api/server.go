// Package api provides the HTTP API server and handlers for the narrate
// application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shlokapp/narrate-server/internal/http/response"
	"github.com/shlokapp/narrate-server/internal/ratelimit"
	"github.com/shlokapp/narrate-server/internal/service"
	"github.com/shlokapp/narrate-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	library       *service.LibraryService
	playback      *service.PlaybackService
	searchLimiter *ratelimit.KeyedRateLimiter
	validate      *validation.Validator
	router        *chi.Mux
	logger        *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(library *service.LibraryService, playback *service.PlaybackService, searchLimiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Server {
	s := &Server{
		library:       library,
		playback:      playback,
		searchLimiter: searchLimiter,
		validate:      validation.New(),
		router:        chi.NewRouter(),
		logger:        logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Session-ID"},
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/readings", func(r chi.Router) {
			r.Get("/", s.handleListReadings)
			r.Get("/key", s.handleReadingKey)
			r.Get("/{key}", s.handleGetReading)
		})

		r.Post("/assets", s.handleMarkAssetDownloaded)

		r.With(s.rateLimitSearch).Get("/search", s.handleSearch)

		r.Route("/playback", func(r chi.Router) {
			r.Post("/load", s.handleLoadReading)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Get("/position", s.handleGetPosition)
				r.Get("/highlight", s.handleGetHighlight)
				r.Post("/time", s.handlePushTime)
				r.Post("/play", s.handlePlay)
				r.Post("/pause", s.handlePause)
				r.Post("/seek", s.handleSeek)
				r.Post("/actions", s.handleAction)
			})
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}

// rateLimitSearch rejects search requests over the per-client rate.
func (s *Server) rateLimitSearch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.searchLimiter != nil && !s.searchLimiter.Allow(r.RemoteAddr) {
			response.TooManyRequests(w, "Too many search requests", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}
