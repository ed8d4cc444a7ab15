package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/shlokapp/narrate-server/internal/api"
	"github.com/shlokapp/narrate-server/internal/config"
	"github.com/shlokapp/narrate-server/internal/logger"
	"github.com/shlokapp/narrate-server/internal/ratelimit"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	libraryHandle := do.MustInvoke[*LibraryHandle](i)
	playbackHandle := do.MustInvoke[*PlaybackHandle](i)

	searchLimiter := ratelimit.New(cfg.Search.RateLimitRPS, cfg.Search.RateLimitBurst)

	handler := api.NewServer(libraryHandle.LibraryService, playbackHandle.PlaybackService, searchLimiter, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
