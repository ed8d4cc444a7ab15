package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shlokapp/narrate-server/internal/config"
	"github.com/shlokapp/narrate-server/internal/logger"
	"github.com/shlokapp/narrate-server/internal/service"
)

// LibraryHandle wraps the library service with Shutdownable so the
// filesystem watcher is stopped on container teardown.
type LibraryHandle struct {
	*service.LibraryService
}

// Shutdown implements do.Shutdownable.
func (h *LibraryHandle) Shutdown() error {
	return h.Close()
}

// ProvideLibraryService provides the reading library, performs the
// initial ingest of the readings directory and starts the watcher.
func ProvideLibraryService(i do.Injector) (*LibraryHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	library := service.NewLibraryService(storeHandle.Store, indexHandle.Index, cfg.Data.ReadingsPath, log.Logger)

	ctx := context.Background()
	count, err := library.IngestDir(ctx)
	if err != nil {
		log.WithError(err).Warn("Initial reading ingest failed")
	} else {
		log.Info("Reading library ingested", "readings", count)
	}

	if err := library.Watch(ctx); err != nil {
		log.WithError(err).Warn("Readings directory watcher unavailable")
	}

	return &LibraryHandle{LibraryService: library}, nil
}

// PlaybackHandle wraps the playback service with Shutdownable so open
// sessions persist their progress on container teardown.
type PlaybackHandle struct {
	*service.PlaybackService
}

// Shutdown implements do.Shutdownable.
func (h *PlaybackHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	h.PlaybackService.Shutdown(ctx)
	return nil
}

// ProvidePlaybackService provides the playback session manager.
func ProvidePlaybackService(i do.Injector) (*PlaybackHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	libraryHandle := do.MustInvoke[*LibraryHandle](i)

	playback := service.NewPlaybackService(storeHandle.Store, libraryHandle.LibraryService, service.PlaybackOptions{
		SampleInterval:   cfg.Playback.SampleInterval,
		PersistInterval:  cfg.Playback.PersistInterval,
		MaxSentenceWords: cfg.Playback.MaxSentenceWords,
	}, log.Logger)

	return &PlaybackHandle{PlaybackService: playback}, nil
}
