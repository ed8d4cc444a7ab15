package providers

import (
	"github.com/samber/do/v2"

	"github.com/shlokapp/narrate-server/internal/config"
	"github.com/shlokapp/narrate-server/internal/logger"
	"github.com/shlokapp/narrate-server/internal/store"
)

// StoreHandle wraps the store with Shutdownable for the container.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the Badger-backed store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := store.New(cfg.Data.StorePath, log.Logger)
	if err != nil {
		return nil, err
	}
	return &StoreHandle{Store: st}, nil
}
