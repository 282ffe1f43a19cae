package marketplaceconfig

import (
	"log/slog"

	httpadapter "bazaar/contexts/marketplace-core/marketplace-config/adapters/http"
	"bazaar/contexts/marketplace-core/marketplace-config/adapters/memory"
	"bazaar/contexts/marketplace-core/marketplace-config/application"
	"bazaar/contexts/marketplace-core/marketplace-config/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// NewInMemoryModule wires the module against the in-memory store.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
