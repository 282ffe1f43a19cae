package componentregistry

import (
	"log/slog"

	settlementengine "bazaar/contexts/finance-core/settlement-engine"
	settlementmemory "bazaar/contexts/finance-core/settlement-engine/adapters/memory"
	settlementports "bazaar/contexts/finance-core/settlement-engine/ports"
	httpadapter "bazaar/contexts/marketplace-core/component-registry/adapters/http"
	"bazaar/contexts/marketplace-core/component-registry/adapters/memory"
	"bazaar/contexts/marketplace-core/component-registry/application/commands"
	"bazaar/contexts/marketplace-core/component-registry/application/queries"
	"bazaar/contexts/marketplace-core/component-registry/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Catalog commands.CatalogUseCase
	Queries *queries.Queries

	// In-memory wiring only. Nil when assembled over postgres.
	Store  *memory.Store
	Ledger *settlementmemory.Ledger
}

type Dependencies struct {
	Components ports.ComponentRepository
	Config     ports.ConfigStore
	Settlement settlementports.Executor
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	catalog := commands.CatalogUseCase{
		Components: deps.Components,
		Config:     deps.Config,
		Settlement: deps.Settlement,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	reads := queries.New(deps.Components)
	return Module{
		Handler: httpadapter.Handler{
			Catalog: catalog,
			Queries: reads,
			Logger:  deps.Logger,
		},
		Catalog: catalog,
		Queries: reads,
	}
}

// NewInMemoryModule assembles the registry over in-memory adapters with a
// seeded token ledger, for tests and local runs.
func NewInMemoryModule(config ports.MarketplaceView, balances map[string]uint64, logger *slog.Logger) Module {
	store := memory.NewStore(config)
	settlement := settlementengine.NewInMemoryModule(balances, logger)
	module := NewModule(Dependencies{
		Components: store,
		Config:     store,
		Settlement: settlement.Executor,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	module.Ledger = settlement.Ledger
	return module
}
