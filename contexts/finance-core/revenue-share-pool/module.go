package revenuepool

import (
	"log/slog"

	httpadapter "bazaar/contexts/finance-core/revenue-share-pool/adapters/http"
	"bazaar/contexts/finance-core/revenue-share-pool/adapters/memory"
	"bazaar/contexts/finance-core/revenue-share-pool/application"
	"bazaar/contexts/finance-core/revenue-share-pool/ports"
	settlementmemory "bazaar/contexts/finance-core/settlement-engine/adapters/memory"
	settlementports "bazaar/contexts/finance-core/settlement-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service

	// In-memory wiring only. Nil when assembled over postgres.
	Store  *memory.Store
	Ledger *settlementmemory.Ledger
}

type Dependencies struct {
	Repo   ports.PoolRepository
	Ledger settlementports.TokenLedger
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repo,
		Ledger: deps.Ledger,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule assembles the pool over in-memory adapters with a seeded
// token ledger, for tests and local runs.
func NewInMemoryModule(balances map[string]uint64, logger *slog.Logger) Module {
	store := memory.NewStore()
	ledger := settlementmemory.NewLedger(balances)
	module := NewModule(Dependencies{
		Repo:   store,
		Ledger: ledger,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	module.Ledger = ledger
	return module
}
