package settlementengine

import (
	"log/slog"

	"bazaar/contexts/finance-core/settlement-engine/adapters/memory"
	"bazaar/contexts/finance-core/settlement-engine/application"
	"bazaar/contexts/finance-core/settlement-engine/ports"
)

// Module is the composition surface for the settlement engine. Executor is
// what the marketplace modules consume; Ledger is exposed for tests and the
// in-memory bootstrap path.
type Module struct {
	Executor ports.Executor
	Ledger   *memory.Ledger
}

type Dependencies struct {
	Ledger ports.TokenLedger
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Executor: application.Service{
			Ledger: deps.Ledger,
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule wires the engine against the in-process ledger.
func NewInMemoryModule(seed map[string]uint64, logger *slog.Logger) Module {
	ledger := memory.NewLedger(seed)
	module := NewModule(Dependencies{Ledger: ledger, Logger: logger})
	module.Ledger = ledger
	return module
}
