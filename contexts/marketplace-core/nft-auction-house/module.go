package auctionhouse

import (
	"log/slog"

	settlementengine "bazaar/contexts/finance-core/settlement-engine"
	settlementmemory "bazaar/contexts/finance-core/settlement-engine/adapters/memory"
	settlementports "bazaar/contexts/finance-core/settlement-engine/ports"
	httpadapter "bazaar/contexts/marketplace-core/nft-auction-house/adapters/http"
	"bazaar/contexts/marketplace-core/nft-auction-house/adapters/memory"
	"bazaar/contexts/marketplace-core/nft-auction-house/application/commands"
	"bazaar/contexts/marketplace-core/nft-auction-house/application/queries"
	"bazaar/contexts/marketplace-core/nft-auction-house/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Auctions commands.AuctionUseCase
	Queries  *queries.Queries

	// In-memory wiring only. Nil when assembled over postgres.
	Store  *memory.Store
	Assets *memory.AssetLedger
	Ledger *settlementmemory.Ledger
}

type Dependencies struct {
	Listings   ports.ListingRepository
	Config     ports.ConfigStore
	Settlement settlementports.Executor
	Funds      settlementports.TokenLedger
	Assets     ports.AssetLedger
	Locker     ports.ListingLocker
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	auctions := commands.AuctionUseCase{
		Listings:   deps.Listings,
		Config:     deps.Config,
		Settlement: deps.Settlement,
		Funds:      deps.Funds,
		Assets:     deps.Assets,
		Locker:     deps.Locker,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	reads := queries.New(deps.Listings)
	return Module{
		Handler: httpadapter.Handler{
			Auctions: auctions,
			Queries:  reads,
			Logger:   deps.Logger,
		},
		Auctions: auctions,
		Queries:  reads,
	}
}

// NewInMemoryModule assembles the auction house over in-memory adapters with
// seeded token balances and asset owners, for tests and local runs.
func NewInMemoryModule(
	config ports.MarketplaceView,
	balances map[string]uint64,
	assetOwners map[string]string,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(config)
	assets := memory.NewAssetLedger(assetOwners)
	settlement := settlementengine.NewInMemoryModule(balances, logger)
	module := NewModule(Dependencies{
		Listings:   store,
		Config:     store,
		Settlement: settlement.Executor,
		Funds:      settlement.Ledger,
		Assets:     assets,
		Locker:     memory.NewLocker(),
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	module.Assets = assets
	module.Ledger = settlement.Ledger
	return module
}
