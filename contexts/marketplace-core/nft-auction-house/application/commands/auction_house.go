package commands

import (
	"context"
	"log/slog"
	"time"

	settlementports "bazaar/contexts/finance-core/settlement-engine/ports"
	"bazaar/contexts/marketplace-core/nft-auction-house/ports"
)

// CustodyAccount holds every listed asset while its listing is active.
const CustodyAccount = "marketplace-custody"

// EscrowAccount names the per-listing account holding the standing bid.
func EscrowAccount(listingID string) string {
	return "escrow:" + listingID
}

// AuctionUseCase orchestrates the auction-house commands. Per-listing
// mutations run under the listing lock so concurrent bids, purchases, and
// settlement never interleave on one listing.
type AuctionUseCase struct {
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

func (uc AuctionUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc AuctionUseCase) lock(ctx context.Context, listingID string) (func(), error) {
	if uc.Locker == nil {
		return func() {}, nil
	}
	return uc.Locker.Acquire(ctx, listingID)
}
