package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "bazaar/contexts/marketplace-core/nft-auction-house/application"
	"bazaar/contexts/marketplace-core/nft-auction-house/application/commands"
	domainerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"
	"bazaar/contexts/marketplace-core/nft-auction-house/ports"
)

// AuctionSweeper settles ended auctions that nobody settled explicitly.
// Settlement stays lazy on the request path; the sweeper is the backstop
// that bounds how long an ended auction can sit unresolved.
type AuctionSweeper struct {
	Listings  ports.ListingRepository
	Auctions  commands.AuctionUseCase
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce settles one bounded batch of expired auctions. A listing that was
// settled or locked concurrently is skipped, not treated as a failure.
func (s AuctionSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(s.Logger)
	limit := s.BatchSize
	if limit <= 0 {
		limit = 50
	}
	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock.Now().UTC()
	}

	expired, err := s.Listings.ListExpiredAuctions(ctx, now, limit)
	if err != nil {
		logger.Error("auction sweep list failed",
			"event", "auction_sweep_list_failed",
			"module", "marketplace-core/nft-auction-house",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	settled := 0
	for _, listing := range expired {
		_, err := s.Auctions.SettleAuction(ctx, commands.SettleAuctionCommand{ListingID: listing.ListingID})
		switch {
		case err == nil:
			settled++
		case errors.Is(err, domainerrors.ErrListingNotActive),
			errors.Is(err, domainerrors.ErrAuctionNotEnded),
			errors.Is(err, domainerrors.ErrLockHeld):
			continue
		default:
			logger.Error("auction sweep settlement failed",
				"event", "auction_sweep_settlement_failed",
				"module", "marketplace-core/nft-auction-house",
				"layer", "worker",
				"listing_id", listing.ListingID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("auction sweep cycle completed",
		"event", "auction_sweep_completed",
		"module", "marketplace-core/nft-auction-house",
		"layer", "worker",
		"expired_count", len(expired),
		"settled_count", settled,
	)
	return nil
}
