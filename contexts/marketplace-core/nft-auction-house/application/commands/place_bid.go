package commands

import (
	"context"
	"strings"
	"time"

	"bazaar/contexts/finance-core/settlement-engine/domain/services"
	settlementports "bazaar/contexts/finance-core/settlement-engine/ports"
	application "bazaar/contexts/marketplace-core/nft-auction-house/application"
	"bazaar/contexts/marketplace-core/nft-auction-house/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"
)

// PlaceBidCommand is the write-model input for an auction bid.
type PlaceBidCommand struct {
	ListingID string
	Bidder    string
	Amount    uint64
}

// PlaceBid escrows the new bid and refunds the displaced bidder in one
// atomic ledger batch, so at most one bidder's funds are ever held per
// listing. The listing record is updated only after the batch applies.
func (uc AuctionUseCase) PlaceBid(ctx context.Context, cmd PlaceBidCommand) (entities.Listing, error) {
	logger := application.ResolveLogger(uc.Logger)
	listingID := strings.TrimSpace(cmd.ListingID)
	bidder := strings.TrimSpace(cmd.Bidder)
	if listingID == "" || bidder == "" {
		return entities.Listing{}, domainerrors.ErrInvalidListingInput
	}

	release, err := uc.lock(ctx, listingID)
	if err != nil {
		return entities.Listing{}, err
	}
	defer release()

	listing, err := uc.Listings.GetListing(ctx, listingID)
	if err != nil {
		return entities.Listing{}, err
	}
	if listing.Status != entities.ListingStatusActive {
		return entities.Listing{}, domainerrors.ErrListingNotActive
	}
	if !listing.IsAuction() {
		return entities.Listing{}, domainerrors.ErrNotAnAuction
	}
	now := uc.now()
	if listing.AuctionEnded(now) {
		return entities.Listing{}, domainerrors.ErrAuctionEnded
	}
	if bidder == listing.Seller {
		return entities.Listing{}, domainerrors.ErrSelfBidForbidden
	}

	minimum := listing.Price
	if listing.HighestBid != nil {
		minimum, err = services.CheckedAdd(listing.HighestBid.Amount, listing.MinBidIncrement)
		if err != nil {
			return entities.Listing{}, err
		}
	}
	if cmd.Amount < minimum {
		logger.Warn("bid below minimum",
			"event", "auction_bid_too_low",
			"module", "marketplace-core/nft-auction-house",
			"layer", "application",
			"listing_id", listingID,
			"bidder", bidder,
			"amount", cmd.Amount,
			"minimum", minimum,
		)
		return entities.Listing{}, domainerrors.ErrBidTooLow
	}

	escrow := EscrowAccount(listingID)
	movements := []settlementports.Movement{
		{From: bidder, To: escrow, Amount: cmd.Amount},
	}
	displaced := listing.HighestBid
	if displaced != nil {
		movements = append(movements, settlementports.Movement{
			From:   escrow,
			To:     displaced.Bidder,
			Amount: displaced.Amount,
		})
	}
	if err := uc.Funds.TransferBatch(ctx, movements); err != nil {
		logger.Warn("bid escrow batch failed",
			"event", "auction_bid_escrow_failed",
			"module", "marketplace-core/nft-auction-house",
			"layer", "application",
			"listing_id", listingID,
			"bidder", bidder,
			"amount", cmd.Amount,
			"error", err.Error(),
		)
		return entities.Listing{}, err
	}

	listing.HighestBid = &entities.Bid{Bidder: bidder, Amount: cmd.Amount}
	listing.UpdatedAt = now

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Listing{}, err
	}
	data := map[string]any{
		"listing_id": listingID,
		"bidder":     bidder,
		"amount":     cmd.Amount,
		"bid_at":     now.Format(time.RFC3339),
	}
	if displaced != nil {
		data["refunded_bidder"] = displaced.Bidder
		data["refunded_amount"] = displaced.Amount
	}
	event, err := newAuctionEnvelope(eventID, "nft.bid_placed", listingID, now, data)
	if err != nil {
		return entities.Listing{}, err
	}
	if err := uc.Listings.UpdateListingWithOutbox(ctx, listing, event); err != nil {
		return entities.Listing{}, err
	}

	logger.Info("bid placed",
		"event", "auction_bid_placed",
		"module", "marketplace-core/nft-auction-house",
		"layer", "application",
		"listing_id", listingID,
		"bidder", bidder,
		"amount", cmd.Amount,
	)
	return listing, nil
}
