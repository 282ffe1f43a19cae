package commands

import (
	"context"
	"strings"
	"time"

	application "bazaar/contexts/marketplace-core/nft-auction-house/application"
	"bazaar/contexts/marketplace-core/nft-auction-house/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"
)

// CancelListingCommand requests a seller-owned listing cancellation.
type CancelListingCommand struct {
	ListingID string
	Caller    string
}

// CancelListing refunds any escrowed bid, returns the asset to the seller,
// and closes the listing.
func (uc AuctionUseCase) CancelListing(ctx context.Context, cmd CancelListingCommand) (entities.Listing, error) {
	logger := application.ResolveLogger(uc.Logger)
	listingID := strings.TrimSpace(cmd.ListingID)
	caller := strings.TrimSpace(cmd.Caller)
	if listingID == "" || caller == "" {
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
	if listing.Seller != caller {
		return entities.Listing{}, domainerrors.ErrUnauthorizedSeller
	}

	now := uc.now()
	refunded := listing.HighestBid
	if refunded != nil {
		if err := uc.Funds.Transfer(ctx, EscrowAccount(listingID), refunded.Bidder, refunded.Amount); err != nil {
			logger.Error("cancel refund failed",
				"event", "auction_cancel_refund_failed",
				"module", "marketplace-core/nft-auction-house",
				"layer", "application",
				"listing_id", listingID,
				"bidder", refunded.Bidder,
				"error", err.Error(),
			)
			return entities.Listing{}, err
		}
		listing.HighestBid = nil
	}

	if err := uc.Assets.TransferAsset(ctx, listing.NFTMint, CustodyAccount, listing.Seller); err != nil {
		logger.Error("cancel asset return failed",
			"event", "auction_cancel_asset_return_failed",
			"module", "marketplace-core/nft-auction-house",
			"layer", "application",
			"listing_id", listingID,
			"error", err.Error(),
		)
		return entities.Listing{}, err
	}

	listing.Status = entities.ListingStatusCancelled
	listing.UpdatedAt = now

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Listing{}, err
	}
	data := map[string]any{
		"listing_id":   listingID,
		"seller":       listing.Seller,
		"nft_mint":     listing.NFTMint,
		"cancelled_at": now.Format(time.RFC3339),
	}
	if refunded != nil {
		data["refunded_bidder"] = refunded.Bidder
		data["refunded_amount"] = refunded.Amount
	}
	event, err := newAuctionEnvelope(eventID, "nft.listing_cancelled", listingID, now, data)
	if err != nil {
		return entities.Listing{}, err
	}
	if err := uc.Listings.UpdateListingWithOutbox(ctx, listing, event); err != nil {
		return entities.Listing{}, err
	}

	logger.Info("listing cancelled",
		"event", "auction_listing_cancelled",
		"module", "marketplace-core/nft-auction-house",
		"layer", "application",
		"listing_id", listingID,
	)
	return listing, nil
}
