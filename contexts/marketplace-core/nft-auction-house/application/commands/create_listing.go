package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	application "bazaar/contexts/marketplace-core/nft-auction-house/application"
	"bazaar/contexts/marketplace-core/nft-auction-house/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"
	"bazaar/internal/shared/keys"
)

// CreateListingCommand is the write-model input for opening a listing. A nil
// AuctionEnd opens a fixed-price sale; a future AuctionEnd opens an auction.
type CreateListingCommand struct {
	Seller          string
	NFTMint         string
	Creator         string
	Price           uint64
	MinBidIncrement uint64
	AuctionEnd      *time.Time
}

// CreateListing escrows the asset in marketplace custody and opens the
// listing. The listing id is derived from seller and mint, so relisting the
// same asset while a listing exists fails before the asset moves.
func (uc AuctionUseCase) CreateListing(ctx context.Context, cmd CreateListingCommand) (entities.Listing, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.now()

	listingID := keys.Listing(strings.TrimSpace(cmd.Seller), strings.TrimSpace(cmd.NFTMint))
	listing, err := entities.NewListing(
		listingID,
		cmd.Seller,
		cmd.NFTMint,
		cmd.Creator,
		cmd.Price,
		cmd.MinBidIncrement,
		cmd.AuctionEnd,
		now,
	)
	if err != nil {
		logger.Warn("listing validation failed",
			"event", "auction_listing_validation_failed",
			"module", "marketplace-core/nft-auction-house",
			"layer", "application",
			"seller", strings.TrimSpace(cmd.Seller),
			"nft_mint", strings.TrimSpace(cmd.NFTMint),
			"error", err.Error(),
		)
		return entities.Listing{}, err
	}

	if _, err := uc.Listings.GetListing(ctx, listingID); err == nil {
		return entities.Listing{}, domainerrors.ErrListingExists
	} else if !errors.Is(err, domainerrors.ErrListingNotFound) {
		return entities.Listing{}, err
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Listing{}, err
	}
	event, err := newAuctionEnvelope(eventID, "nft.listed", listingID, now, map[string]any{
		"listing_id":   listing.ListingID,
		"seller":       listing.Seller,
		"nft_mint":     listing.NFTMint,
		"creator":      listing.Creator,
		"price":        listing.Price,
		"listing_type": string(listing.ListingType),
		"auction_end":  formatOptionalTime(listing.AuctionEnd),
		"listed_at":    now.Format(time.RFC3339),
	})
	if err != nil {
		return entities.Listing{}, err
	}

	if err := uc.Assets.TransferAsset(ctx, listing.NFTMint, listing.Seller, CustodyAccount); err != nil {
		logger.Warn("listing asset escrow failed",
			"event", "auction_listing_escrow_failed",
			"module", "marketplace-core/nft-auction-house",
			"layer", "application",
			"listing_id", listingID,
			"error", err.Error(),
		)
		return entities.Listing{}, err
	}

	if err := uc.Listings.CreateListingWithOutbox(ctx, listing, event); err != nil {
		// Return the asset so a rejected listing never strands it in custody.
		if restoreErr := uc.Assets.TransferAsset(ctx, listing.NFTMint, CustodyAccount, listing.Seller); restoreErr != nil {
			logger.Error("listing asset restore failed",
				"event", "auction_listing_restore_failed",
				"module", "marketplace-core/nft-auction-house",
				"layer", "application",
				"listing_id", listingID,
				"error", restoreErr.Error(),
			)
		}
		return entities.Listing{}, err
	}

	logger.Info("listing created",
		"event", "auction_listing_created",
		"module", "marketplace-core/nft-auction-house",
		"layer", "application",
		"listing_id", listing.ListingID,
		"seller", listing.Seller,
		"listing_type", string(listing.ListingType),
		"price", listing.Price,
	)
	return listing, nil
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
