package commands

import (
	"context"
	"strings"
	"time"

	settlementports "bazaar/contexts/finance-core/settlement-engine/ports"
	application "bazaar/contexts/marketplace-core/nft-auction-house/application"
	"bazaar/contexts/marketplace-core/nft-auction-house/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"
)

// SettleAuctionCommand closes an ended auction. Anyone may trigger it; the
// sweeper worker calls the same path.
type SettleAuctionCommand struct {
	ListingID string
}

// SettleAuction finalizes an auction once its end has passed. With a
// standing bid the escrowed funds are split to seller, creator, and treasury
// and the asset goes to the winner. With no bids the asset returns to the
// seller and no funds move.
func (uc AuctionUseCase) SettleAuction(ctx context.Context, cmd SettleAuctionCommand) (entities.Listing, error) {
	logger := application.ResolveLogger(uc.Logger)
	listingID := strings.TrimSpace(cmd.ListingID)
	if listingID == "" {
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
	if !listing.AuctionEnded(now) {
		return entities.Listing{}, domainerrors.ErrAuctionNotEnded
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Listing{}, err
	}

	if listing.HighestBid == nil {
		if err := uc.Assets.TransferAsset(ctx, listing.NFTMint, CustodyAccount, listing.Seller); err != nil {
			return entities.Listing{}, err
		}
		listing.Status = entities.ListingStatusSettled
		listing.UpdatedAt = now

		event, err := newAuctionEnvelope(eventID, "nft.auction_ended", listingID, now, map[string]any{
			"listing_id": listingID,
			"seller":     listing.Seller,
			"nft_mint":   listing.NFTMint,
			"winner":     "",
			"price":      uint64(0),
			"settled_at": now.Format(time.RFC3339),
		})
		if err != nil {
			return entities.Listing{}, err
		}
		if err := uc.Listings.UpdateListingWithOutbox(ctx, listing, event); err != nil {
			return entities.Listing{}, err
		}
		logger.Info("auction settled without bids",
			"event", "auction_settled_no_bids",
			"module", "marketplace-core/nft-auction-house",
			"layer", "application",
			"listing_id", listingID,
		)
		return listing, nil
	}

	winner := *listing.HighestBid
	cfg, err := uc.Config.GetMarketplaceConfig(ctx)
	if err != nil {
		return entities.Listing{}, err
	}
	// The winning bid already sits in the listing escrow, so the escrow
	// account is the settlement source.
	result, err := uc.Settlement.ExecuteSale(ctx, settlementports.Sale{
		Source:        EscrowAccount(listingID),
		Seller:        listing.Seller,
		Creator:       listing.Creator,
		Treasury:      cfg.Treasury,
		Price:         winner.Amount,
		FeeBps:        cfg.FeeBps,
		CreatorFeeBps: cfg.CreatorFeeBps,
	})
	if err != nil {
		logger.Error("auction settlement failed",
			"event", "auction_settlement_failed",
			"module", "marketplace-core/nft-auction-house",
			"layer", "application",
			"listing_id", listingID,
			"winner", winner.Bidder,
			"error", err.Error(),
		)
		return entities.Listing{}, err
	}

	if err := uc.Assets.TransferAsset(ctx, listing.NFTMint, CustodyAccount, winner.Bidder); err != nil {
		logger.Error("asset release to winner failed",
			"event", "auction_settlement_asset_release_failed",
			"module", "marketplace-core/nft-auction-house",
			"layer", "application",
			"listing_id", listingID,
			"winner", winner.Bidder,
			"error", err.Error(),
		)
		return entities.Listing{}, err
	}

	listing.Status = entities.ListingStatusSettled
	listing.HighestBid = nil
	listing.UpdatedAt = now

	event, err := newAuctionEnvelope(eventID, "nft.auction_ended", listingID, now, map[string]any{
		"listing_id":    listingID,
		"seller":        listing.Seller,
		"nft_mint":      listing.NFTMint,
		"winner":        winner.Bidder,
		"price":         winner.Amount,
		"platform_fee":  result.Breakdown.PlatformFee,
		"creator_fee":   result.Breakdown.CreatorFee,
		"seller_amount": result.Breakdown.SellerAmount,
		"settled_at":    now.Format(time.RFC3339),
	})
	if err != nil {
		return entities.Listing{}, err
	}
	if err := uc.Listings.FinalizeSaleWithOutbox(ctx, listing, nil, winner.Amount, event); err != nil {
		return entities.Listing{}, err
	}

	logger.Info("auction settled",
		"event", "auction_settled",
		"module", "marketplace-core/nft-auction-house",
		"layer", "application",
		"listing_id", listingID,
		"winner", winner.Bidder,
		"price", winner.Amount,
	)
	return listing, nil
}
