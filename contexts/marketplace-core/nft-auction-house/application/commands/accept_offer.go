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

// AcceptOfferCommand is the seller's request to close a standing offer.
type AcceptOfferCommand struct {
	OfferID string
	Caller  string
}

// AcceptOffer settles the sale at the offer amount from the buyer account,
// releases the asset to the buyer, and flips listing and offer in one
// repository transaction. A standing auction bid is refunded only after the
// settlement succeeds. An ended auction cannot close via an offer; it
// belongs to SettleAuction. An expired offer is marked inactive and
// rejected.
func (uc AuctionUseCase) AcceptOffer(ctx context.Context, cmd AcceptOfferCommand) (entities.Listing, error) {
	logger := application.ResolveLogger(uc.Logger)
	offerID := strings.TrimSpace(cmd.OfferID)
	caller := strings.TrimSpace(cmd.Caller)
	if offerID == "" || caller == "" {
		return entities.Listing{}, domainerrors.ErrInvalidListingInput
	}

	offer, err := uc.Listings.GetOffer(ctx, offerID)
	if err != nil {
		return entities.Listing{}, err
	}

	release, err := uc.lock(ctx, offer.ListingID)
	if err != nil {
		return entities.Listing{}, err
	}
	defer release()

	// Re-read under the lock.
	offer, err = uc.Listings.GetOffer(ctx, offerID)
	if err != nil {
		return entities.Listing{}, err
	}
	listing, err := uc.Listings.GetListing(ctx, offer.ListingID)
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
	if listing.IsAuction() && listing.AuctionEnded(now) {
		return entities.Listing{}, domainerrors.ErrAuctionEnded
	}
	if !offer.IsActive {
		return entities.Listing{}, domainerrors.ErrOfferNotActive
	}
	if offer.Expired(now) {
		offer.IsActive = false
		offer.UpdatedAt = now
		if err := uc.Listings.UpdateOffer(ctx, offer); err != nil {
			return entities.Listing{}, err
		}
		return entities.Listing{}, domainerrors.ErrOfferNotActive
	}

	cfg, err := uc.Config.GetMarketplaceConfig(ctx)
	if err != nil {
		return entities.Listing{}, err
	}
	result, err := uc.Settlement.ExecuteSale(ctx, settlementports.Sale{
		Source:        offer.Buyer,
		Seller:        listing.Seller,
		Creator:       listing.Creator,
		Treasury:      cfg.Treasury,
		Price:         offer.Amount,
		FeeBps:        cfg.FeeBps,
		CreatorFeeBps: cfg.CreatorFeeBps,
	})
	if err != nil {
		logger.Warn("offer settlement failed",
			"event", "auction_offer_settlement_failed",
			"module", "marketplace-core/nft-auction-house",
			"layer", "application",
			"offer_id", offerID,
			"listing_id", listing.ListingID,
			"error", err.Error(),
		)
		return entities.Listing{}, err
	}

	// A standing bid belongs to the auction path; the escrowed funds go back
	// to the displaced bidder only once the buyer's settlement has cleared.
	if listing.HighestBid != nil {
		if err := uc.Funds.Transfer(ctx, EscrowAccount(listing.ListingID), listing.HighestBid.Bidder, listing.HighestBid.Amount); err != nil {
			logger.Error("displaced bid refund failed",
				"event", "auction_offer_bid_refund_failed",
				"module", "marketplace-core/nft-auction-house",
				"layer", "application",
				"offer_id", offerID,
				"listing_id", listing.ListingID,
				"bidder", listing.HighestBid.Bidder,
				"error", err.Error(),
			)
			return entities.Listing{}, err
		}
		listing.HighestBid = nil
	}

	if err := uc.Assets.TransferAsset(ctx, listing.NFTMint, CustodyAccount, offer.Buyer); err != nil {
		logger.Error("asset release to offer buyer failed",
			"event", "auction_offer_asset_release_failed",
			"module", "marketplace-core/nft-auction-house",
			"layer", "application",
			"offer_id", offerID,
			"listing_id", listing.ListingID,
			"error", err.Error(),
		)
		return entities.Listing{}, err
	}

	listing.Status = entities.ListingStatusSold
	listing.UpdatedAt = now
	offer.IsActive = false
	offer.UpdatedAt = now

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Listing{}, err
	}
	event, err := newAuctionEnvelope(eventID, "nft.sale_executed", listing.ListingID, now, map[string]any{
		"listing_id":    listing.ListingID,
		"offer_id":      offer.OfferID,
		"seller":        listing.Seller,
		"buyer":         offer.Buyer,
		"nft_mint":      listing.NFTMint,
		"price":         offer.Amount,
		"platform_fee":  result.Breakdown.PlatformFee,
		"creator_fee":   result.Breakdown.CreatorFee,
		"seller_amount": result.Breakdown.SellerAmount,
		"sale_kind":     "offer_accepted",
		"sold_at":       now.Format(time.RFC3339),
	})
	if err != nil {
		return entities.Listing{}, err
	}
	if err := uc.Listings.FinalizeSaleWithOutbox(ctx, listing, &offer, offer.Amount, event); err != nil {
		return entities.Listing{}, err
	}

	logger.Info("offer accepted",
		"event", "auction_offer_accepted",
		"module", "marketplace-core/nft-auction-house",
		"layer", "application",
		"offer_id", offer.OfferID,
		"listing_id", listing.ListingID,
		"buyer", offer.Buyer,
		"price", offer.Amount,
	)
	return listing, nil
}
