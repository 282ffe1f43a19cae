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

// PurchaseListingCommand is the write-model input for a fixed-price buy.
type PurchaseListingCommand struct {
	ListingID string
	Buyer     string
}

// PurchaseListing settles a fixed-price sale at the asking price: fee split
// from the buyer account, asset custody to buyer, listing sold.
func (uc AuctionUseCase) PurchaseListing(ctx context.Context, cmd PurchaseListingCommand) (entities.Listing, error) {
	logger := application.ResolveLogger(uc.Logger)
	listingID := strings.TrimSpace(cmd.ListingID)
	buyer := strings.TrimSpace(cmd.Buyer)
	if listingID == "" || buyer == "" {
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
	if listing.IsAuction() {
		return entities.Listing{}, domainerrors.ErrNotFixedPrice
	}

	cfg, err := uc.Config.GetMarketplaceConfig(ctx)
	if err != nil {
		return entities.Listing{}, err
	}
	result, err := uc.Settlement.ExecuteSale(ctx, settlementports.Sale{
		Source:        buyer,
		Seller:        listing.Seller,
		Creator:       listing.Creator,
		Treasury:      cfg.Treasury,
		Price:         listing.Price,
		FeeBps:        cfg.FeeBps,
		CreatorFeeBps: cfg.CreatorFeeBps,
	})
	if err != nil {
		logger.Warn("fixed-price settlement failed",
			"event", "auction_purchase_settlement_failed",
			"module", "marketplace-core/nft-auction-house",
			"layer", "application",
			"listing_id", listingID,
			"buyer", buyer,
			"error", err.Error(),
		)
		return entities.Listing{}, err
	}

	if err := uc.Assets.TransferAsset(ctx, listing.NFTMint, CustodyAccount, buyer); err != nil {
		logger.Error("asset release to buyer failed",
			"event", "auction_purchase_asset_release_failed",
			"module", "marketplace-core/nft-auction-house",
			"layer", "application",
			"listing_id", listingID,
			"buyer", buyer,
			"error", err.Error(),
		)
		return entities.Listing{}, err
	}

	now := uc.now()
	listing.Status = entities.ListingStatusSold
	listing.UpdatedAt = now

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Listing{}, err
	}
	event, err := newAuctionEnvelope(eventID, "nft.sale_executed", listingID, now, map[string]any{
		"listing_id":    listingID,
		"seller":        listing.Seller,
		"buyer":         buyer,
		"nft_mint":      listing.NFTMint,
		"price":         listing.Price,
		"platform_fee":  result.Breakdown.PlatformFee,
		"creator_fee":   result.Breakdown.CreatorFee,
		"seller_amount": result.Breakdown.SellerAmount,
		"sale_kind":     "fixed_price",
		"sold_at":       now.Format(time.RFC3339),
	})
	if err != nil {
		return entities.Listing{}, err
	}
	if err := uc.Listings.FinalizeSaleWithOutbox(ctx, listing, nil, listing.Price, event); err != nil {
		return entities.Listing{}, err
	}

	logger.Info("fixed-price sale executed",
		"event", "auction_purchase_executed",
		"module", "marketplace-core/nft-auction-house",
		"layer", "application",
		"listing_id", listingID,
		"buyer", buyer,
		"price", listing.Price,
	)
	return listing, nil
}
