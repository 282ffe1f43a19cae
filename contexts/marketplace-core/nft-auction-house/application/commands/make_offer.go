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

// MakeOfferCommand is the write-model input for a standing offer. ExpiresAt,
// when set, must lie in the future.
type MakeOfferCommand struct {
	ListingID string
	Buyer     string
	Amount    uint64
	ExpiresAt *time.Time
}

// MakeOffer records a standing offer against an active listing whose auction
// window, if any, is still open. No funds move until the seller accepts. One
// active offer per buyer and listing.
func (uc AuctionUseCase) MakeOffer(ctx context.Context, cmd MakeOfferCommand) (entities.Offer, error) {
	logger := application.ResolveLogger(uc.Logger)
	listingID := strings.TrimSpace(cmd.ListingID)
	buyer := strings.TrimSpace(cmd.Buyer)
	now := uc.now()

	offerID := keys.Offer(buyer, listingID)
	offer, err := entities.NewOffer(offerID, buyer, listingID, cmd.Amount, cmd.ExpiresAt, now)
	if err != nil {
		return entities.Offer{}, err
	}

	listing, err := uc.Listings.GetListing(ctx, listingID)
	if err != nil {
		return entities.Offer{}, err
	}
	if listing.Status != entities.ListingStatusActive {
		return entities.Offer{}, domainerrors.ErrListingNotActive
	}
	if listing.IsAuction() && listing.AuctionEnded(now) {
		return entities.Offer{}, domainerrors.ErrAuctionEnded
	}

	if existing, err := uc.Listings.GetOffer(ctx, offerID); err == nil {
		if existing.IsActive && !existing.Expired(now) {
			return entities.Offer{}, domainerrors.ErrOfferExists
		}
	} else if !errors.Is(err, domainerrors.ErrOfferNotFound) {
		return entities.Offer{}, err
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Offer{}, err
	}
	event, err := newAuctionEnvelope(eventID, "nft.offer_made", listingID, now, map[string]any{
		"offer_id":   offer.OfferID,
		"listing_id": listingID,
		"buyer":      buyer,
		"amount":     offer.Amount,
		"expires_at": formatOptionalTime(offer.ExpiresAt),
		"offered_at": now.Format(time.RFC3339),
	})
	if err != nil {
		return entities.Offer{}, err
	}
	if err := uc.Listings.CreateOfferWithOutbox(ctx, offer, event); err != nil {
		return entities.Offer{}, err
	}

	logger.Info("offer made",
		"event", "auction_offer_made",
		"module", "marketplace-core/nft-auction-house",
		"layer", "application",
		"offer_id", offer.OfferID,
		"listing_id", listingID,
		"buyer", buyer,
		"amount", offer.Amount,
	)
	return offer, nil
}

// CancelOfferCommand requests a buyer-owned offer cancellation.
type CancelOfferCommand struct {
	OfferID string
	Caller  string
}

// CancelOffer flips the caller's offer inactive. Repeating the call on an
// inactive offer is a no-op.
func (uc AuctionUseCase) CancelOffer(ctx context.Context, cmd CancelOfferCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	offerID := strings.TrimSpace(cmd.OfferID)
	caller := strings.TrimSpace(cmd.Caller)
	if offerID == "" || caller == "" {
		return domainerrors.ErrInvalidListingInput
	}

	offer, err := uc.Listings.GetOffer(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.Buyer != caller {
		return domainerrors.ErrUnauthorizedBuyer
	}
	if !offer.IsActive {
		return nil
	}

	offer.IsActive = false
	offer.UpdatedAt = uc.now()
	if err := uc.Listings.UpdateOffer(ctx, offer); err != nil {
		return err
	}

	logger.Info("offer cancelled",
		"event", "auction_offer_cancelled",
		"module", "marketplace-core/nft-auction-house",
		"layer", "application",
		"offer_id", offerID,
		"buyer", caller,
	)
	return nil
}
