package entities

import (
	"strings"
	"time"

	domainerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"
)

// Offer is a standing bid a buyer places on a listing outside the auction
// flow, keyed deterministically by buyer and listing. No funds are escrowed
// until the seller accepts.
type Offer struct {
	OfferID   string
	Buyer     string
	ListingID string
	Amount    uint64
	IsActive  bool
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewOffer(
	offerID string,
	buyer string,
	listingID string,
	amount uint64,
	expiresAt *time.Time,
	createdAt time.Time,
) (Offer, error) {
	buyer = strings.TrimSpace(buyer)
	if offerID == "" || buyer == "" || listingID == "" {
		return Offer{}, domainerrors.ErrInvalidListingInput
	}
	if amount == 0 {
		return Offer{}, domainerrors.ErrInvalidOfferAmount
	}
	if expiresAt != nil {
		if !expiresAt.After(createdAt) {
			return Offer{}, domainerrors.ErrInvalidOfferExpiry
		}
		at := expiresAt.UTC()
		expiresAt = &at
	}
	return Offer{
		OfferID:   offerID,
		Buyer:     buyer,
		ListingID: listingID,
		Amount:    amount,
		IsActive:  true,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: createdAt.UTC(),
	}, nil
}

// Expired reports whether the offer's expiry has passed at the given instant.
func (o Offer) Expired(now time.Time) bool {
	return o.ExpiresAt != nil && !now.Before(*o.ExpiresAt)
}
