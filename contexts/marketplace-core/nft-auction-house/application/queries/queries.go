package queries

import (
	"context"

	"bazaar/contexts/marketplace-core/nft-auction-house/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"
	"bazaar/contexts/marketplace-core/nft-auction-house/ports"
)

const defaultPageSize = 50

// Queries exposes the read side of listings and offers.
type Queries struct {
	repo ports.ListingRepository
}

func New(repo ports.ListingRepository) *Queries {
	return &Queries{repo: repo}
}

func (q *Queries) GetListing(ctx context.Context, listingID string) (entities.Listing, error) {
	if listingID == "" {
		return entities.Listing{}, domainerrors.ErrInvalidListingInput
	}
	return q.repo.GetListing(ctx, listingID)
}

func (q *Queries) ListListings(ctx context.Context, filter ports.ListingFilter) ([]entities.Listing, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return q.repo.ListListings(ctx, filter)
}

func (q *Queries) GetOffer(ctx context.Context, offerID string) (entities.Offer, error) {
	if offerID == "" {
		return entities.Offer{}, domainerrors.ErrInvalidListingInput
	}
	return q.repo.GetOffer(ctx, offerID)
}

func (q *Queries) ListOffersByListing(ctx context.Context, listingID string) ([]entities.Offer, error) {
	if listingID == "" {
		return nil, domainerrors.ErrInvalidListingInput
	}
	return q.repo.ListOffersByListing(ctx, listingID)
}
