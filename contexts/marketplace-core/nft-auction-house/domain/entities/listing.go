package entities

import (
	"strings"
	"time"

	domainerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"
)

type ListingType string

const (
	ListingTypeFixedPrice ListingType = "fixed_price"
	ListingTypeAuction    ListingType = "auction"
)

type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "active"
	ListingStatusSold      ListingStatus = "sold"
	ListingStatusCancelled ListingStatus = "cancelled"
	ListingStatusSettled   ListingStatus = "settled"
)

// Bid is the current highest bid on an auction listing. The bid amount is
// escrowed while the bid stands.
type Bid struct {
	Bidder string
	Amount uint64
}

// Listing is one NFT put up for sale, keyed deterministically by seller and
// mint. Creator, when set and distinct from the seller, receives the royalty
// cut on settlement. AuctionEnd decides the listing type: nil means fixed
// price, otherwise English auction until that instant.
type Listing struct {
	ListingID       string
	Seller          string
	NFTMint         string
	Creator         string
	Price           uint64
	MinBidIncrement uint64
	AuctionEnd      *time.Time
	HighestBid      *Bid
	Status          ListingStatus
	ListingType     ListingType
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewListing(
	listingID string,
	seller string,
	nftMint string,
	creator string,
	price uint64,
	minBidIncrement uint64,
	auctionEnd *time.Time,
	createdAt time.Time,
) (Listing, error) {
	seller = strings.TrimSpace(seller)
	nftMint = strings.TrimSpace(nftMint)
	creator = strings.TrimSpace(creator)
	if listingID == "" || seller == "" || nftMint == "" {
		return Listing{}, domainerrors.ErrInvalidListingInput
	}
	if price == 0 {
		return Listing{}, domainerrors.ErrInvalidPrice
	}

	listingType := ListingTypeFixedPrice
	if auctionEnd != nil {
		if !auctionEnd.After(createdAt) {
			return Listing{}, domainerrors.ErrInvalidAuctionEnd
		}
		end := auctionEnd.UTC()
		auctionEnd = &end
		listingType = ListingTypeAuction
	}

	return Listing{
		ListingID:       listingID,
		Seller:          seller,
		NFTMint:         nftMint,
		Creator:         creator,
		Price:           price,
		MinBidIncrement: minBidIncrement,
		AuctionEnd:      auctionEnd,
		Status:          ListingStatusActive,
		ListingType:     listingType,
		CreatedAt:       createdAt.UTC(),
		UpdatedAt:       createdAt.UTC(),
	}, nil
}

func (l Listing) IsAuction() bool {
	return l.ListingType == ListingTypeAuction
}

// AuctionEnded reports whether the auction window has closed at the given
// instant. Always false for fixed-price listings.
func (l Listing) AuctionEnded(now time.Time) bool {
	return l.AuctionEnd != nil && !now.Before(*l.AuctionEnd)
}
