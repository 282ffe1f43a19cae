package errors

import "errors"

var (
	ErrInvalidListingInput = errors.New("listing input is invalid")
	ErrInvalidPrice        = errors.New("listing price must be greater than zero")
	ErrInvalidAuctionEnd   = errors.New("auction end must be in the future")
	ErrListingExists       = errors.New("listing already exists for this seller and mint")
	ErrListingNotFound     = errors.New("listing not found")
	ErrListingNotActive    = errors.New("listing is not active")
	ErrNotAnAuction        = errors.New("listing is not an auction")
	ErrNotFixedPrice       = errors.New("listing is not a fixed-price sale")
	ErrAuctionEnded        = errors.New("auction has already ended")
	ErrAuctionNotEnded     = errors.New("auction has not ended yet")
	ErrBidTooLow           = errors.New("bid is below the required minimum")
	ErrSelfBidForbidden    = errors.New("seller cannot bid on own listing")
	ErrUnauthorizedSeller  = errors.New("caller is not the listing seller")
	ErrUnauthorizedBuyer   = errors.New("caller is not the offer buyer")

	ErrInvalidOfferAmount = errors.New("offer amount must be greater than zero")
	ErrInvalidOfferExpiry = errors.New("offer expiry must be in the future")
	ErrOfferExists        = errors.New("buyer already has an active offer on this listing")
	ErrOfferNotFound      = errors.New("offer not found")
	ErrOfferNotActive     = errors.New("offer is not active")

	ErrOutboxNotFound = errors.New("outbox message not found")
	ErrLockHeld       = errors.New("listing is locked by another operation")

	// ErrMarketplaceUninitialized surfaces when settlement needs the
	// marketplace config row and it has not been created yet.
	ErrMarketplaceUninitialized = errors.New("marketplace config is not initialized")
)
