package errors

import "errors"

var (
	ErrInvalidPrice          = errors.New("component price must be greater than zero")
	ErrComponentIDTooLong    = errors.New("component id exceeds 32 bytes")
	ErrInvalidComponentInput = errors.New("component input is invalid")
	ErrComponentExists       = errors.New("component id is already listed")
	ErrComponentNotFound     = errors.New("component not found")
	ErrComponentNotActive    = errors.New("component is not active")
	ErrUnauthorizedCreator   = errors.New("caller is not the component creator")
	ErrAlreadyPurchased      = errors.New("buyer already purchased this component")
	ErrPurchaseNotFound      = errors.New("purchase receipt not found")
	ErrCounterOverflow       = errors.New("marketplace counter overflowed")
	ErrOutboxNotFound        = errors.New("outbox message not found")

	// ErrMarketplaceUninitialized surfaces when the registry needs the
	// marketplace config row and it has not been created yet.
	ErrMarketplaceUninitialized = errors.New("marketplace config is not initialized")
)
