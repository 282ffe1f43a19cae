package errors

import "errors"

var (
	ErrInvalidFeePercentage     = errors.New("fee percentage out of bounds")
	ErrInvalidConfigInput       = errors.New("marketplace config input is invalid")
	ErrMarketplaceExists        = errors.New("marketplace is already initialized")
	ErrMarketplaceNotFound      = errors.New("marketplace is not initialized")
	ErrUnauthorizedAuthority    = errors.New("caller is not the marketplace authority")
	ErrCounterInvariantViolated = errors.New("marketplace counter overflowed")
)
