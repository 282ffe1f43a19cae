package errors

import "errors"

var (
	ErrInvalidPoolInput      = errors.New("pool input is invalid")
	ErrInvalidShares         = errors.New("creator and platform shares must sum to exactly 10000 basis points")
	ErrPoolExists            = errors.New("revenue pool is already initialized")
	ErrPoolNotFound          = errors.New("revenue pool not found")
	ErrUnauthorizedAuthority = errors.New("caller is not the pool authority")
	ErrInvalidAmount         = errors.New("distribution amount must be greater than zero")
	ErrOutboxNotFound        = errors.New("outbox message not found")
)
