package errors

import "errors"

var (
	ErrInvalidFeeSplit    = errors.New("fee split basis points exceed 10000")
	ErrArithmetic         = errors.New("settlement arithmetic invariant violated")
	ErrInvalidSettlement  = errors.New("settlement input is invalid")
	ErrInsufficientFunds  = errors.New("source account balance is insufficient")
	ErrUnknownAccount     = errors.New("ledger account does not exist")
	ErrEmptyTransferBatch = errors.New("transfer batch is empty")
)
