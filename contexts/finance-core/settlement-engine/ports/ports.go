package ports

import (
	"context"

	"bazaar/contexts/finance-core/settlement-engine/domain/services"
)

// Movement is one balance transfer between two named ledger accounts.
type Movement struct {
	From   string
	To     string
	Amount uint64
}

// TokenLedger is the external fungible-ledger primitive. Transfer fails when
// the source lacks sufficient balance; each call is all-or-nothing.
// TransferBatch applies every movement or none of them, and exists for the
// one flow requiring joint commitment: refunding a displaced bidder while
// collecting the new bid.
type TokenLedger interface {
	Transfer(ctx context.Context, from string, to string, amount uint64) error
	TransferBatch(ctx context.Context, movements []Movement) error
}

// Sale describes one settlement: who pays, who receives, and at what rates.
// Source is the paying account (the buyer's account on direct sales, the
// listing escrow account on auction settlement). Creator is the optional
// royalty recipient; the creator fee applies only when Creator is set and
// differs from Seller. RewardBps, when non-zero, pays a bonus to the seller
// out of PlatformReserve on top of the split, never increasing the debit
// against Source.
type Sale struct {
	Source          string
	Seller          string
	Creator         string
	Treasury        string
	PlatformReserve string
	Price           uint64
	FeeBps          uint16
	CreatorFeeBps   uint16
	RewardBps       uint16
}

// Result reports the amounts actually moved for a sale.
type Result struct {
	Breakdown services.Breakdown
	Reward    uint64
}

// Executor is the settlement port consumed by the marketplace modules.
type Executor interface {
	ExecuteSale(ctx context.Context, sale Sale) (Result, error)
}
