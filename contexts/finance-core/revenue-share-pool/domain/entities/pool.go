package entities

import (
	"strings"
	"time"

	domainerrors "bazaar/contexts/finance-core/revenue-share-pool/domain/errors"
	"bazaar/contexts/finance-core/settlement-engine/domain/services"
)

// RevenuePool splits incoming revenue between one creator account and one
// platform account. The shares must sum to exactly the full basis-point
// denominator so no unit of a distribution is ever lost or minted.
type RevenuePool struct {
	Authority        string
	CreatorAccount   string
	PlatformAccount  string
	CreatorShareBps  uint16
	PlatformShareBps uint16
	TotalDistributed uint64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewRevenuePool(
	authority string,
	creatorAccount string,
	platformAccount string,
	creatorShareBps uint16,
	platformShareBps uint16,
	createdAt time.Time,
) (RevenuePool, error) {
	authority = strings.TrimSpace(authority)
	creatorAccount = strings.TrimSpace(creatorAccount)
	platformAccount = strings.TrimSpace(platformAccount)
	if authority == "" || creatorAccount == "" || platformAccount == "" {
		return RevenuePool{}, domainerrors.ErrInvalidPoolInput
	}
	if uint32(creatorShareBps)+uint32(platformShareBps) != services.BpsDenominator {
		return RevenuePool{}, domainerrors.ErrInvalidShares
	}
	return RevenuePool{
		Authority:        authority,
		CreatorAccount:   creatorAccount,
		PlatformAccount:  platformAccount,
		CreatorShareBps:  creatorShareBps,
		PlatformShareBps: platformShareBps,
		CreatedAt:        createdAt.UTC(),
		UpdatedAt:        createdAt.UTC(),
	}, nil
}

// Split divides an amount by the pool shares. The creator part is floored
// and the platform part is the exact remainder, so both always sum back to
// the amount.
func (p RevenuePool) Split(amount uint64) (creator uint64, platform uint64, err error) {
	creator, err = services.MulBps(amount, p.CreatorShareBps)
	if err != nil {
		return 0, 0, err
	}
	platform, err = services.CheckedSub(amount, creator)
	if err != nil {
		return 0, 0, err
	}
	return creator, platform, nil
}
