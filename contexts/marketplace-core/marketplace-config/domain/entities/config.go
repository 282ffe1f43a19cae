package entities

import (
	"strings"
	"time"

	domainerrors "bazaar/contexts/marketplace-core/marketplace-config/domain/errors"
)

const (
	// MaxFeeBps bounds the platform fee at 100%.
	MaxFeeBps = 10000
	// MaxCreatorFeeBps bounds the royalty fee at 5%.
	MaxCreatorFeeBps = 500
	// DefaultRewardBps is the reserve-funded seller bonus rate (2%).
	DefaultRewardBps = 200
)

// MarketplaceConfig is the singleton configuration record. Created once at
// deployment; the counters are mutated only by settlement transactions.
type MarketplaceConfig struct {
	Authority       string
	Treasury        string
	PlatformReserve string
	FeeBps          uint16
	CreatorFeeBps   uint16
	RewardBps       uint16
	TotalVolume     uint64
	TotalListings   uint64
	TotalSales      uint64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewMarketplaceConfig(
	authority string,
	treasury string,
	platformReserve string,
	feeBps uint16,
	creatorFeeBps uint16,
	createdAt time.Time,
) (MarketplaceConfig, error) {
	if strings.TrimSpace(authority) == "" ||
		strings.TrimSpace(treasury) == "" ||
		strings.TrimSpace(platformReserve) == "" {
		return MarketplaceConfig{}, domainerrors.ErrInvalidConfigInput
	}
	if err := ValidateFees(feeBps, creatorFeeBps); err != nil {
		return MarketplaceConfig{}, err
	}
	return MarketplaceConfig{
		Authority:       authority,
		Treasury:        treasury,
		PlatformReserve: platformReserve,
		FeeBps:          feeBps,
		CreatorFeeBps:   creatorFeeBps,
		RewardBps:       DefaultRewardBps,
		CreatedAt:       createdAt.UTC(),
		UpdatedAt:       createdAt.UTC(),
	}, nil
}

// ValidateFees enforces the fee bounds: fee <= 100%, creator fee <= 5%, and
// the combined split never exceeding 100%.
func ValidateFees(feeBps uint16, creatorFeeBps uint16) error {
	if feeBps > MaxFeeBps {
		return domainerrors.ErrInvalidFeePercentage
	}
	if creatorFeeBps > MaxCreatorFeeBps {
		return domainerrors.ErrInvalidFeePercentage
	}
	if uint32(feeBps)+uint32(creatorFeeBps) > MaxFeeBps {
		return domainerrors.ErrInvalidFeePercentage
	}
	return nil
}
