package ports

import (
	"context"
	"time"

	"bazaar/contexts/marketplace-core/marketplace-config/domain/entities"
)

// Repository owns the singleton marketplace config row.
type Repository interface {
	// CreateConfig fails with ErrMarketplaceExists when a config exists.
	CreateConfig(ctx context.Context, config entities.MarketplaceConfig) error
	GetConfig(ctx context.Context) (entities.MarketplaceConfig, error)
	UpdateFees(ctx context.Context, feeBps uint16, creatorFeeBps uint16, updatedAt time.Time) error
}

// Clock allows deterministic testing of timestamps.
type Clock interface {
	Now() time.Time
}
