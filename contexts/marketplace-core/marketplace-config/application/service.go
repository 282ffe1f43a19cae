package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bazaar/contexts/marketplace-core/marketplace-config/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/marketplace-config/domain/errors"
	"bazaar/contexts/marketplace-core/marketplace-config/ports"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

type InitializeInput struct {
	Authority       string
	Treasury        string
	PlatformReserve string
	FeeBps          uint16
	CreatorFeeBps   uint16
}

// Initialize creates the singleton marketplace record. Validation runs before
// any write; a second initialization fails without mutating the first.
func (s Service) Initialize(ctx context.Context, input InitializeInput) (entities.MarketplaceConfig, error) {
	logger := resolveLogger(s.Logger)
	config, err := entities.NewMarketplaceConfig(
		strings.TrimSpace(input.Authority),
		strings.TrimSpace(input.Treasury),
		strings.TrimSpace(input.PlatformReserve),
		input.FeeBps,
		input.CreatorFeeBps,
		s.now(),
	)
	if err != nil {
		return entities.MarketplaceConfig{}, err
	}
	if err := s.Repo.CreateConfig(ctx, config); err != nil {
		return entities.MarketplaceConfig{}, err
	}

	logger.Info("marketplace initialized",
		"event", "marketplace_initialized",
		"module", "marketplace-core/marketplace-config",
		"layer", "application",
		"authority", config.Authority,
		"fee_bps", config.FeeBps,
		"creator_fee_bps", config.CreatorFeeBps,
	)
	return config, nil
}

type UpdateFeesInput struct {
	Caller        string
	FeeBps        uint16
	CreatorFeeBps uint16
}

// UpdateFees changes the fee parameters. Authority only.
func (s Service) UpdateFees(ctx context.Context, input UpdateFeesInput) (entities.MarketplaceConfig, error) {
	logger := resolveLogger(s.Logger)
	config, err := s.Repo.GetConfig(ctx)
	if err != nil {
		return entities.MarketplaceConfig{}, err
	}
	if strings.TrimSpace(input.Caller) != config.Authority {
		logger.Warn("fee update rejected",
			"event", "marketplace_fee_update_unauthorized",
			"module", "marketplace-core/marketplace-config",
			"layer", "application",
			"caller", input.Caller,
		)
		return entities.MarketplaceConfig{}, domainerrors.ErrUnauthorizedAuthority
	}
	if err := entities.ValidateFees(input.FeeBps, input.CreatorFeeBps); err != nil {
		return entities.MarketplaceConfig{}, err
	}

	now := s.now()
	if err := s.Repo.UpdateFees(ctx, input.FeeBps, input.CreatorFeeBps, now); err != nil {
		return entities.MarketplaceConfig{}, err
	}
	config.FeeBps = input.FeeBps
	config.CreatorFeeBps = input.CreatorFeeBps
	config.UpdatedAt = now

	logger.Info("marketplace fees updated",
		"event", "marketplace_fees_updated",
		"module", "marketplace-core/marketplace-config",
		"layer", "application",
		"fee_bps", config.FeeBps,
		"creator_fee_bps", config.CreatorFeeBps,
	)
	return config, nil
}

// GetStats returns the config with its cumulative counters.
func (s Service) GetStats(ctx context.Context) (entities.MarketplaceConfig, error) {
	return s.Repo.GetConfig(ctx)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
