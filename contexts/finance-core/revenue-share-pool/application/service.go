package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bazaar/contexts/finance-core/revenue-share-pool/domain/entities"
	domainerrors "bazaar/contexts/finance-core/revenue-share-pool/domain/errors"
	"bazaar/contexts/finance-core/revenue-share-pool/ports"
	"bazaar/contexts/finance-core/settlement-engine/domain/services"
	settlementports "bazaar/contexts/finance-core/settlement-engine/ports"
)

type Service struct {
	Repo   ports.PoolRepository
	Ledger settlementports.TokenLedger
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

type InitializePoolInput struct {
	Authority        string
	CreatorAccount   string
	PlatformAccount  string
	CreatorShareBps  uint16
	PlatformShareBps uint16
}

// InitializePool creates the singleton revenue pool. Shares must sum to the
// full basis-point denominator; a second initialization fails without
// mutating the first.
func (s Service) InitializePool(ctx context.Context, input InitializePoolInput) (entities.RevenuePool, error) {
	logger := ResolveLogger(s.Logger)
	pool, err := entities.NewRevenuePool(
		strings.TrimSpace(input.Authority),
		strings.TrimSpace(input.CreatorAccount),
		strings.TrimSpace(input.PlatformAccount),
		input.CreatorShareBps,
		input.PlatformShareBps,
		s.now(),
	)
	if err != nil {
		return entities.RevenuePool{}, err
	}
	if err := s.Repo.CreatePool(ctx, pool); err != nil {
		return entities.RevenuePool{}, err
	}

	logger.Info("revenue pool initialized",
		"event", "revenue_pool_initialized",
		"module", "finance-core/revenue-share-pool",
		"layer", "application",
		"authority", pool.Authority,
		"creator_share_bps", pool.CreatorShareBps,
		"platform_share_bps", pool.PlatformShareBps,
	)
	return pool, nil
}

type DistributeRevenueInput struct {
	Caller string
	Source string
	Amount uint64
}

type DistributionResult struct {
	CreatorAmount    uint64
	PlatformAmount   uint64
	TotalDistributed uint64
}

// DistributeRevenue splits an incoming amount between the creator and
// platform accounts per the pool shares. The creator part is floored and the
// platform part takes the remainder, so nothing is ever left behind. Funds
// move before the running total is committed; a ledger failure leaves the
// pool untouched.
func (s Service) DistributeRevenue(ctx context.Context, input DistributeRevenueInput) (DistributionResult, error) {
	logger := ResolveLogger(s.Logger)
	if input.Amount == 0 {
		return DistributionResult{}, domainerrors.ErrInvalidAmount
	}
	source := strings.TrimSpace(input.Source)
	if source == "" {
		return DistributionResult{}, domainerrors.ErrInvalidPoolInput
	}

	pool, err := s.Repo.GetPool(ctx)
	if err != nil {
		return DistributionResult{}, err
	}
	if strings.TrimSpace(input.Caller) != pool.Authority {
		logger.Warn("distribution rejected",
			"event", "revenue_distribution_unauthorized",
			"module", "finance-core/revenue-share-pool",
			"layer", "application",
			"caller", input.Caller,
		)
		return DistributionResult{}, domainerrors.ErrUnauthorizedAuthority
	}

	creatorAmount, platformAmount, err := pool.Split(input.Amount)
	if err != nil {
		return DistributionResult{}, err
	}
	total, err := services.CheckedAdd(pool.TotalDistributed, input.Amount)
	if err != nil {
		return DistributionResult{}, err
	}

	if creatorAmount > 0 {
		if err := s.Ledger.Transfer(ctx, source, pool.CreatorAccount, creatorAmount); err != nil {
			return DistributionResult{}, err
		}
	}
	if platformAmount > 0 {
		if err := s.Ledger.Transfer(ctx, source, pool.PlatformAccount, platformAmount); err != nil {
			// The creator leg already moved; put it back so a rejected
			// distribution is fully unwound.
			if creatorAmount > 0 {
				if restoreErr := s.Ledger.Transfer(ctx, pool.CreatorAccount, source, creatorAmount); restoreErr != nil {
					logger.Error("distribution compensation failed",
						"event", "revenue_distribution_compensation_failed",
						"module", "finance-core/revenue-share-pool",
						"layer", "application",
						"source", source,
						"creator_amount", creatorAmount,
						"error", restoreErr,
					)
				}
			}
			return DistributionResult{}, err
		}
	}

	now := s.now()
	eventID, err := s.newID(ctx)
	if err != nil {
		return DistributionResult{}, err
	}
	event, err := newPoolEnvelope(eventID, "revenue.distributed", pool.Authority, now, map[string]any{
		"authority":         pool.Authority,
		"source":            source,
		"amount":            input.Amount,
		"creator_amount":    creatorAmount,
		"platform_amount":   platformAmount,
		"total_distributed": total,
		"distributed_at":    now.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return DistributionResult{}, err
	}
	if err := s.Repo.RecordDistribution(ctx, total, now, event); err != nil {
		return DistributionResult{}, err
	}

	logger.Info("revenue distributed",
		"event", "revenue_distributed",
		"module", "finance-core/revenue-share-pool",
		"layer", "application",
		"source", source,
		"amount", input.Amount,
		"creator_amount", creatorAmount,
		"platform_amount", platformAmount,
		"total_distributed", total,
	)
	return DistributionResult{
		CreatorAmount:    creatorAmount,
		PlatformAmount:   platformAmount,
		TotalDistributed: total,
	}, nil
}

// GetPool returns the pool with its cumulative distribution total.
func (s Service) GetPool(ctx context.Context) (entities.RevenuePool, error) {
	return s.Repo.GetPool(ctx)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) newID(ctx context.Context) (string, error) {
	return s.IDGen.NewID(ctx)
}
