package application

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "bazaar/contexts/finance-core/settlement-engine/domain/errors"
	"bazaar/contexts/finance-core/settlement-engine/domain/services"
	"bazaar/contexts/finance-core/settlement-engine/ports"
)

// Service orchestrates the fund movements of one sale. Transfers run in a
// fixed order: source to seller, source to creator, source to treasury, then
// the optional reserve-funded reward. A failing transfer aborts the call and
// the caller commits no records; the service performs no manual rollback
// because each ledger movement is all-or-nothing at the primitive level.
type Service struct {
	Ledger ports.TokenLedger
	Logger *slog.Logger
}

func (s Service) ExecuteSale(ctx context.Context, sale ports.Sale) (ports.Result, error) {
	logger := resolveLogger(s.Logger)
	if strings.TrimSpace(sale.Source) == "" ||
		strings.TrimSpace(sale.Seller) == "" ||
		strings.TrimSpace(sale.Treasury) == "" ||
		sale.Price == 0 {
		return ports.Result{}, domainerrors.ErrInvalidSettlement
	}

	creatorFeeBps := sale.CreatorFeeBps
	creator := strings.TrimSpace(sale.Creator)
	if creator == "" || creator == sale.Seller {
		// No distinct royalty recipient: the whole non-platform share
		// belongs to the seller.
		creatorFeeBps = 0
	}

	breakdown, err := services.SplitPrice(sale.Price, sale.FeeBps, creatorFeeBps)
	if err != nil {
		return ports.Result{}, err
	}

	if err := s.Ledger.Transfer(ctx, sale.Source, sale.Seller, breakdown.SellerAmount); err != nil {
		logger.Error("settlement seller transfer failed",
			"event", "settlement_seller_transfer_failed",
			"module", "finance-core/settlement-engine",
			"layer", "application",
			"source", sale.Source,
			"seller", sale.Seller,
			"amount", breakdown.SellerAmount,
			"error", err.Error(),
		)
		return ports.Result{}, err
	}
	if breakdown.CreatorFee > 0 {
		if err := s.Ledger.Transfer(ctx, sale.Source, creator, breakdown.CreatorFee); err != nil {
			logger.Error("settlement creator transfer failed",
				"event", "settlement_creator_transfer_failed",
				"module", "finance-core/settlement-engine",
				"layer", "application",
				"source", sale.Source,
				"creator", creator,
				"amount", breakdown.CreatorFee,
				"error", err.Error(),
			)
			return ports.Result{}, err
		}
	}
	if breakdown.PlatformFee > 0 {
		if err := s.Ledger.Transfer(ctx, sale.Source, sale.Treasury, breakdown.PlatformFee); err != nil {
			logger.Error("settlement treasury transfer failed",
				"event", "settlement_treasury_transfer_failed",
				"module", "finance-core/settlement-engine",
				"layer", "application",
				"source", sale.Source,
				"treasury", sale.Treasury,
				"amount", breakdown.PlatformFee,
				"error", err.Error(),
			)
			return ports.Result{}, err
		}
	}

	reward := uint64(0)
	if sale.RewardBps > 0 && strings.TrimSpace(sale.PlatformReserve) != "" {
		reward, err = services.MulBps(sale.Price, sale.RewardBps)
		if err != nil {
			return ports.Result{}, err
		}
		if reward > 0 {
			if err := s.Ledger.Transfer(ctx, sale.PlatformReserve, sale.Seller, reward); err != nil {
				logger.Error("settlement reward transfer failed",
					"event", "settlement_reward_transfer_failed",
					"module", "finance-core/settlement-engine",
					"layer", "application",
					"reserve", sale.PlatformReserve,
					"seller", sale.Seller,
					"amount", reward,
					"error", err.Error(),
				)
				return ports.Result{}, err
			}
		}
	}

	logger.Info("sale settled",
		"event", "settlement_executed",
		"module", "finance-core/settlement-engine",
		"layer", "application",
		"source", sale.Source,
		"seller", sale.Seller,
		"price", sale.Price,
		"platform_fee", breakdown.PlatformFee,
		"creator_fee", breakdown.CreatorFee,
		"reward", reward,
	)
	return ports.Result{Breakdown: breakdown, Reward: reward}, nil
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
