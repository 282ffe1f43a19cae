package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	settlementports "bazaar/contexts/finance-core/settlement-engine/ports"
	application "bazaar/contexts/marketplace-core/component-registry/application"
	"bazaar/contexts/marketplace-core/component-registry/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/component-registry/domain/errors"
	"bazaar/internal/shared/keys"
)

// PurchaseComponentCommand identifies the buyer and the component to buy.
type PurchaseComponentCommand struct {
	ComponentID string
	Buyer       string
}

// PurchaseComponent settles one component sale and records the receipt. The
// receipt key is derived from buyer and component id, so a repeated purchase
// fails before any funds move. The component creator is both seller and
// royalty recipient on this path, which collapses the creator cut to zero:
// the creator receives the full remainder after the platform fee, plus the
// reward bonus funded from the platform reserve.
func (uc CatalogUseCase) PurchaseComponent(ctx context.Context, cmd PurchaseComponentCommand) (entities.Purchase, error) {
	logger := application.ResolveLogger(uc.Logger)
	componentID := strings.TrimSpace(cmd.ComponentID)
	buyer := strings.TrimSpace(cmd.Buyer)
	if componentID == "" || buyer == "" {
		return entities.Purchase{}, domainerrors.ErrInvalidComponentInput
	}

	component, err := uc.Components.GetComponent(ctx, componentID)
	if err != nil {
		return entities.Purchase{}, err
	}
	if !component.IsActive {
		return entities.Purchase{}, domainerrors.ErrComponentNotActive
	}

	purchaseID := keys.Purchase(buyer, componentID)
	if _, err := uc.Components.GetPurchase(ctx, purchaseID); err == nil {
		return entities.Purchase{}, domainerrors.ErrAlreadyPurchased
	} else if !errors.Is(err, domainerrors.ErrPurchaseNotFound) {
		return entities.Purchase{}, err
	}

	cfg, err := uc.Config.GetMarketplaceConfig(ctx)
	if err != nil {
		return entities.Purchase{}, err
	}

	result, err := uc.Settlement.ExecuteSale(ctx, settlementports.Sale{
		Source:          buyer,
		Seller:          component.Creator,
		Treasury:        cfg.Treasury,
		PlatformReserve: cfg.PlatformReserve,
		Price:           component.Price,
		FeeBps:          cfg.FeeBps,
		RewardBps:       cfg.RewardBps,
	})
	if err != nil {
		logger.Warn("component purchase settlement failed",
			"event", "registry_component_purchase_settlement_failed",
			"module", "marketplace-core/component-registry",
			"layer", "application",
			"component_id", componentID,
			"buyer", buyer,
			"error", err.Error(),
		)
		return entities.Purchase{}, err
	}

	now := uc.now()
	purchase := entities.Purchase{
		PurchaseID:  purchaseID,
		Buyer:       buyer,
		ComponentID: component.ComponentID,
		Price:       component.Price,
		Reward:      result.Reward,
		PurchasedAt: now,
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Purchase{}, err
	}
	event, err := newRegistryEnvelope(eventID, "component.purchased", component.ComponentID, now, map[string]any{
		"purchase_id":  purchase.PurchaseID,
		"component_id": purchase.ComponentID,
		"buyer":        purchase.Buyer,
		"creator":      component.Creator,
		"price":        purchase.Price,
		"platform_fee": result.Breakdown.PlatformFee,
		"reward":       purchase.Reward,
		"purchased_at": now.Format(time.RFC3339),
	})
	if err != nil {
		return entities.Purchase{}, err
	}

	if err := uc.Components.FinalizePurchase(ctx, purchase, event); err != nil {
		logger.Error("component purchase finalize failed",
			"event", "registry_component_purchase_finalize_failed",
			"module", "marketplace-core/component-registry",
			"layer", "application",
			"purchase_id", purchase.PurchaseID,
			"component_id", componentID,
			"error", err.Error(),
		)
		return entities.Purchase{}, err
	}

	logger.Info("component purchased",
		"event", "registry_component_purchased",
		"module", "marketplace-core/component-registry",
		"layer", "application",
		"purchase_id", purchase.PurchaseID,
		"component_id", purchase.ComponentID,
		"buyer", purchase.Buyer,
		"price", purchase.Price,
		"reward", purchase.Reward,
	)
	return purchase, nil
}
