package commands

import (
	"context"
	"strings"

	application "bazaar/contexts/marketplace-core/component-registry/application"
	domainerrors "bazaar/contexts/marketplace-core/component-registry/domain/errors"
)

// DelistComponentCommand requests a creator-owned component deactivation.
type DelistComponentCommand struct {
	ComponentID string
	Caller      string
}

// DelistComponent flips a component inactive so new purchases stop. Existing
// receipts are untouched and the id stays reserved. Repeating the call on an
// already inactive component is a no-op.
func (uc CatalogUseCase) DelistComponent(ctx context.Context, cmd DelistComponentCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	componentID := strings.TrimSpace(cmd.ComponentID)
	caller := strings.TrimSpace(cmd.Caller)
	if componentID == "" || caller == "" {
		return domainerrors.ErrInvalidComponentInput
	}

	component, err := uc.Components.GetComponent(ctx, componentID)
	if err != nil {
		return err
	}
	if component.Creator != caller {
		logger.Warn("component delist rejected",
			"event", "registry_component_delist_unauthorized",
			"module", "marketplace-core/component-registry",
			"layer", "application",
			"component_id", componentID,
			"caller", caller,
		)
		return domainerrors.ErrUnauthorizedCreator
	}
	if !component.IsActive {
		return nil
	}

	if err := uc.Components.DeactivateComponent(ctx, componentID, uc.now()); err != nil {
		return err
	}

	logger.Info("component delisted",
		"event", "registry_component_delisted",
		"module", "marketplace-core/component-registry",
		"layer", "application",
		"component_id", componentID,
	)
	return nil
}
