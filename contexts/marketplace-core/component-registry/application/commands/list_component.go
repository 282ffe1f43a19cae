package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	settlementports "bazaar/contexts/finance-core/settlement-engine/ports"
	application "bazaar/contexts/marketplace-core/component-registry/application"
	"bazaar/contexts/marketplace-core/component-registry/domain/entities"
	"bazaar/contexts/marketplace-core/component-registry/ports"
)

// ListComponentCommand is the write-model input for listing a component.
type ListComponentCommand struct {
	ComponentID string
	Creator     string
	Price       uint64
	MetadataURI string
}

// CatalogUseCase orchestrates the component catalog commands: listing,
// delisting, and purchase settlement with receipt emission.
type CatalogUseCase struct {
	Components ports.ComponentRepository
	Config     ports.ConfigStore
	Settlement settlementports.Executor
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// ListComponent registers a component for sale. The component id is the
// record key, so a duplicate id fails without touching the first listing.
func (uc CatalogUseCase) ListComponent(ctx context.Context, cmd ListComponentCommand) (entities.Component, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.now()

	component, err := entities.NewComponent(
		strings.TrimSpace(cmd.ComponentID),
		strings.TrimSpace(cmd.Creator),
		cmd.Price,
		strings.TrimSpace(cmd.MetadataURI),
		now,
	)
	if err != nil {
		logger.Warn("component listing validation failed",
			"event", "registry_component_list_validation_failed",
			"module", "marketplace-core/component-registry",
			"layer", "application",
			"component_id", strings.TrimSpace(cmd.ComponentID),
			"error", err.Error(),
		)
		return entities.Component{}, err
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Component{}, err
	}
	event, err := newRegistryEnvelope(eventID, "component.listed", component.ComponentID, now, map[string]any{
		"component_id": component.ComponentID,
		"creator":      component.Creator,
		"price":        component.Price,
		"metadata_uri": component.MetadataURI,
		"listed_at":    now.Format(time.RFC3339),
	})
	if err != nil {
		return entities.Component{}, err
	}

	if err := uc.Components.CreateComponentWithOutbox(ctx, component, event); err != nil {
		logger.Warn("component listing rejected",
			"event", "registry_component_list_rejected",
			"module", "marketplace-core/component-registry",
			"layer", "application",
			"component_id", component.ComponentID,
			"error", err.Error(),
		)
		return entities.Component{}, err
	}

	logger.Info("component listed",
		"event", "registry_component_listed",
		"module", "marketplace-core/component-registry",
		"layer", "application",
		"component_id", component.ComponentID,
		"creator", component.Creator,
		"price", component.Price,
	)
	return component, nil
}

func (uc CatalogUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
