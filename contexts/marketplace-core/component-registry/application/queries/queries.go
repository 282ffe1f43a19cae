package queries

import (
	"context"

	"bazaar/contexts/marketplace-core/component-registry/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/component-registry/domain/errors"
	"bazaar/contexts/marketplace-core/component-registry/ports"
)

const defaultPageSize = 50

// Queries exposes the read side of the component catalog.
type Queries struct {
	repo ports.ComponentRepository
}

func New(repo ports.ComponentRepository) *Queries {
	return &Queries{repo: repo}
}

func (q *Queries) GetComponent(ctx context.Context, componentID string) (entities.Component, error) {
	if componentID == "" {
		return entities.Component{}, domainerrors.ErrInvalidComponentInput
	}
	return q.repo.GetComponent(ctx, componentID)
}

func (q *Queries) ListComponents(ctx context.Context, filter ports.ComponentListFilter) ([]entities.Component, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return q.repo.ListComponents(ctx, filter)
}

func (q *Queries) ListPurchasesByBuyer(ctx context.Context, buyer string) ([]entities.Purchase, error) {
	if buyer == "" {
		return nil, domainerrors.ErrInvalidComponentInput
	}
	return q.repo.ListPurchasesByBuyer(ctx, buyer)
}
