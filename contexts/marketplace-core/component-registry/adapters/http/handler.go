package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"bazaar/contexts/marketplace-core/component-registry/application/commands"
	"bazaar/contexts/marketplace-core/component-registry/application/queries"
	"bazaar/contexts/marketplace-core/component-registry/domain/entities"
	"bazaar/contexts/marketplace-core/component-registry/ports"
	httptransport "bazaar/contexts/marketplace-core/component-registry/transport/http"
)

type Handler struct {
	Catalog commands.CatalogUseCase
	Queries *queries.Queries
	Logger  *slog.Logger
}

// ListComponentHandler godoc
// @Summary List a component for sale
// @Description Registers a component under the caller as creator.
// @Tags component-registry
// @Accept json
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Success 201 {object} httptransport.ComponentResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/components [post]
func (h Handler) ListComponentHandler(
	ctx context.Context,
	caller string,
	req httptransport.ListComponentRequest,
) (httptransport.ComponentResponse, error) {
	component, err := h.Catalog.ListComponent(ctx, commands.ListComponentCommand{
		ComponentID: req.ComponentID,
		Creator:     caller,
		Price:       req.Price,
		MetadataURI: req.MetadataURI,
	})
	if err != nil {
		return httptransport.ComponentResponse{}, err
	}
	return mapComponent(component), nil
}

// DelistComponentHandler godoc
// @Summary Delist a component
// @Description Creator-only deactivation. The id stays reserved.
// @Tags component-registry
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Param id path string true "Component id"
// @Success 204
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/components/{id} [delete]
func (h Handler) DelistComponentHandler(ctx context.Context, caller string, componentID string) error {
	return h.Catalog.DelistComponent(ctx, commands.DelistComponentCommand{
		ComponentID: componentID,
		Caller:      caller,
	})
}

// PurchaseComponentHandler godoc
// @Summary Purchase a component
// @Description Settles one sale for the caller and records the receipt.
// @Tags component-registry
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Param id path string true "Component id"
// @Success 201 {object} httptransport.PurchaseResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/components/{id}/purchase [post]
func (h Handler) PurchaseComponentHandler(ctx context.Context, caller string, componentID string) (httptransport.PurchaseResponse, error) {
	purchase, err := h.Catalog.PurchaseComponent(ctx, commands.PurchaseComponentCommand{
		ComponentID: componentID,
		Buyer:       caller,
	})
	if err != nil {
		return httptransport.PurchaseResponse{}, err
	}
	return mapPurchase(purchase), nil
}

// GetComponentHandler godoc
// @Summary Get one component
// @Tags component-registry
// @Produce json
// @Param id path string true "Component id"
// @Success 200 {object} httptransport.ComponentResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/components/{id} [get]
func (h Handler) GetComponentHandler(ctx context.Context, componentID string) (httptransport.ComponentResponse, error) {
	component, err := h.Queries.GetComponent(ctx, componentID)
	if err != nil {
		return httptransport.ComponentResponse{}, err
	}
	return mapComponent(component), nil
}

// ListComponentsHandler godoc
// @Summary Browse the component catalog
// @Tags component-registry
// @Produce json
// @Param creator query string false "Filter by creator"
// @Param active query bool false "Only active components"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} httptransport.ComponentListResponse
// @Router /v1/components [get]
func (h Handler) ListComponentsHandler(ctx context.Context, filter ports.ComponentListFilter) (httptransport.ComponentListResponse, error) {
	components, err := h.Queries.ListComponents(ctx, filter)
	if err != nil {
		return httptransport.ComponentListResponse{}, err
	}
	out := httptransport.ComponentListResponse{Components: make([]httptransport.ComponentResponse, 0, len(components))}
	for _, component := range components {
		out.Components = append(out.Components, mapComponent(component))
	}
	return out, nil
}

// ListPurchasesHandler godoc
// @Summary List the caller's purchase receipts
// @Tags component-registry
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Success 200 {object} httptransport.PurchaseListResponse
// @Router /v1/purchases [get]
func (h Handler) ListPurchasesHandler(ctx context.Context, caller string) (httptransport.PurchaseListResponse, error) {
	purchases, err := h.Queries.ListPurchasesByBuyer(ctx, caller)
	if err != nil {
		return httptransport.PurchaseListResponse{}, err
	}
	out := httptransport.PurchaseListResponse{Purchases: make([]httptransport.PurchaseResponse, 0, len(purchases))}
	for _, purchase := range purchases {
		out.Purchases = append(out.Purchases, mapPurchase(purchase))
	}
	return out, nil
}

func mapComponent(component entities.Component) httptransport.ComponentResponse {
	return httptransport.ComponentResponse{
		ComponentID:        component.ComponentID,
		Creator:            component.Creator,
		Price:              component.Price,
		MetadataURI:        component.MetadataURI,
		IsActive:           component.IsActive,
		TotalSales:         component.TotalSales,
		TotalRewardsEarned: component.TotalRewardsEarned,
		CreatedAt:          component.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          component.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapPurchase(purchase entities.Purchase) httptransport.PurchaseResponse {
	return httptransport.PurchaseResponse{
		PurchaseID:  purchase.PurchaseID,
		Buyer:       purchase.Buyer,
		ComponentID: purchase.ComponentID,
		Price:       purchase.Price,
		Reward:      purchase.Reward,
		PurchasedAt: purchase.PurchasedAt.UTC().Format(time.RFC3339),
	}
}
