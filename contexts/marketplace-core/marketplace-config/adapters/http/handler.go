package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"bazaar/contexts/marketplace-core/marketplace-config/application"
	"bazaar/contexts/marketplace-core/marketplace-config/domain/entities"
	httptransport "bazaar/contexts/marketplace-core/marketplace-config/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// InitializeHandler godoc
// @Summary Initialize the marketplace
// @Description Creates the singleton marketplace config record.
// @Tags marketplace-config
// @Accept json
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Success 201 {object} httptransport.MarketplaceConfigResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/marketplace [post]
func (h Handler) InitializeHandler(
	ctx context.Context,
	caller string,
	req httptransport.InitializeMarketplaceRequest,
) (httptransport.MarketplaceConfigResponse, error) {
	authority := req.Authority
	if authority == "" {
		authority = caller
	}
	config, err := h.Service.Initialize(ctx, application.InitializeInput{
		Authority:       authority,
		Treasury:        req.Treasury,
		PlatformReserve: req.PlatformReserve,
		FeeBps:          req.FeeBps,
		CreatorFeeBps:   req.CreatorFeeBps,
	})
	if err != nil {
		return httptransport.MarketplaceConfigResponse{}, err
	}
	return mapConfig(config), nil
}

// UpdateFeesHandler godoc
// @Summary Update fee parameters
// @Description Authority-only change of the platform and royalty fee rates.
// @Tags marketplace-config
// @Accept json
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Success 200 {object} httptransport.MarketplaceConfigResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/marketplace/fees [put]
func (h Handler) UpdateFeesHandler(
	ctx context.Context,
	caller string,
	req httptransport.UpdateFeesRequest,
) (httptransport.MarketplaceConfigResponse, error) {
	config, err := h.Service.UpdateFees(ctx, application.UpdateFeesInput{
		Caller:        caller,
		FeeBps:        req.FeeBps,
		CreatorFeeBps: req.CreatorFeeBps,
	})
	if err != nil {
		return httptransport.MarketplaceConfigResponse{}, err
	}
	return mapConfig(config), nil
}

// GetStatsHandler godoc
// @Summary Marketplace stats
// @Description Returns the config record with cumulative counters.
// @Tags marketplace-config
// @Produce json
// @Success 200 {object} httptransport.MarketplaceConfigResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/marketplace [get]
func (h Handler) GetStatsHandler(ctx context.Context) (httptransport.MarketplaceConfigResponse, error) {
	config, err := h.Service.GetStats(ctx)
	if err != nil {
		return httptransport.MarketplaceConfigResponse{}, err
	}
	return mapConfig(config), nil
}

func mapConfig(config entities.MarketplaceConfig) httptransport.MarketplaceConfigResponse {
	return httptransport.MarketplaceConfigResponse{
		Authority:       config.Authority,
		Treasury:        config.Treasury,
		PlatformReserve: config.PlatformReserve,
		FeeBps:          config.FeeBps,
		CreatorFeeBps:   config.CreatorFeeBps,
		RewardBps:       config.RewardBps,
		TotalVolume:     config.TotalVolume,
		TotalListings:   config.TotalListings,
		TotalSales:      config.TotalSales,
		CreatedAt:       config.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       config.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
