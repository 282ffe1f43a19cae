package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"bazaar/contexts/finance-core/revenue-share-pool/application"
	"bazaar/contexts/finance-core/revenue-share-pool/domain/entities"
	httptransport "bazaar/contexts/finance-core/revenue-share-pool/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// InitializePoolHandler godoc
// @Summary Initialize the revenue pool
// @Description Creates the singleton revenue sharing pool. Shares must sum to 10000 bps.
// @Tags revenue-share-pool
// @Accept json
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Success 201 {object} httptransport.RevenuePoolResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/revenue-pool [post]
func (h Handler) InitializePoolHandler(
	ctx context.Context,
	caller string,
	req httptransport.InitializePoolRequest,
) (httptransport.RevenuePoolResponse, error) {
	authority := req.Authority
	if authority == "" {
		authority = caller
	}
	pool, err := h.Service.InitializePool(ctx, application.InitializePoolInput{
		Authority:        authority,
		CreatorAccount:   req.CreatorAccount,
		PlatformAccount:  req.PlatformAccount,
		CreatorShareBps:  req.CreatorShareBps,
		PlatformShareBps: req.PlatformShareBps,
	})
	if err != nil {
		return httptransport.RevenuePoolResponse{}, err
	}
	return mapPool(pool), nil
}

// DistributeRevenueHandler godoc
// @Summary Distribute revenue
// @Description Authority-only split of an amount between the creator and platform accounts.
// @Tags revenue-share-pool
// @Accept json
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Success 200 {object} httptransport.DistributionResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/revenue-pool/distributions [post]
func (h Handler) DistributeRevenueHandler(
	ctx context.Context,
	caller string,
	req httptransport.DistributeRevenueRequest,
) (httptransport.DistributionResponse, error) {
	result, err := h.Service.DistributeRevenue(ctx, application.DistributeRevenueInput{
		Caller: caller,
		Source: req.Source,
		Amount: req.Amount,
	})
	if err != nil {
		return httptransport.DistributionResponse{}, err
	}
	return httptransport.DistributionResponse{
		Amount:           req.Amount,
		CreatorAmount:    result.CreatorAmount,
		PlatformAmount:   result.PlatformAmount,
		TotalDistributed: result.TotalDistributed,
	}, nil
}

// GetPoolHandler godoc
// @Summary Revenue pool state
// @Description Returns the pool configuration and cumulative distribution total.
// @Tags revenue-share-pool
// @Produce json
// @Success 200 {object} httptransport.RevenuePoolResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/revenue-pool [get]
func (h Handler) GetPoolHandler(ctx context.Context) (httptransport.RevenuePoolResponse, error) {
	pool, err := h.Service.GetPool(ctx)
	if err != nil {
		return httptransport.RevenuePoolResponse{}, err
	}
	return mapPool(pool), nil
}

func mapPool(pool entities.RevenuePool) httptransport.RevenuePoolResponse {
	return httptransport.RevenuePoolResponse{
		Authority:        pool.Authority,
		CreatorAccount:   pool.CreatorAccount,
		PlatformAccount:  pool.PlatformAccount,
		CreatorShareBps:  pool.CreatorShareBps,
		PlatformShareBps: pool.PlatformShareBps,
		TotalDistributed: pool.TotalDistributed,
		CreatedAt:        pool.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        pool.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
