package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	poolerrors "bazaar/contexts/finance-core/revenue-share-pool/domain/errors"
	poolhttp "bazaar/contexts/finance-core/revenue-share-pool/transport/http"
	settlementerrors "bazaar/contexts/finance-core/settlement-engine/domain/errors"
)

func writePoolError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, poolhttp.ErrorResponse{Code: code, Message: message})
}

func writePoolDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, poolerrors.ErrPoolNotFound):
		writePoolError(w, http.StatusNotFound, "pool_not_found", err.Error())
	case errors.Is(err, poolerrors.ErrPoolExists):
		writePoolError(w, http.StatusConflict, "pool_exists", err.Error())
	case errors.Is(err, poolerrors.ErrUnauthorizedAuthority):
		writePoolError(w, http.StatusForbidden, "unauthorized_authority", err.Error())
	case errors.Is(err, poolerrors.ErrInvalidShares),
		errors.Is(err, poolerrors.ErrInvalidAmount),
		errors.Is(err, poolerrors.ErrInvalidPoolInput):
		writePoolError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, settlementerrors.ErrInsufficientFunds):
		writePoolError(w, http.StatusPaymentRequired, "insufficient_funds", err.Error())
	default:
		writePoolError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requirePoolCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := resolveCaller(r)
	if caller == "" {
		writePoolError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return "", false
	}
	return caller, true
}

func (s *Server) handleInitializePool(w http.ResponseWriter, r *http.Request) {
	caller, ok := requirePoolCaller(w, r)
	if !ok {
		return
	}

	var req poolhttp.InitializePoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePoolError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.revenue.Handler.InitializePoolHandler(r.Context(), caller, req)
	if err != nil {
		writePoolDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetPool(w http.ResponseWriter, r *http.Request) {
	resp, err := s.revenue.Handler.GetPoolHandler(r.Context())
	if err != nil {
		writePoolDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDistributeRevenue(w http.ResponseWriter, r *http.Request) {
	caller, ok := requirePoolCaller(w, r)
	if !ok {
		return
	}

	var req poolhttp.DistributeRevenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePoolError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.revenue.Handler.DistributeRevenueHandler(r.Context(), caller, req)
	if err != nil {
		writePoolDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
