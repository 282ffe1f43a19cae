package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	configerrors "bazaar/contexts/marketplace-core/marketplace-config/domain/errors"
	confighttp "bazaar/contexts/marketplace-core/marketplace-config/transport/http"
)

func writeMarketplaceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, confighttp.ErrorResponse{Code: code, Message: message})
}

func writeMarketplaceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, configerrors.ErrMarketplaceNotFound):
		writeMarketplaceError(w, http.StatusNotFound, "marketplace_not_found", err.Error())
	case errors.Is(err, configerrors.ErrMarketplaceExists):
		writeMarketplaceError(w, http.StatusConflict, "marketplace_exists", err.Error())
	case errors.Is(err, configerrors.ErrUnauthorizedAuthority):
		writeMarketplaceError(w, http.StatusForbidden, "unauthorized_authority", err.Error())
	case errors.Is(err, configerrors.ErrInvalidFeePercentage),
		errors.Is(err, configerrors.ErrInvalidConfigInput):
		writeMarketplaceError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeMarketplaceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireMarketplaceCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := resolveCaller(r)
	if caller == "" {
		writeMarketplaceError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return "", false
	}
	return caller, true
}

func (s *Server) handleInitializeMarketplace(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireMarketplaceCaller(w, r)
	if !ok {
		return
	}

	var req confighttp.InitializeMarketplaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketplaceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.InitializeHandler(r.Context(), caller, req)
	if err != nil {
		writeMarketplaceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateFees(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireMarketplaceCaller(w, r)
	if !ok {
		return
	}

	var req confighttp.UpdateFeesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketplaceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.UpdateFeesHandler(r.Context(), caller, req)
	if err != nil {
		writeMarketplaceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMarketplaceStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.marketplace.Handler.GetStatsHandler(r.Context())
	if err != nil {
		writeMarketplaceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
