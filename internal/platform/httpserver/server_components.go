package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	settlementerrors "bazaar/contexts/finance-core/settlement-engine/domain/errors"
	registryerrors "bazaar/contexts/marketplace-core/component-registry/domain/errors"
	registryports "bazaar/contexts/marketplace-core/component-registry/ports"
	registryhttp "bazaar/contexts/marketplace-core/component-registry/transport/http"
)

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{Code: code, Message: message})
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrComponentNotFound),
		errors.Is(err, registryerrors.ErrPurchaseNotFound):
		writeRegistryError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, registryerrors.ErrComponentExists),
		errors.Is(err, registryerrors.ErrAlreadyPurchased):
		writeRegistryError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, registryerrors.ErrComponentNotActive):
		writeRegistryError(w, http.StatusGone, "component_not_active", err.Error())
	case errors.Is(err, registryerrors.ErrUnauthorizedCreator):
		writeRegistryError(w, http.StatusForbidden, "unauthorized_creator", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidPrice),
		errors.Is(err, registryerrors.ErrComponentIDTooLong),
		errors.Is(err, registryerrors.ErrInvalidComponentInput):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, registryerrors.ErrMarketplaceUninitialized):
		writeRegistryError(w, http.StatusFailedDependency, "marketplace_uninitialized", err.Error())
	case errors.Is(err, settlementerrors.ErrInsufficientFunds):
		writeRegistryError(w, http.StatusPaymentRequired, "insufficient_funds", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireRegistryCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := resolveCaller(r)
	if caller == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return "", false
	}
	return caller, true
}

func (s *Server) handleListComponent(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireRegistryCaller(w, r)
	if !ok {
		return
	}

	var req registryhttp.ListComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.registry.Handler.ListComponentHandler(r.Context(), caller, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListComponents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := registryports.ComponentListFilter{
		Creator:    query.Get("creator"),
		ActiveOnly: query.Get("active_only") == "true",
	}
	if limitRaw := query.Get("limit"); limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeRegistryError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		filter.Limit = limit
	}
	if offsetRaw := query.Get("offset"); offsetRaw != "" {
		offset, err := strconv.Atoi(offsetRaw)
		if err != nil {
			writeRegistryError(w, http.StatusBadRequest, "invalid_offset", "offset must be an integer")
			return
		}
		filter.Offset = offset
	}

	resp, err := s.registry.Handler.ListComponentsHandler(r.Context(), filter)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetComponent(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.GetComponentHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelistComponent(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireRegistryCaller(w, r)
	if !ok {
		return
	}

	if err := s.registry.Handler.DelistComponentHandler(r.Context(), caller, r.PathValue("id")); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePurchaseComponent(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireRegistryCaller(w, r)
	if !ok {
		return
	}

	resp, err := s.registry.Handler.PurchaseComponentHandler(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireRegistryCaller(w, r)
	if !ok {
		return
	}

	resp, err := s.registry.Handler.ListPurchasesHandler(r.Context(), caller)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
