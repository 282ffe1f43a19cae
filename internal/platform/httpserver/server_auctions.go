package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	settlementerrors "bazaar/contexts/finance-core/settlement-engine/domain/errors"
	"bazaar/contexts/marketplace-core/nft-auction-house/domain/entities"
	auctionerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"
	auctionports "bazaar/contexts/marketplace-core/nft-auction-house/ports"
	auctionhttp "bazaar/contexts/marketplace-core/nft-auction-house/transport/http"
)

func writeAuctionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, auctionhttp.ErrorResponse{Code: code, Message: message})
}

func writeAuctionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auctionerrors.ErrListingNotFound),
		errors.Is(err, auctionerrors.ErrOfferNotFound):
		writeAuctionError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, auctionerrors.ErrListingExists),
		errors.Is(err, auctionerrors.ErrOfferExists),
		errors.Is(err, auctionerrors.ErrLockHeld):
		writeAuctionError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, auctionerrors.ErrListingNotActive),
		errors.Is(err, auctionerrors.ErrOfferNotActive):
		writeAuctionError(w, http.StatusGone, "not_active", err.Error())
	case errors.Is(err, auctionerrors.ErrAuctionEnded),
		errors.Is(err, auctionerrors.ErrAuctionNotEnded),
		errors.Is(err, auctionerrors.ErrNotAnAuction),
		errors.Is(err, auctionerrors.ErrNotFixedPrice),
		errors.Is(err, auctionerrors.ErrBidTooLow),
		errors.Is(err, auctionerrors.ErrSelfBidForbidden):
		writeAuctionError(w, http.StatusUnprocessableEntity, "not_allowed", err.Error())
	case errors.Is(err, auctionerrors.ErrUnauthorizedSeller),
		errors.Is(err, auctionerrors.ErrUnauthorizedBuyer):
		writeAuctionError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, auctionerrors.ErrInvalidListingInput),
		errors.Is(err, auctionerrors.ErrInvalidPrice),
		errors.Is(err, auctionerrors.ErrInvalidAuctionEnd),
		errors.Is(err, auctionerrors.ErrInvalidOfferAmount),
		errors.Is(err, auctionerrors.ErrInvalidOfferExpiry):
		writeAuctionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, auctionerrors.ErrMarketplaceUninitialized):
		writeAuctionError(w, http.StatusFailedDependency, "marketplace_uninitialized", err.Error())
	case errors.Is(err, settlementerrors.ErrInsufficientFunds):
		writeAuctionError(w, http.StatusPaymentRequired, "insufficient_funds", err.Error())
	default:
		writeAuctionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireAuctionCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := resolveCaller(r)
	if caller == "" {
		writeAuctionError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return "", false
	}
	return caller, true
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAuctionCaller(w, r)
	if !ok {
		return
	}

	var req auctionhttp.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuctionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.auctions.Handler.CreateListingHandler(r.Context(), caller, req)
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := auctionports.ListingFilter{
		Seller:     query.Get("seller"),
		Status:     entities.ListingStatus(query.Get("status")),
		Type:       entities.ListingType(query.Get("type")),
		ActiveOnly: query.Get("active_only") == "true",
	}
	if limitRaw := query.Get("limit"); limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeAuctionError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		filter.Limit = limit
	}
	if offsetRaw := query.Get("offset"); offsetRaw != "" {
		offset, err := strconv.Atoi(offsetRaw)
		if err != nil {
			writeAuctionError(w, http.StatusBadRequest, "invalid_offset", "offset must be an integer")
			return
		}
		filter.Offset = offset
	}

	resp, err := s.auctions.Handler.ListListingsHandler(r.Context(), filter)
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	resp, err := s.auctions.Handler.GetListingHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelListing(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAuctionCaller(w, r)
	if !ok {
		return
	}

	resp, err := s.auctions.Handler.CancelListingHandler(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlaceBid(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAuctionCaller(w, r)
	if !ok {
		return
	}

	var req auctionhttp.PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuctionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.auctions.Handler.PlaceBidHandler(r.Context(), caller, r.PathValue("id"), req)
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePurchaseListing(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAuctionCaller(w, r)
	if !ok {
		return
	}

	resp, err := s.auctions.Handler.PurchaseListingHandler(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMakeOffer(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAuctionCaller(w, r)
	if !ok {
		return
	}

	var req auctionhttp.MakeOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuctionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.auctions.Handler.MakeOfferHandler(r.Context(), caller, r.PathValue("id"), req)
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.auctions.Handler.ListOffersHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSettleAuction(w http.ResponseWriter, r *http.Request) {
	resp, err := s.auctions.Handler.SettleAuctionHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelOffer(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAuctionCaller(w, r)
	if !ok {
		return
	}

	if err := s.auctions.Handler.CancelOfferHandler(r.Context(), caller, r.PathValue("id")); err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAcceptOffer(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAuctionCaller(w, r)
	if !ok {
		return
	}

	resp, err := s.auctions.Handler.AcceptOfferHandler(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
