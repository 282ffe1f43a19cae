package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"bazaar/contexts/marketplace-core/nft-auction-house/application/commands"
	"bazaar/contexts/marketplace-core/nft-auction-house/application/queries"
	"bazaar/contexts/marketplace-core/nft-auction-house/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"
	"bazaar/contexts/marketplace-core/nft-auction-house/ports"
	httptransport "bazaar/contexts/marketplace-core/nft-auction-house/transport/http"
)

type Handler struct {
	Auctions commands.AuctionUseCase
	Queries  *queries.Queries
	Logger   *slog.Logger
}

// CreateListingHandler godoc
// @Summary Create an NFT listing
// @Description Escrows the asset in marketplace custody and opens a fixed-price sale or auction.
// @Tags nft-auction-house
// @Accept json
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Success 201 {object} httptransport.ListingResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/listings [post]
func (h Handler) CreateListingHandler(
	ctx context.Context,
	caller string,
	req httptransport.CreateListingRequest,
) (httptransport.ListingResponse, error) {
	auctionEnd, err := parseOptionalTime(req.AuctionEnd)
	if err != nil {
		return httptransport.ListingResponse{}, domainerrors.ErrInvalidAuctionEnd
	}
	listing, err := h.Auctions.CreateListing(ctx, commands.CreateListingCommand{
		Seller:          caller,
		NFTMint:         req.NFTMint,
		Creator:         req.Creator,
		Price:           req.Price,
		MinBidIncrement: req.MinBidIncrement,
		AuctionEnd:      auctionEnd,
	})
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListing(listing), nil
}

// PlaceBidHandler godoc
// @Summary Place an auction bid
// @Description Escrows the bid and refunds the displaced bidder atomically.
// @Tags nft-auction-house
// @Accept json
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Param id path string true "Listing id"
// @Success 200 {object} httptransport.ListingResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/listings/{id}/bids [post]
func (h Handler) PlaceBidHandler(
	ctx context.Context,
	caller string,
	listingID string,
	req httptransport.PlaceBidRequest,
) (httptransport.ListingResponse, error) {
	listing, err := h.Auctions.PlaceBid(ctx, commands.PlaceBidCommand{
		ListingID: listingID,
		Bidder:    caller,
		Amount:    req.Amount,
	})
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListing(listing), nil
}

// PurchaseListingHandler godoc
// @Summary Buy a fixed-price listing
// @Tags nft-auction-house
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Param id path string true "Listing id"
// @Success 200 {object} httptransport.ListingResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/listings/{id}/purchase [post]
func (h Handler) PurchaseListingHandler(ctx context.Context, caller string, listingID string) (httptransport.ListingResponse, error) {
	listing, err := h.Auctions.PurchaseListing(ctx, commands.PurchaseListingCommand{
		ListingID: listingID,
		Buyer:     caller,
	})
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListing(listing), nil
}

// MakeOfferHandler godoc
// @Summary Make a standing offer on a listing
// @Tags nft-auction-house
// @Accept json
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Param id path string true "Listing id"
// @Success 201 {object} httptransport.OfferResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/listings/{id}/offers [post]
func (h Handler) MakeOfferHandler(
	ctx context.Context,
	caller string,
	listingID string,
	req httptransport.MakeOfferRequest,
) (httptransport.OfferResponse, error) {
	expiresAt, err := parseOptionalTime(req.ExpiresAt)
	if err != nil {
		return httptransport.OfferResponse{}, domainerrors.ErrInvalidOfferExpiry
	}
	offer, err := h.Auctions.MakeOffer(ctx, commands.MakeOfferCommand{
		ListingID: listingID,
		Buyer:     caller,
		Amount:    req.Amount,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return httptransport.OfferResponse{}, err
	}
	return mapOffer(offer), nil
}

// CancelOfferHandler godoc
// @Summary Cancel the caller's offer
// @Tags nft-auction-house
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Param id path string true "Offer id"
// @Success 204
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/offers/{id} [delete]
func (h Handler) CancelOfferHandler(ctx context.Context, caller string, offerID string) error {
	return h.Auctions.CancelOffer(ctx, commands.CancelOfferCommand{
		OfferID: offerID,
		Caller:  caller,
	})
}

// AcceptOfferHandler godoc
// @Summary Accept an offer on the caller's listing
// @Tags nft-auction-house
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Param id path string true "Offer id"
// @Success 200 {object} httptransport.ListingResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/offers/{id}/accept [post]
func (h Handler) AcceptOfferHandler(ctx context.Context, caller string, offerID string) (httptransport.ListingResponse, error) {
	listing, err := h.Auctions.AcceptOffer(ctx, commands.AcceptOfferCommand{
		OfferID: offerID,
		Caller:  caller,
	})
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListing(listing), nil
}

// CancelListingHandler godoc
// @Summary Cancel the caller's listing
// @Description Refunds any escrowed bid and returns the asset to the seller.
// @Tags nft-auction-house
// @Produce json
// @Param X-Caller-Id header string true "Authenticated caller identity"
// @Param id path string true "Listing id"
// @Success 200 {object} httptransport.ListingResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/listings/{id} [delete]
func (h Handler) CancelListingHandler(ctx context.Context, caller string, listingID string) (httptransport.ListingResponse, error) {
	listing, err := h.Auctions.CancelListing(ctx, commands.CancelListingCommand{
		ListingID: listingID,
		Caller:    caller,
	})
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListing(listing), nil
}

// SettleAuctionHandler godoc
// @Summary Settle an ended auction
// @Tags nft-auction-house
// @Produce json
// @Param id path string true "Listing id"
// @Success 200 {object} httptransport.ListingResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/listings/{id}/settle [post]
func (h Handler) SettleAuctionHandler(ctx context.Context, listingID string) (httptransport.ListingResponse, error) {
	listing, err := h.Auctions.SettleAuction(ctx, commands.SettleAuctionCommand{ListingID: listingID})
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListing(listing), nil
}

// GetListingHandler godoc
// @Summary Get one listing
// @Tags nft-auction-house
// @Produce json
// @Param id path string true "Listing id"
// @Success 200 {object} httptransport.ListingResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/listings/{id} [get]
func (h Handler) GetListingHandler(ctx context.Context, listingID string) (httptransport.ListingResponse, error) {
	listing, err := h.Queries.GetListing(ctx, listingID)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListing(listing), nil
}

// ListListingsHandler godoc
// @Summary Browse listings
// @Tags nft-auction-house
// @Produce json
// @Param seller query string false "Filter by seller"
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by listing type"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} httptransport.ListingListResponse
// @Router /v1/listings [get]
func (h Handler) ListListingsHandler(ctx context.Context, filter ports.ListingFilter) (httptransport.ListingListResponse, error) {
	listings, err := h.Queries.ListListings(ctx, filter)
	if err != nil {
		return httptransport.ListingListResponse{}, err
	}
	out := httptransport.ListingListResponse{Listings: make([]httptransport.ListingResponse, 0, len(listings))}
	for _, listing := range listings {
		out.Listings = append(out.Listings, mapListing(listing))
	}
	return out, nil
}

// ListOffersHandler godoc
// @Summary List offers on a listing
// @Tags nft-auction-house
// @Produce json
// @Param id path string true "Listing id"
// @Success 200 {object} httptransport.OfferListResponse
// @Router /v1/listings/{id}/offers [get]
func (h Handler) ListOffersHandler(ctx context.Context, listingID string) (httptransport.OfferListResponse, error) {
	offers, err := h.Queries.ListOffersByListing(ctx, listingID)
	if err != nil {
		return httptransport.OfferListResponse{}, err
	}
	out := httptransport.OfferListResponse{Offers: make([]httptransport.OfferResponse, 0, len(offers))}
	for _, offer := range offers {
		out.Offers = append(out.Offers, mapOffer(offer))
	}
	return out, nil
}

func parseOptionalTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	utc := parsed.UTC()
	return &utc, nil
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func mapListing(listing entities.Listing) httptransport.ListingResponse {
	out := httptransport.ListingResponse{
		ListingID:       listing.ListingID,
		Seller:          listing.Seller,
		NFTMint:         listing.NFTMint,
		Creator:         listing.Creator,
		Price:           listing.Price,
		MinBidIncrement: listing.MinBidIncrement,
		AuctionEnd:      formatOptionalTime(listing.AuctionEnd),
		Status:          string(listing.Status),
		ListingType:     string(listing.ListingType),
		CreatedAt:       listing.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       listing.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if listing.HighestBid != nil {
		out.HighestBid = &httptransport.BidResponse{
			Bidder: listing.HighestBid.Bidder,
			Amount: listing.HighestBid.Amount,
		}
	}
	return out
}

func mapOffer(offer entities.Offer) httptransport.OfferResponse {
	return httptransport.OfferResponse{
		OfferID:   offer.OfferID,
		Buyer:     offer.Buyer,
		ListingID: offer.ListingID,
		Amount:    offer.Amount,
		IsActive:  offer.IsActive,
		ExpiresAt: formatOptionalTime(offer.ExpiresAt),
		CreatedAt: offer.CreatedAt.UTC().Format(time.RFC3339),
	}
}
