package httptransport

type CreateListingRequest struct {
	NFTMint         string `json:"nft_mint"`
	Creator         string `json:"creator,omitempty"`
	Price           uint64 `json:"price"`
	MinBidIncrement uint64 `json:"min_bid_increment,omitempty"`
	AuctionEnd      string `json:"auction_end,omitempty"`
}

type PlaceBidRequest struct {
	Amount uint64 `json:"amount"`
}

type MakeOfferRequest struct {
	Amount    uint64 `json:"amount"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type BidResponse struct {
	Bidder string `json:"bidder"`
	Amount uint64 `json:"amount"`
}

type ListingResponse struct {
	ListingID       string       `json:"listing_id"`
	Seller          string       `json:"seller"`
	NFTMint         string       `json:"nft_mint"`
	Creator         string       `json:"creator,omitempty"`
	Price           uint64       `json:"price"`
	MinBidIncrement uint64       `json:"min_bid_increment"`
	AuctionEnd      string       `json:"auction_end,omitempty"`
	HighestBid      *BidResponse `json:"highest_bid,omitempty"`
	Status          string       `json:"status"`
	ListingType     string       `json:"listing_type"`
	CreatedAt       string       `json:"created_at"`
	UpdatedAt       string       `json:"updated_at"`
}

type ListingListResponse struct {
	Listings []ListingResponse `json:"listings"`
}

type OfferResponse struct {
	OfferID   string `json:"offer_id"`
	Buyer     string `json:"buyer"`
	ListingID string `json:"listing_id"`
	Amount    uint64 `json:"amount"`
	IsActive  bool   `json:"is_active"`
	ExpiresAt string `json:"expires_at,omitempty"`
	CreatedAt string `json:"created_at"`
}

type OfferListResponse struct {
	Offers []OfferResponse `json:"offers"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
