package httptransport

type InitializeMarketplaceRequest struct {
	Authority       string `json:"authority"`
	Treasury        string `json:"treasury"`
	PlatformReserve string `json:"platform_reserve"`
	FeeBps          uint16 `json:"fee_bps"`
	CreatorFeeBps   uint16 `json:"creator_fee_bps"`
}

type UpdateFeesRequest struct {
	FeeBps        uint16 `json:"fee_bps"`
	CreatorFeeBps uint16 `json:"creator_fee_bps"`
}

type MarketplaceConfigResponse struct {
	Authority       string `json:"authority"`
	Treasury        string `json:"treasury"`
	PlatformReserve string `json:"platform_reserve"`
	FeeBps          uint16 `json:"fee_bps"`
	CreatorFeeBps   uint16 `json:"creator_fee_bps"`
	RewardBps       uint16 `json:"reward_bps"`
	TotalVolume     uint64 `json:"total_volume"`
	TotalListings   uint64 `json:"total_listings"`
	TotalSales      uint64 `json:"total_sales"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
