package httptransport

type InitializePoolRequest struct {
	Authority        string `json:"authority"`
	CreatorAccount   string `json:"creator_account"`
	PlatformAccount  string `json:"platform_account"`
	CreatorShareBps  uint16 `json:"creator_share_bps"`
	PlatformShareBps uint16 `json:"platform_share_bps"`
}

type DistributeRevenueRequest struct {
	Source string `json:"source"`
	Amount uint64 `json:"amount"`
}

type RevenuePoolResponse struct {
	Authority        string `json:"authority"`
	CreatorAccount   string `json:"creator_account"`
	PlatformAccount  string `json:"platform_account"`
	CreatorShareBps  uint16 `json:"creator_share_bps"`
	PlatformShareBps uint16 `json:"platform_share_bps"`
	TotalDistributed uint64 `json:"total_distributed"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

type DistributionResponse struct {
	Amount           uint64 `json:"amount"`
	CreatorAmount    uint64 `json:"creator_amount"`
	PlatformAmount   uint64 `json:"platform_amount"`
	TotalDistributed uint64 `json:"total_distributed"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
