package httptransport

type ListComponentRequest struct {
	ComponentID string `json:"component_id"`
	Price       uint64 `json:"price"`
	MetadataURI string `json:"metadata_uri"`
}

type ComponentResponse struct {
	ComponentID        string `json:"component_id"`
	Creator            string `json:"creator"`
	Price              uint64 `json:"price"`
	MetadataURI        string `json:"metadata_uri"`
	IsActive           bool   `json:"is_active"`
	TotalSales         uint64 `json:"total_sales"`
	TotalRewardsEarned uint64 `json:"total_rewards_earned"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

type ComponentListResponse struct {
	Components []ComponentResponse `json:"components"`
}

type PurchaseResponse struct {
	PurchaseID  string `json:"purchase_id"`
	Buyer       string `json:"buyer"`
	ComponentID string `json:"component_id"`
	Price       uint64 `json:"price"`
	Reward      uint64 `json:"reward"`
	PurchasedAt string `json:"purchased_at"`
}

type PurchaseListResponse struct {
	Purchases []PurchaseResponse `json:"purchases"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
