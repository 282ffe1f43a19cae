package entities

import "time"

// Purchase is the append-only receipt of one completed component sale. Its
// key is derived from buyer+component id, so one buyer holds at most one
// receipt per component and resubmission cannot double-settle.
type Purchase struct {
	PurchaseID  string
	Buyer       string
	ComponentID string
	Price       uint64
	Reward      uint64
	PurchasedAt time.Time
}
