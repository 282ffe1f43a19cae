package entities

import (
	"strings"
	"time"

	domainerrors "bazaar/contexts/marketplace-core/component-registry/domain/errors"
)

// MaxComponentIDBytes bounds the deterministic component identifier.
const MaxComponentIDBytes = 32

// Component is a fixed-price listing of a digital component, keyed by its
// creator-chosen component id. Once delisted the id is never reused.
type Component struct {
	ComponentID        string
	Creator            string
	Price              uint64
	MetadataURI        string
	IsActive           bool
	TotalSales         uint64
	TotalRewardsEarned uint64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewComponent(
	componentID string,
	creator string,
	price uint64,
	metadataURI string,
	createdAt time.Time,
) (Component, error) {
	componentID = strings.TrimSpace(componentID)
	creator = strings.TrimSpace(creator)
	if componentID == "" || creator == "" {
		return Component{}, domainerrors.ErrInvalidComponentInput
	}
	if len(componentID) > MaxComponentIDBytes {
		return Component{}, domainerrors.ErrComponentIDTooLong
	}
	if price == 0 {
		return Component{}, domainerrors.ErrInvalidPrice
	}
	return Component{
		ComponentID: componentID,
		Creator:     creator,
		Price:       price,
		MetadataURI: metadataURI,
		IsActive:    true,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   createdAt.UTC(),
	}, nil
}
