package ports

import (
	"context"
	"time"

	"bazaar/contexts/marketplace-core/nft-auction-house/domain/entities"
	contractsv1 "bazaar/contracts/gen/events/v1"
)

// MarketplaceView is the slice of the marketplace config settlement needs.
type MarketplaceView struct {
	Treasury        string
	PlatformReserve string
	FeeBps          uint16
	CreatorFeeBps   uint16
	RewardBps       uint16
}

// ConfigStore reads the singleton marketplace config.
type ConfigStore interface {
	GetMarketplaceConfig(ctx context.Context) (MarketplaceView, error)
}

// ListingFilter defines read-side filtering/pagination for listings.
type ListingFilter struct {
	Seller     string
	Status     entities.ListingStatus
	Type       entities.ListingType
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ListingRepository owns listing and offer persistence and the transaction
// boundaries of the auction-house writes. Every *WithOutbox method commits
// its state change and the appended event atomically.
type ListingRepository interface {
	GetListing(ctx context.Context, listingID string) (entities.Listing, error)
	ListListings(ctx context.Context, filter ListingFilter) ([]entities.Listing, error)
	// ListExpiredAuctions returns active auction listings whose end has
	// passed at the given instant, oldest end first.
	ListExpiredAuctions(ctx context.Context, now time.Time, limit int) ([]entities.Listing, error)
	// CreateListingWithOutbox persists the listing, bumps the marketplace
	// total_listings counter, and appends the listed event.
	CreateListingWithOutbox(ctx context.Context, listing entities.Listing, event EventEnvelope) error
	// UpdateListingWithOutbox persists a new listing state (bid placed,
	// cancelled, settled without bids) and appends the event.
	UpdateListingWithOutbox(ctx context.Context, listing entities.Listing, event EventEnvelope) error
	// FinalizeSaleWithOutbox persists the terminal listing state, flips the
	// accepted offer when one is involved, bumps the marketplace sale and
	// volume counters by salePrice, and appends the event.
	FinalizeSaleWithOutbox(ctx context.Context, listing entities.Listing, offer *entities.Offer, salePrice uint64, event EventEnvelope) error

	GetOffer(ctx context.Context, offerID string) (entities.Offer, error)
	ListOffersByListing(ctx context.Context, listingID string) ([]entities.Offer, error)
	// CreateOfferWithOutbox persists the offer and appends the event. An
	// existing active offer under the same key fails; an inactive one is
	// replaced.
	CreateOfferWithOutbox(ctx context.Context, offer entities.Offer, event EventEnvelope) error
	UpdateOffer(ctx context.Context, offer entities.Offer) error
}

// AssetLedger moves single-unit assets between named accounts: into custody
// when a listing opens and out to the buyer or back to the seller when it
// closes.
type AssetLedger interface {
	TransferAsset(ctx context.Context, mint string, from string, to string) error
}

// ListingLocker serializes mutations per listing. Acquire blocks or fails
// with ErrLockHeld; the returned release must always be called.
type ListingLocker interface {
	Acquire(ctx context.Context, listingID string) (release func(), err error)
}

// Clock allows deterministic testing of timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts event identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
