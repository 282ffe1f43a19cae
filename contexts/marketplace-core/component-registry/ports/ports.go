package ports

import (
	"context"
	"time"

	"bazaar/contexts/marketplace-core/component-registry/domain/entities"
	contractsv1 "bazaar/contracts/gen/events/v1"
)

// MarketplaceView is the slice of the marketplace config this module needs
// for settlement: fee rates and the platform accounts.
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

// ComponentListFilter defines read-side filtering/pagination for the catalog.
type ComponentListFilter struct {
	Creator    string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ComponentRepository owns component and receipt persistence and the
// transaction boundaries of the registry writes. The *WithOutbox and
// Finalize* methods must commit all their rows atomically.
type ComponentRepository interface {
	GetComponent(ctx context.Context, componentID string) (entities.Component, error)
	ListComponents(ctx context.Context, filter ComponentListFilter) ([]entities.Component, error)
	// CreateComponentWithOutbox persists the component, increments the
	// marketplace total_listings counter, and appends the listed event.
	CreateComponentWithOutbox(ctx context.Context, component entities.Component, event EventEnvelope) error
	DeactivateComponent(ctx context.Context, componentID string, updatedAt time.Time) error
	GetPurchase(ctx context.Context, purchaseID string) (entities.Purchase, error)
	ListPurchasesByBuyer(ctx context.Context, buyer string) ([]entities.Purchase, error)
	// FinalizePurchase persists the receipt, bumps the component sale and
	// reward counters, bumps the marketplace volume/sale counters, and
	// appends the purchased event. Receipt key collision must surface as
	// ErrAlreadyPurchased with nothing committed.
	FinalizePurchase(ctx context.Context, purchase entities.Purchase, event EventEnvelope) error
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
