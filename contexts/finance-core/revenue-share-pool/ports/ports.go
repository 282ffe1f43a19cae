package ports

import (
	"context"
	"time"

	"bazaar/contexts/finance-core/revenue-share-pool/domain/entities"
	contractsv1 "bazaar/contracts/gen/events/v1"
)

// PoolRepository owns the singleton pool record. RecordDistribution must
// commit the updated running total and the appended event atomically.
type PoolRepository interface {
	CreatePool(ctx context.Context, pool entities.RevenuePool) error
	GetPool(ctx context.Context) (entities.RevenuePool, error)
	RecordDistribution(ctx context.Context, totalDistributed uint64, updatedAt time.Time, event EventEnvelope) error
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
