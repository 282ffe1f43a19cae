package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"bazaar/contexts/finance-core/revenue-share-pool/domain/entities"
	domainerrors "bazaar/contexts/finance-core/revenue-share-pool/domain/errors"
	"bazaar/contexts/finance-core/revenue-share-pool/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory pool backend used by tests and local wiring. It
// implements PoolRepository and OutboxRepository with the same atomicity the
// postgres adapter guarantees per call.
type Store struct {
	mu      sync.Mutex
	pool    entities.RevenuePool
	hasPool bool
	outbox  []outboxRecord
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) CreatePool(_ context.Context, pool entities.RevenuePool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasPool {
		return domainerrors.ErrPoolExists
	}
	s.pool = pool
	s.hasPool = true
	return nil
}

func (s *Store) GetPool(_ context.Context) (entities.RevenuePool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasPool {
		return entities.RevenuePool{}, domainerrors.ErrPoolNotFound
	}
	return s.pool, nil
}

func (s *Store) RecordDistribution(_ context.Context, totalDistributed uint64, updatedAt time.Time, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasPool {
		return domainerrors.ErrPoolNotFound
	}
	message, err := toOutboxMessage(event)
	if err != nil {
		return err
	}
	s.pool.TotalDistributed = totalDistributed
	s.pool.UpdatedAt = updatedAt
	s.outbox = append(s.outbox, outboxRecord{message: message})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]ports.OutboxMessage, 0, limit)
	for _, record := range s.outbox {
		if record.published {
			continue
		}
		pending = append(pending, record.message)
		if limit > 0 && len(pending) >= limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, record := range s.outbox {
		if record.message.OutboxID == outboxID {
			s.outbox[i].published = true
			return nil
		}
	}
	return domainerrors.ErrOutboxNotFound
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func toOutboxMessage(event ports.EventEnvelope) (ports.OutboxMessage, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	return ports.OutboxMessage{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      payload,
		CreatedAt:    event.OccurredAt,
	}, nil
}
