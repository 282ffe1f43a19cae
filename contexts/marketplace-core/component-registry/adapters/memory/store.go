package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"bazaar/contexts/marketplace-core/component-registry/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/component-registry/domain/errors"
	"bazaar/contexts/marketplace-core/component-registry/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory registry backend used by tests and local wiring. It
// implements ComponentRepository, ConfigStore, and OutboxRepository with the
// same atomicity the postgres adapter guarantees per call.
type Store struct {
	mu         sync.Mutex
	config     ports.MarketplaceView
	components map[string]entities.Component
	purchases  map[string]entities.Purchase
	outbox     []outboxRecord

	totalListings uint64
	totalSales    uint64
	totalVolume   uint64
}

func NewStore(config ports.MarketplaceView) *Store {
	return &Store{
		config:     config,
		components: make(map[string]entities.Component),
		purchases:  make(map[string]entities.Purchase),
	}
}

func (s *Store) GetMarketplaceConfig(_ context.Context) (ports.MarketplaceView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config, nil
}

func (s *Store) GetComponent(_ context.Context, componentID string) (entities.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	component, ok := s.components[componentID]
	if !ok {
		return entities.Component{}, domainerrors.ErrComponentNotFound
	}
	return component, nil
}

func (s *Store) ListComponents(_ context.Context, filter ports.ComponentListFilter) ([]entities.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]entities.Component, 0, len(s.components))
	for _, component := range s.components {
		if filter.ActiveOnly && !component.IsActive {
			continue
		}
		if filter.Creator != "" && component.Creator != filter.Creator {
			continue
		}
		matched = append(matched, component)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ComponentID < matched[j].ComponentID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return []entities.Component{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *Store) CreateComponentWithOutbox(_ context.Context, component entities.Component, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[component.ComponentID]; exists {
		return domainerrors.ErrComponentExists
	}
	message, err := toOutboxMessage(event)
	if err != nil {
		return err
	}
	s.components[component.ComponentID] = component
	s.totalListings++
	s.outbox = append(s.outbox, outboxRecord{message: message})
	return nil
}

func (s *Store) DeactivateComponent(_ context.Context, componentID string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	component, ok := s.components[componentID]
	if !ok {
		return domainerrors.ErrComponentNotFound
	}
	component.IsActive = false
	component.UpdatedAt = updatedAt
	s.components[componentID] = component
	return nil
}

func (s *Store) GetPurchase(_ context.Context, purchaseID string) (entities.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	purchase, ok := s.purchases[purchaseID]
	if !ok {
		return entities.Purchase{}, domainerrors.ErrPurchaseNotFound
	}
	return purchase, nil
}

func (s *Store) ListPurchasesByBuyer(_ context.Context, buyer string) ([]entities.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]entities.Purchase, 0)
	for _, purchase := range s.purchases {
		if purchase.Buyer == buyer {
			matched = append(matched, purchase)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].PurchasedAt.Equal(matched[j].PurchasedAt) {
			return matched[i].PurchaseID < matched[j].PurchaseID
		}
		return matched[i].PurchasedAt.Before(matched[j].PurchasedAt)
	})
	return matched, nil
}

func (s *Store) FinalizePurchase(_ context.Context, purchase entities.Purchase, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.purchases[purchase.PurchaseID]; exists {
		return domainerrors.ErrAlreadyPurchased
	}
	component, ok := s.components[purchase.ComponentID]
	if !ok {
		return domainerrors.ErrComponentNotFound
	}
	message, err := toOutboxMessage(event)
	if err != nil {
		return err
	}

	component.TotalSales++
	component.TotalRewardsEarned += purchase.Reward
	component.UpdatedAt = purchase.PurchasedAt
	s.components[purchase.ComponentID] = component
	s.purchases[purchase.PurchaseID] = purchase
	s.totalSales++
	s.totalVolume += purchase.Price
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

// Counters reports the marketplace counters accumulated by this store.
func (s *Store) Counters() (listings, sales, volume uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalListings, s.totalSales, s.totalVolume
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
