package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"bazaar/contexts/marketplace-core/nft-auction-house/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"
	"bazaar/contexts/marketplace-core/nft-auction-house/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory auction-house backend used by tests and local
// wiring. It implements ListingRepository, ConfigStore, and OutboxRepository
// with the same atomicity the postgres adapter guarantees per call.
type Store struct {
	mu       sync.Mutex
	config   ports.MarketplaceView
	listings map[string]entities.Listing
	offers   map[string]entities.Offer
	outbox   []outboxRecord

	totalListings uint64
	totalSales    uint64
	totalVolume   uint64
}

func NewStore(config ports.MarketplaceView) *Store {
	return &Store{
		config:   config,
		listings: make(map[string]entities.Listing),
		offers:   make(map[string]entities.Offer),
	}
}

func (s *Store) GetMarketplaceConfig(_ context.Context) (ports.MarketplaceView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config, nil
}

func (s *Store) GetListing(_ context.Context, listingID string) (entities.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, ok := s.listings[listingID]
	if !ok {
		return entities.Listing{}, domainerrors.ErrListingNotFound
	}
	return listing, nil
}

func (s *Store) ListListings(_ context.Context, filter ports.ListingFilter) ([]entities.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]entities.Listing, 0, len(s.listings))
	for _, listing := range s.listings {
		if filter.ActiveOnly && listing.Status != entities.ListingStatusActive {
			continue
		}
		if filter.Status != "" && listing.Status != filter.Status {
			continue
		}
		if filter.Type != "" && listing.ListingType != filter.Type {
			continue
		}
		if filter.Seller != "" && listing.Seller != filter.Seller {
			continue
		}
		matched = append(matched, listing)
	}
	sortListings(matched)

	if filter.Offset >= len(matched) {
		return []entities.Listing{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *Store) ListExpiredAuctions(_ context.Context, now time.Time, limit int) ([]entities.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]entities.Listing, 0)
	for _, listing := range s.listings {
		if listing.Status != entities.ListingStatusActive || !listing.IsAuction() {
			continue
		}
		if listing.AuctionEnded(now) {
			matched = append(matched, listing)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].AuctionEnd.Before(*matched[j].AuctionEnd)
	})
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *Store) CreateListingWithOutbox(_ context.Context, listing entities.Listing, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.listings[listing.ListingID]; exists {
		return domainerrors.ErrListingExists
	}
	message, err := toOutboxMessage(event)
	if err != nil {
		return err
	}
	s.listings[listing.ListingID] = listing
	s.totalListings++
	s.outbox = append(s.outbox, outboxRecord{message: message})
	return nil
}

func (s *Store) UpdateListingWithOutbox(_ context.Context, listing entities.Listing, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[listing.ListingID]; !ok {
		return domainerrors.ErrListingNotFound
	}
	message, err := toOutboxMessage(event)
	if err != nil {
		return err
	}
	s.listings[listing.ListingID] = listing
	s.outbox = append(s.outbox, outboxRecord{message: message})
	return nil
}

func (s *Store) FinalizeSaleWithOutbox(_ context.Context, listing entities.Listing, offer *entities.Offer, salePrice uint64, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[listing.ListingID]; !ok {
		return domainerrors.ErrListingNotFound
	}
	if offer != nil {
		if _, ok := s.offers[offer.OfferID]; !ok {
			return domainerrors.ErrOfferNotFound
		}
	}
	message, err := toOutboxMessage(event)
	if err != nil {
		return err
	}
	s.listings[listing.ListingID] = listing
	if offer != nil {
		s.offers[offer.OfferID] = *offer
	}
	s.totalSales++
	s.totalVolume += salePrice
	s.outbox = append(s.outbox, outboxRecord{message: message})
	return nil
}

func (s *Store) GetOffer(_ context.Context, offerID string) (entities.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.offers[offerID]
	if !ok {
		return entities.Offer{}, domainerrors.ErrOfferNotFound
	}
	return offer, nil
}

func (s *Store) ListOffersByListing(_ context.Context, listingID string) ([]entities.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]entities.Offer, 0)
	for _, offer := range s.offers {
		if offer.ListingID == listingID {
			matched = append(matched, offer)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].OfferID < matched[j].OfferID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func (s *Store) CreateOfferWithOutbox(_ context.Context, offer entities.Offer, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.offers[offer.OfferID]; exists && existing.IsActive {
		return domainerrors.ErrOfferExists
	}
	message, err := toOutboxMessage(event)
	if err != nil {
		return err
	}
	s.offers[offer.OfferID] = offer
	s.outbox = append(s.outbox, outboxRecord{message: message})
	return nil
}

func (s *Store) UpdateOffer(_ context.Context, offer entities.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.offers[offer.OfferID]; !ok {
		return domainerrors.ErrOfferNotFound
	}
	s.offers[offer.OfferID] = offer
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

func sortListings(items []entities.Listing) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ListingID < items[j].ListingID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
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
