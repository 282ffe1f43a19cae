package memory

import (
	"context"
	"sync"
	"time"

	"bazaar/contexts/marketplace-core/marketplace-config/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/marketplace-config/domain/errors"
)

type Store struct {
	mu     sync.RWMutex
	config *entities.MarketplaceConfig
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) CreateConfig(_ context.Context, config entities.MarketplaceConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config != nil {
		return domainerrors.ErrMarketplaceExists
	}
	copied := config
	s.config = &copied
	return nil
}

func (s *Store) GetConfig(_ context.Context) (entities.MarketplaceConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config == nil {
		return entities.MarketplaceConfig{}, domainerrors.ErrMarketplaceNotFound
	}
	return *s.config, nil
}

func (s *Store) UpdateFees(_ context.Context, feeBps uint16, creatorFeeBps uint16, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config == nil {
		return domainerrors.ErrMarketplaceNotFound
	}
	s.config.FeeBps = feeBps
	s.config.CreatorFeeBps = creatorFeeBps
	s.config.UpdatedAt = updatedAt.UTC()
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
