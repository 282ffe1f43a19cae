package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"bazaar/contexts/marketplace-core/marketplace-config/adapters/memory"
	domainerrors "bazaar/contexts/marketplace-core/marketplace-config/domain/errors"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newService() Service {
	return Service{
		Repo:  memory.NewStore(),
		Clock: fixedClock{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)},
	}
}

func TestInitializeRejectsOversizedCreatorFee(t *testing.T) {
	service := newService()
	_, err := service.Initialize(context.Background(), InitializeInput{
		Authority:       "admin",
		Treasury:        "treasury",
		PlatformReserve: "reserve",
		FeeBps:          300,
		CreatorFeeBps:   501,
	})
	if !errors.Is(err, domainerrors.ErrInvalidFeePercentage) {
		t.Fatalf("expected ErrInvalidFeePercentage, got %v", err)
	}
}

func TestInitializeIsSingleton(t *testing.T) {
	service := newService()
	first, err := service.Initialize(context.Background(), InitializeInput{
		Authority:       "admin",
		Treasury:        "treasury",
		PlatformReserve: "reserve",
		FeeBps:          300,
	})
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	_, err = service.Initialize(context.Background(), InitializeInput{
		Authority:       "other",
		Treasury:        "treasury-2",
		PlatformReserve: "reserve-2",
		FeeBps:          100,
	})
	if !errors.Is(err, domainerrors.ErrMarketplaceExists) {
		t.Fatalf("expected ErrMarketplaceExists, got %v", err)
	}

	stats, err := service.GetStats(context.Background())
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.Authority != first.Authority || stats.FeeBps != 300 {
		t.Fatalf("second initialize mutated the config: %+v", stats)
	}
}

func TestUpdateFeesRequiresAuthority(t *testing.T) {
	service := newService()
	if _, err := service.Initialize(context.Background(), InitializeInput{
		Authority:       "admin",
		Treasury:        "treasury",
		PlatformReserve: "reserve",
		FeeBps:          300,
	}); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	_, err := service.UpdateFees(context.Background(), UpdateFeesInput{
		Caller: "intruder",
		FeeBps: 100,
	})
	if !errors.Is(err, domainerrors.ErrUnauthorizedAuthority) {
		t.Fatalf("expected ErrUnauthorizedAuthority, got %v", err)
	}

	updated, err := service.UpdateFees(context.Background(), UpdateFeesInput{
		Caller:        "admin",
		FeeBps:        250,
		CreatorFeeBps: 100,
	})
	if err != nil {
		t.Fatalf("authorized update failed: %v", err)
	}
	if updated.FeeBps != 250 || updated.CreatorFeeBps != 100 {
		t.Fatalf("fees not applied: %+v", updated)
	}
}
