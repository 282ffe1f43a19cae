package application

import (
	"context"
	"errors"
	"testing"

	"bazaar/contexts/finance-core/revenue-share-pool/adapters/memory"
	domainerrors "bazaar/contexts/finance-core/revenue-share-pool/domain/errors"
	settlementmemory "bazaar/contexts/finance-core/settlement-engine/adapters/memory"
)

func newTestService(balances map[string]uint64) (Service, *memory.Store, *settlementmemory.Ledger) {
	store := memory.NewStore()
	ledger := settlementmemory.NewLedger(balances)
	service := Service{
		Repo:   store,
		Ledger: ledger,
		Clock:  store,
		IDGen:  store,
	}
	return service, store, ledger
}

func initPool(t *testing.T, service Service, creatorBps, platformBps uint16) {
	t.Helper()
	_, err := service.InitializePool(context.Background(), InitializePoolInput{
		Authority:        "authority",
		CreatorAccount:   "creators",
		PlatformAccount:  "platform",
		CreatorShareBps:  creatorBps,
		PlatformShareBps: platformBps,
	})
	if err != nil {
		t.Fatalf("pool init failed: %v", err)
	}
}

func TestInitializePoolValidatesShares(t *testing.T) {
	service, _, _ := newTestService(nil)

	for _, shares := range [][2]uint16{{6000, 3999}, {6000, 4001}, {0, 0}} {
		_, err := service.InitializePool(context.Background(), InitializePoolInput{
			Authority:        "authority",
			CreatorAccount:   "creators",
			PlatformAccount:  "platform",
			CreatorShareBps:  shares[0],
			PlatformShareBps: shares[1],
		})
		if !errors.Is(err, domainerrors.ErrInvalidShares) {
			t.Fatalf("shares %v: expected ErrInvalidShares, got %v", shares, err)
		}
	}
}

func TestInitializePoolIsSingleton(t *testing.T) {
	service, _, _ := newTestService(nil)
	initPool(t, service, 6000, 4000)

	_, err := service.InitializePool(context.Background(), InitializePoolInput{
		Authority:        "other",
		CreatorAccount:   "creators-2",
		PlatformAccount:  "platform-2",
		CreatorShareBps:  5000,
		PlatformShareBps: 5000,
	})
	if !errors.Is(err, domainerrors.ErrPoolExists) {
		t.Fatalf("expected ErrPoolExists, got %v", err)
	}

	pool, err := service.GetPool(context.Background())
	if err != nil {
		t.Fatalf("get pool failed: %v", err)
	}
	if pool.Authority != "authority" || pool.CreatorShareBps != 6000 {
		t.Fatalf("first pool mutated: %+v", pool)
	}
}

func TestDistributeRevenueSplitsExactly(t *testing.T) {
	service, _, ledger := newTestService(map[string]uint64{"revenue": 1_000})
	initPool(t, service, 6000, 4000)

	// 7 * 60% floors to 4; the platform takes the remaining 3 so the split
	// always sums back to the amount.
	result, err := service.DistributeRevenue(context.Background(), DistributeRevenueInput{
		Caller: "authority",
		Source: "revenue",
		Amount: 7,
	})
	if err != nil {
		t.Fatalf("distribution failed: %v", err)
	}
	if result.CreatorAmount != 4 || result.PlatformAmount != 3 {
		t.Fatalf("expected 4/3 split, got %d/%d", result.CreatorAmount, result.PlatformAmount)
	}
	if result.TotalDistributed != 7 {
		t.Fatalf("expected total 7, got %d", result.TotalDistributed)
	}
	if got := ledger.Balance("creators"); got != 4 {
		t.Fatalf("creators balance = %d, want 4", got)
	}
	if got := ledger.Balance("platform"); got != 3 {
		t.Fatalf("platform balance = %d, want 3", got)
	}
	if got := ledger.Balance("revenue"); got != 993 {
		t.Fatalf("revenue balance = %d, want 993", got)
	}

	result, err = service.DistributeRevenue(context.Background(), DistributeRevenueInput{
		Caller: "authority",
		Source: "revenue",
		Amount: 100,
	})
	if err != nil {
		t.Fatalf("second distribution failed: %v", err)
	}
	if result.TotalDistributed != 107 {
		t.Fatalf("expected running total 107, got %d", result.TotalDistributed)
	}
}

func TestDistributeRevenueAuthorityOnly(t *testing.T) {
	service, _, ledger := newTestService(map[string]uint64{"revenue": 1_000})
	initPool(t, service, 6000, 4000)

	_, err := service.DistributeRevenue(context.Background(), DistributeRevenueInput{
		Caller: "mallory",
		Source: "revenue",
		Amount: 100,
	})
	if !errors.Is(err, domainerrors.ErrUnauthorizedAuthority) {
		t.Fatalf("expected ErrUnauthorizedAuthority, got %v", err)
	}
	if got := ledger.Balance("revenue"); got != 1_000 {
		t.Fatalf("rejected distribution moved funds: %d", got)
	}
}

func TestDistributeRevenueValidation(t *testing.T) {
	service, _, _ := newTestService(nil)
	initPool(t, service, 6000, 4000)

	_, err := service.DistributeRevenue(context.Background(), DistributeRevenueInput{
		Caller: "authority",
		Source: "revenue",
		Amount: 0,
	})
	if !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	_, err = service.DistributeRevenue(context.Background(), DistributeRevenueInput{
		Caller: "authority",
		Source: "  ",
		Amount: 10,
	})
	if !errors.Is(err, domainerrors.ErrInvalidPoolInput) {
		t.Fatalf("expected ErrInvalidPoolInput, got %v", err)
	}
}

func TestDistributeRevenueInsufficientFundsLeavesPoolUntouched(t *testing.T) {
	service, store, ledger := newTestService(map[string]uint64{"revenue": 5})
	initPool(t, service, 6000, 4000)

	_, err := service.DistributeRevenue(context.Background(), DistributeRevenueInput{
		Caller: "authority",
		Source: "revenue",
		Amount: 100,
	})
	if err == nil {
		t.Fatal("expected ledger failure")
	}
	if got := ledger.Balance("revenue"); got != 5 {
		t.Fatalf("failed distribution moved funds: %d", got)
	}
	pool, err := store.GetPool(context.Background())
	if err != nil {
		t.Fatalf("get pool failed: %v", err)
	}
	if pool.TotalDistributed != 0 {
		t.Fatalf("failed distribution counted: %d", pool.TotalDistributed)
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("outbox list failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("failed distribution enqueued an event: %d", len(pending))
	}
}

func TestDistributeRevenueEnqueuesOutboxEvent(t *testing.T) {
	service, store, _ := newTestService(map[string]uint64{"revenue": 1_000})
	initPool(t, service, 6000, 4000)

	_, err := service.DistributeRevenue(context.Background(), DistributeRevenueInput{
		Caller: "authority",
		Source: "revenue",
		Amount: 100,
	})
	if err != nil {
		t.Fatalf("distribution failed: %v", err)
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("outbox list failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one pending event, got %d", len(pending))
	}
	if pending[0].EventType != "revenue.distributed" {
		t.Fatalf("unexpected event type %q", pending[0].EventType)
	}
}
