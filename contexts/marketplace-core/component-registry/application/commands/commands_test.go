package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	settlementengine "bazaar/contexts/finance-core/settlement-engine"
	settlementmemory "bazaar/contexts/finance-core/settlement-engine/adapters/memory"
	"bazaar/contexts/marketplace-core/component-registry/adapters/memory"
	domainerrors "bazaar/contexts/marketplace-core/component-registry/domain/errors"
	"bazaar/contexts/marketplace-core/component-registry/ports"
)

var testConfig = ports.MarketplaceView{
	Treasury:        "treasury",
	PlatformReserve: "reserve",
	FeeBps:          300,
	CreatorFeeBps:   500,
	RewardBps:       200,
}

func newTestCatalog(balances map[string]uint64) (CatalogUseCase, *memory.Store, *settlementmemory.Ledger) {
	store := memory.NewStore(testConfig)
	settlement := settlementengine.NewInMemoryModule(balances, nil)
	catalog := CatalogUseCase{
		Components: store,
		Config:     store,
		Settlement: settlement.Executor,
		Clock:      store,
		IDGen:      store,
	}
	return catalog, store, settlement.Ledger
}

func TestListComponentDuplicateIDLeavesFirstUntouched(t *testing.T) {
	catalog, store, _ := newTestCatalog(nil)

	first, err := catalog.ListComponent(context.Background(), ListComponentCommand{
		ComponentID: "comp-1",
		Creator:     "alice",
		Price:       1_000,
		MetadataURI: "ipfs://one",
	})
	if err != nil {
		t.Fatalf("first listing failed: %v", err)
	}
	_, err = catalog.ListComponent(context.Background(), ListComponentCommand{
		ComponentID: "comp-1",
		Creator:     "mallory",
		Price:       9_999,
		MetadataURI: "ipfs://two",
	})
	if !errors.Is(err, domainerrors.ErrComponentExists) {
		t.Fatalf("expected ErrComponentExists, got %v", err)
	}

	stored, err := store.GetComponent(context.Background(), "comp-1")
	if err != nil {
		t.Fatalf("get component failed: %v", err)
	}
	if stored.Creator != first.Creator || stored.Price != first.Price {
		t.Fatalf("first listing mutated: %+v", stored)
	}
	listings, _, _ := store.Counters()
	if listings != 1 {
		t.Fatalf("expected one counted listing, got %d", listings)
	}
}

func TestListComponentValidation(t *testing.T) {
	catalog, _, _ := newTestCatalog(nil)

	_, err := catalog.ListComponent(context.Background(), ListComponentCommand{
		ComponentID: "comp-free",
		Creator:     "alice",
		Price:       0,
	})
	if !errors.Is(err, domainerrors.ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}

	_, err = catalog.ListComponent(context.Background(), ListComponentCommand{
		ComponentID: strings.Repeat("x", 33),
		Creator:     "alice",
		Price:       10,
	})
	if !errors.Is(err, domainerrors.ErrComponentIDTooLong) {
		t.Fatalf("expected ErrComponentIDTooLong, got %v", err)
	}
}

func TestDelistComponentAuthorizationAndNoop(t *testing.T) {
	catalog, store, _ := newTestCatalog(nil)
	if _, err := catalog.ListComponent(context.Background(), ListComponentCommand{
		ComponentID: "comp-1",
		Creator:     "alice",
		Price:       500,
	}); err != nil {
		t.Fatalf("listing failed: %v", err)
	}

	err := catalog.DelistComponent(context.Background(), DelistComponentCommand{ComponentID: "comp-1", Caller: "mallory"})
	if !errors.Is(err, domainerrors.ErrUnauthorizedCreator) {
		t.Fatalf("expected ErrUnauthorizedCreator, got %v", err)
	}

	if err := catalog.DelistComponent(context.Background(), DelistComponentCommand{ComponentID: "comp-1", Caller: "alice"}); err != nil {
		t.Fatalf("delist failed: %v", err)
	}
	if err := catalog.DelistComponent(context.Background(), DelistComponentCommand{ComponentID: "comp-1", Caller: "alice"}); err != nil {
		t.Fatalf("repeated delist should be a no-op, got %v", err)
	}

	stored, err := store.GetComponent(context.Background(), "comp-1")
	if err != nil {
		t.Fatalf("get component failed: %v", err)
	}
	if stored.IsActive {
		t.Fatal("component should be inactive")
	}
}

func TestPurchaseComponentSettlesAndRecordsReceipt(t *testing.T) {
	catalog, store, ledger := newTestCatalog(map[string]uint64{
		"bob":     20_000,
		"reserve": 1_000,
	})
	if _, err := catalog.ListComponent(context.Background(), ListComponentCommand{
		ComponentID: "comp-1",
		Creator:     "alice",
		Price:       10_000,
	}); err != nil {
		t.Fatalf("listing failed: %v", err)
	}

	purchase, err := catalog.PurchaseComponent(context.Background(), PurchaseComponentCommand{
		ComponentID: "comp-1",
		Buyer:       "bob",
	})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}

	// 300 bps platform fee and 200 bps reserve-funded reward on 10_000. The
	// creator sells to herself as royalty recipient, so no separate cut.
	if purchase.Reward != 200 {
		t.Fatalf("expected reward 200, got %d", purchase.Reward)
	}
	checks := map[string]uint64{
		"bob":      10_000,
		"alice":    9_700 + 200,
		"treasury": 300,
		"reserve":  800,
	}
	for account, want := range checks {
		if got := ledger.Balance(account); got != want {
			t.Fatalf("account %s: expected %d, got %d", account, want, got)
		}
	}

	stored, err := store.GetComponent(context.Background(), "comp-1")
	if err != nil {
		t.Fatalf("get component failed: %v", err)
	}
	if stored.TotalSales != 1 || stored.TotalRewardsEarned != 200 {
		t.Fatalf("component counters not bumped: %+v", stored)
	}
	_, sales, volume := store.Counters()
	if sales != 1 || volume != 10_000 {
		t.Fatalf("marketplace counters not bumped: sales=%d volume=%d", sales, volume)
	}

	receipts, err := store.ListPurchasesByBuyer(context.Background(), "bob")
	if err != nil {
		t.Fatalf("list purchases failed: %v", err)
	}
	if len(receipts) != 1 || receipts[0].PurchaseID != purchase.PurchaseID {
		t.Fatalf("expected one receipt for bob, got %+v", receipts)
	}
}

func TestPurchaseComponentRejectsRepeatBuyerBeforeFundsMove(t *testing.T) {
	catalog, _, ledger := newTestCatalog(map[string]uint64{
		"bob":     50_000,
		"reserve": 1_000,
	})
	if _, err := catalog.ListComponent(context.Background(), ListComponentCommand{
		ComponentID: "comp-1",
		Creator:     "alice",
		Price:       10_000,
	}); err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if _, err := catalog.PurchaseComponent(context.Background(), PurchaseComponentCommand{ComponentID: "comp-1", Buyer: "bob"}); err != nil {
		t.Fatalf("first purchase failed: %v", err)
	}
	buyerAfterFirst := ledger.Balance("bob")

	_, err := catalog.PurchaseComponent(context.Background(), PurchaseComponentCommand{ComponentID: "comp-1", Buyer: "bob"})
	if !errors.Is(err, domainerrors.ErrAlreadyPurchased) {
		t.Fatalf("expected ErrAlreadyPurchased, got %v", err)
	}
	if ledger.Balance("bob") != buyerAfterFirst {
		t.Fatal("repeat purchase must not move funds")
	}
}

func TestPurchaseComponentInactiveComponent(t *testing.T) {
	catalog, _, _ := newTestCatalog(map[string]uint64{"bob": 10_000})
	if _, err := catalog.ListComponent(context.Background(), ListComponentCommand{
		ComponentID: "comp-1",
		Creator:     "alice",
		Price:       1_000,
	}); err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if err := catalog.DelistComponent(context.Background(), DelistComponentCommand{ComponentID: "comp-1", Caller: "alice"}); err != nil {
		t.Fatalf("delist failed: %v", err)
	}

	_, err := catalog.PurchaseComponent(context.Background(), PurchaseComponentCommand{ComponentID: "comp-1", Buyer: "bob"})
	if !errors.Is(err, domainerrors.ErrComponentNotActive) {
		t.Fatalf("expected ErrComponentNotActive, got %v", err)
	}
}

func TestPurchaseComponentInsufficientFundsLeavesNoReceipt(t *testing.T) {
	catalog, store, _ := newTestCatalog(map[string]uint64{
		"bob":     500,
		"reserve": 1_000,
	})
	if _, err := catalog.ListComponent(context.Background(), ListComponentCommand{
		ComponentID: "comp-1",
		Creator:     "alice",
		Price:       10_000,
	}); err != nil {
		t.Fatalf("listing failed: %v", err)
	}

	_, err := catalog.PurchaseComponent(context.Background(), PurchaseComponentCommand{ComponentID: "comp-1", Buyer: "bob"})
	if err == nil {
		t.Fatal("expected settlement failure")
	}
	receipts, listErr := store.ListPurchasesByBuyer(context.Background(), "bob")
	if listErr != nil {
		t.Fatalf("list purchases failed: %v", listErr)
	}
	if len(receipts) != 0 {
		t.Fatalf("no receipt expected after failed settlement, got %+v", receipts)
	}

	stored, getErr := store.GetComponent(context.Background(), "comp-1")
	if getErr != nil {
		t.Fatalf("get component failed: %v", getErr)
	}
	if stored.TotalSales != 0 {
		t.Fatalf("sale counter must stay zero, got %d", stored.TotalSales)
	}
}
