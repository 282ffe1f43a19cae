package application

import (
	"context"
	"errors"
	"testing"

	"bazaar/contexts/finance-core/settlement-engine/adapters/memory"
	domainerrors "bazaar/contexts/finance-core/settlement-engine/domain/errors"
	"bazaar/contexts/finance-core/settlement-engine/ports"
)

type recordingLedger struct {
	inner     *memory.Ledger
	movements []ports.Movement
	failAt    int
}

func (r *recordingLedger) Transfer(ctx context.Context, from string, to string, amount uint64) error {
	if r.failAt > 0 && len(r.movements)+1 == r.failAt {
		return domainerrors.ErrInsufficientFunds
	}
	if err := r.inner.Transfer(ctx, from, to, amount); err != nil {
		return err
	}
	r.movements = append(r.movements, ports.Movement{From: from, To: to, Amount: amount})
	return nil
}

func (r *recordingLedger) TransferBatch(ctx context.Context, movements []ports.Movement) error {
	return r.inner.TransferBatch(ctx, movements)
}

func TestExecuteSaleMovesFundsInOrder(t *testing.T) {
	ledger := &recordingLedger{inner: memory.NewLedger(map[string]uint64{
		"buyer":   10_000,
		"reserve": 1_000,
	})}
	service := Service{Ledger: ledger}

	result, err := service.ExecuteSale(context.Background(), ports.Sale{
		Source:          "buyer",
		Seller:          "seller",
		Creator:         "royalty",
		Treasury:        "treasury",
		PlatformReserve: "reserve",
		Price:           10_000,
		FeeBps:          300,
		CreatorFeeBps:   500,
		RewardBps:       200,
	})
	if err != nil {
		t.Fatalf("settlement failed: %v", err)
	}

	want := []ports.Movement{
		{From: "buyer", To: "seller", Amount: 9_200},
		{From: "buyer", To: "royalty", Amount: 500},
		{From: "buyer", To: "treasury", Amount: 300},
		{From: "reserve", To: "seller", Amount: 200},
	}
	if len(ledger.movements) != len(want) {
		t.Fatalf("expected %d movements, got %d", len(want), len(ledger.movements))
	}
	for i, movement := range want {
		if ledger.movements[i] != movement {
			t.Fatalf("movement %d: expected %+v, got %+v", i, movement, ledger.movements[i])
		}
	}
	if result.Reward != 200 {
		t.Fatalf("expected reward 200, got %d", result.Reward)
	}
	// The reward is reserve-funded: the buyer is debited exactly the price.
	if got := ledger.inner.Balance("buyer"); got != 0 {
		t.Fatalf("expected buyer debited exactly the price, balance %d", got)
	}
	if got := ledger.inner.Balance("seller"); got != 9_400 {
		t.Fatalf("expected seller balance 9400, got %d", got)
	}
}

func TestExecuteSaleSkipsCreatorFeeWhenSellerIsCreator(t *testing.T) {
	ledger := &recordingLedger{inner: memory.NewLedger(map[string]uint64{"buyer": 1_000})}
	service := Service{Ledger: ledger}

	result, err := service.ExecuteSale(context.Background(), ports.Sale{
		Source:        "buyer",
		Seller:        "creator",
		Creator:       "creator",
		Treasury:      "treasury",
		Price:         1_000,
		FeeBps:        300,
		CreatorFeeBps: 500,
	})
	if err != nil {
		t.Fatalf("settlement failed: %v", err)
	}
	if result.Breakdown.CreatorFee != 0 {
		t.Fatalf("expected creator fee suppressed, got %d", result.Breakdown.CreatorFee)
	}
	if result.Breakdown.SellerAmount != 970 {
		t.Fatalf("expected seller amount 970, got %d", result.Breakdown.SellerAmount)
	}
}

func TestExecuteSaleAbortsWhenTransferFails(t *testing.T) {
	ledger := &recordingLedger{
		inner:  memory.NewLedger(map[string]uint64{"buyer": 10_000}),
		failAt: 2,
	}
	service := Service{Ledger: ledger}

	_, err := service.ExecuteSale(context.Background(), ports.Sale{
		Source:        "buyer",
		Seller:        "seller",
		Creator:       "royalty",
		Treasury:      "treasury",
		Price:         10_000,
		FeeBps:        300,
		CreatorFeeBps: 500,
	})
	if !errors.Is(err, domainerrors.ErrInsufficientFunds) {
		t.Fatalf("expected transfer failure to propagate, got %v", err)
	}
	if len(ledger.movements) != 1 {
		t.Fatalf("expected settlement to stop after the failing transfer, got %d movements", len(ledger.movements))
	}
}

func TestExecuteSaleRejectsInvalidInput(t *testing.T) {
	service := Service{Ledger: memory.NewLedger(nil)}
	_, err := service.ExecuteSale(context.Background(), ports.Sale{
		Source:   "buyer",
		Seller:   "seller",
		Treasury: "treasury",
		Price:    0,
	})
	if !errors.Is(err, domainerrors.ErrInvalidSettlement) {
		t.Fatalf("expected ErrInvalidSettlement, got %v", err)
	}
}

func TestLedgerTransferBatchIsAllOrNothing(t *testing.T) {
	ledger := memory.NewLedger(map[string]uint64{"escrow": 100, "bidder": 50})

	err := ledger.TransferBatch(context.Background(), []ports.Movement{
		{From: "escrow", To: "previous", Amount: 100},
		{From: "bidder", To: "escrow", Amount: 110},
	})
	if !errors.Is(err, domainerrors.ErrInsufficientFunds) {
		t.Fatalf("expected batch rejection, got %v", err)
	}
	if ledger.Balance("escrow") != 100 || ledger.Balance("previous") != 0 {
		t.Fatalf("batch partially applied: escrow=%d previous=%d", ledger.Balance("escrow"), ledger.Balance("previous"))
	}

	ledger.Credit("bidder", 60)
	if err := ledger.TransferBatch(context.Background(), []ports.Movement{
		{From: "escrow", To: "previous", Amount: 100},
		{From: "bidder", To: "escrow", Amount: 110},
	}); err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if ledger.Balance("escrow") != 110 || ledger.Balance("previous") != 100 {
		t.Fatalf("batch applied incorrectly: escrow=%d previous=%d", ledger.Balance("escrow"), ledger.Balance("previous"))
	}
}
