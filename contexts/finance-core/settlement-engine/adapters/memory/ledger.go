package memory

import (
	"context"
	"sync"

	domainerrors "bazaar/contexts/finance-core/settlement-engine/domain/errors"
	"bazaar/contexts/finance-core/settlement-engine/ports"
)

// Ledger is the in-process fungible ledger used by the developer bootstrap
// and tests until the external ledger service is wired. Accounts are created
// implicitly on first credit; debits require an existing balance.
type Ledger struct {
	mu       sync.Mutex
	balances map[string]uint64
}

func NewLedger(seed map[string]uint64) *Ledger {
	balances := make(map[string]uint64, len(seed))
	for account, balance := range seed {
		balances[account] = balance
	}
	return &Ledger{balances: balances}
}

func (l *Ledger) Transfer(_ context.Context, from string, to string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.apply(ports.Movement{From: from, To: to, Amount: amount})
}

// TransferBatch applies every movement or none. Movements are validated
// against a scratch view of the balances before any of them commit.
func (l *Ledger) TransferBatch(_ context.Context, movements []ports.Movement) error {
	if len(movements) == 0 {
		return domainerrors.ErrEmptyTransferBatch
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	scratch := make(map[string]uint64, len(l.balances))
	for account, balance := range l.balances {
		scratch[account] = balance
	}
	for _, movement := range movements {
		if scratch[movement.From] < movement.Amount {
			return domainerrors.ErrInsufficientFunds
		}
		scratch[movement.From] -= movement.Amount
		scratch[movement.To] += movement.Amount
	}
	l.balances = scratch
	return nil
}

// Credit mints balance onto an account. Test and bootstrap seeding only.
func (l *Ledger) Credit(account string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
}

// Balance reports an account's current balance.
func (l *Ledger) Balance(account string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account]
}

func (l *Ledger) apply(movement ports.Movement) error {
	if l.balances[movement.From] < movement.Amount {
		return domainerrors.ErrInsufficientFunds
	}
	l.balances[movement.From] -= movement.Amount
	l.balances[movement.To] += movement.Amount
	return nil
}
