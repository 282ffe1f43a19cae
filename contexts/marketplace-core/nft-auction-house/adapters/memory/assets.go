package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrAssetNotHeld surfaces when a transfer names an account that does not
// hold the asset.
var ErrAssetNotHeld = errors.New("account does not hold the asset")

// AssetLedger tracks single-unit asset ownership by mint. Seeding an owner
// stands in for the external chain custody the production adapter wraps.
type AssetLedger struct {
	mu     sync.Mutex
	owners map[string]string
}

func NewAssetLedger(owners map[string]string) *AssetLedger {
	seeded := make(map[string]string, len(owners))
	for mint, owner := range owners {
		seeded[mint] = owner
	}
	return &AssetLedger{owners: seeded}
}

func (l *AssetLedger) TransferAsset(_ context.Context, mint string, from string, to string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	owner, ok := l.owners[mint]
	if !ok || owner != from {
		return fmt.Errorf("mint %s: %w", mint, ErrAssetNotHeld)
	}
	l.owners[mint] = to
	return nil
}

// Owner reports the current holder of a mint. Test helper.
func (l *AssetLedger) Owner(mint string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owners[mint]
}
