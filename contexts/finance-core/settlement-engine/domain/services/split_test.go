package services

import (
	"errors"
	"math"
	"testing"

	domainerrors "bazaar/contexts/finance-core/settlement-engine/domain/errors"
)

func TestSplitPriceThreePercentPlatformFee(t *testing.T) {
	breakdown, err := SplitPrice(10_000, 300, 0)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if breakdown.PlatformFee != 300 {
		t.Fatalf("expected platform fee 300, got %d", breakdown.PlatformFee)
	}
	if breakdown.SellerAmount != 9_700 {
		t.Fatalf("expected seller amount 9700, got %d", breakdown.SellerAmount)
	}
	if breakdown.CreatorFee != 0 {
		t.Fatalf("expected no creator fee, got %d", breakdown.CreatorFee)
	}
}

func TestSplitPriceConservesTotalExactly(t *testing.T) {
	prices := []uint64{1, 3, 7, 99, 10_000, 1<<40 + 17, math.MaxUint64}
	splits := [][2]uint16{{0, 0}, {1, 0}, {300, 0}, {250, 500}, {9_500, 500}, {10_000, 0}}

	for _, price := range prices {
		for _, split := range splits {
			breakdown, err := SplitPrice(price, split[0], split[1])
			if err != nil {
				t.Fatalf("split %d @ %d/%d failed: %v", price, split[0], split[1], err)
			}
			sum := breakdown.SellerAmount + breakdown.PlatformFee + breakdown.CreatorFee
			if sum != price {
				t.Fatalf("split %d @ %d/%d leaked value: parts sum to %d", price, split[0], split[1], sum)
			}
		}
	}
}

func TestSplitPriceRejectsOversizedSplit(t *testing.T) {
	if _, err := SplitPrice(100, 9_600, 500); !errors.Is(err, domainerrors.ErrInvalidFeeSplit) {
		t.Fatalf("expected ErrInvalidFeeSplit, got %v", err)
	}
}

func TestMulBpsFloorsWithoutOverflow(t *testing.T) {
	got, err := MulBps(7, 6_000)
	if err != nil {
		t.Fatalf("mul failed: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected floor(7*6000/10000)=4, got %d", got)
	}

	got, err = MulBps(math.MaxUint64, 10_000)
	if err != nil {
		t.Fatalf("full-rate mul failed: %v", err)
	}
	if got != math.MaxUint64 {
		t.Fatalf("expected identity at 10000 bps, got %d", got)
	}
}

func TestCheckedAddOverflow(t *testing.T) {
	if _, err := CheckedAdd(math.MaxUint64, 1); !errors.Is(err, domainerrors.ErrArithmetic) {
		t.Fatalf("expected ErrArithmetic, got %v", err)
	}
}

func TestCheckedSubUnderflow(t *testing.T) {
	if _, err := CheckedSub(1, 2); !errors.Is(err, domainerrors.ErrArithmetic) {
		t.Fatalf("expected ErrArithmetic, got %v", err)
	}
}
