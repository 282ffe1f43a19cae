package services

import (
	"math/bits"

	domainerrors "bazaar/contexts/finance-core/settlement-engine/domain/errors"
)

// BpsDenominator is the basis-point scale: 10000 basis points = 100%.
const BpsDenominator = 10000

// Breakdown is the exact decomposition of a sale price.
// SellerAmount + PlatformFee + CreatorFee == total price, always.
type Breakdown struct {
	SellerAmount uint64
	PlatformFee  uint64
	CreatorFee   uint64
}

// SplitPrice computes the platform and creator fees for a sale, rounding each
// fee down and assigning the remainder to the seller. The seller amount is
// computed by subtraction so the three parts conserve the total exactly.
func SplitPrice(total uint64, feeBps uint16, creatorFeeBps uint16) (Breakdown, error) {
	if uint32(feeBps)+uint32(creatorFeeBps) > BpsDenominator {
		return Breakdown{}, domainerrors.ErrInvalidFeeSplit
	}

	platformFee, err := MulBps(total, feeBps)
	if err != nil {
		return Breakdown{}, err
	}
	creatorFee, err := MulBps(total, creatorFeeBps)
	if err != nil {
		return Breakdown{}, err
	}

	// Fees are bounded by total because feeBps+creatorFeeBps <= 10000; a
	// failing subtraction here is a broken invariant, not a caller error.
	remainder, err := CheckedSub(total, platformFee)
	if err != nil {
		return Breakdown{}, err
	}
	sellerAmount, err := CheckedSub(remainder, creatorFee)
	if err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		SellerAmount: sellerAmount,
		PlatformFee:  platformFee,
		CreatorFee:   creatorFee,
	}, nil
}

// MulBps computes floor(amount * bps / 10000) without intermediate overflow.
func MulBps(amount uint64, bps uint16) (uint64, error) {
	if bps > BpsDenominator {
		return 0, domainerrors.ErrInvalidFeeSplit
	}
	hi, lo := bits.Mul64(amount, uint64(bps))
	// The quotient fits in 64 bits whenever hi < divisor, which holds for
	// every bps <= 10000.
	if hi >= BpsDenominator {
		return 0, domainerrors.ErrArithmetic
	}
	quotient, _ := bits.Div64(hi, lo, BpsDenominator)
	return quotient, nil
}

// CheckedAdd returns a+b or ErrArithmetic on overflow.
func CheckedAdd(a uint64, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, domainerrors.ErrArithmetic
	}
	return sum, nil
}

// CheckedSub returns a-b or ErrArithmetic on underflow.
func CheckedSub(a uint64, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, domainerrors.ErrArithmetic
	}
	return diff, nil
}
