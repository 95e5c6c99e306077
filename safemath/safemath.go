// Package safemath provides overflow-checked arithmetic on uint64 amounts and
// basis-point proportioning. Every ledger mutation goes through these helpers;
// a failed check returns ErrOverflow or ErrUnderflow and never a wrapped value.
package safemath

import (
	"fmt"
	"math/bits"
)

// TotalBasisPoints is 100% expressed in basis points.
const TotalBasisPoints = 10_000

// Add returns a+b or ErrOverflow.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return sum, nil
}

// Sub returns a-b or ErrUnderflow when b > a.
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, fmt.Errorf("%w: %d - %d", ErrUnderflow, a, b)
	}
	return diff, nil
}

// Mul returns a*b or ErrOverflow.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, a, b)
	}
	return lo, nil
}

// Sum adds all values, failing on the first overflow.
func Sum(values ...uint64) (uint64, error) {
	var total uint64
	for _, v := range values {
		next, err := Add(total, v)
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}

// ApplyBps returns floor(amount * bps / TotalBasisPoints).
//
// The multiplication is checked in 64 bits, matching the ledger's numeric
// range: an amount whose product with bps does not fit in a uint64 is an
// overflow even though the final quotient might.
func ApplyBps(amount uint64, bps uint16) (uint64, error) {
	product, err := Mul(amount, uint64(bps))
	if err != nil {
		return 0, err
	}
	return product / TotalBasisPoints, nil
}
