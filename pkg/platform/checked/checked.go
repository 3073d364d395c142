// Package checked provides overflow-checked unsigned arithmetic for
// counters, supplies and payout math. Wrapping silently is never
// acceptable for ledger state, so every caller must handle the failure.
package checked

import (
	"math"

	"civitas/pkg/platform/sentinel"
)

// AddU64 returns a+b, or ErrOverflow if the sum wraps.
func AddU64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, sentinel.ErrOverflow
	}
	return a + b, nil
}

// MulU64 returns a*b, or ErrOverflow if the product wraps.
func MulU64(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint64/b {
		return 0, sentinel.ErrOverflow
	}
	return a * b, nil
}

// SubU64 returns a-b, or ErrOverflow if the difference underflows.
func SubU64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, sentinel.ErrOverflow
	}
	return a - b, nil
}
