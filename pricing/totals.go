package pricing

import (
	"errors"
	"math"
)

var (
	ErrPercentOutOfBounds = errors.New("discount percent must be between 1 and 100 (0 resets)")
	ErrFlatOutOfBounds    = errors.New("flat discount must be positive with at most 2 decimals (0 resets)")
)

// Totals recomputes an order's prices from its lines and discounts. Both
// discount kinds apply against the original pre-discount price, additively,
// and the result is clamped at zero. Full float precision is kept here;
// Round2 is applied only when persisting or displaying.
func Totals(lines []OrderLine, discountPercent int, discountAmount float64) (original, total float64) {
	for _, line := range lines {
		original += line.UnitPrice * float64(line.Quantity)
	}
	total = original - original*float64(discountPercent)/100 - discountAmount
	if total < 0 {
		total = 0
	}
	return original, total
}

// Saved is the amount a discount removed, never negative
func Saved(original, total float64) float64 {
	if s := original - total; s > 0 {
		return s
	}
	return 0
}

// ValidatePercent accepts 1–100 as a discount and 0 as the reset state.
// The asymmetry (0 clears, it is not a settable value) is intentional.
func ValidatePercent(pct int) error {
	if pct < 0 || pct > 100 {
		return ErrPercentOutOfBounds
	}
	return nil
}

// ValidateFlat accepts a positive amount with at most two decimal places,
// or 0 as the reset state.
func ValidateFlat(amount float64) error {
	if amount < 0 {
		return ErrFlatOutOfBounds
	}
	cents := amount * 100
	if math.Abs(cents-math.Round(cents)) > 1e-9 {
		return ErrFlatOutOfBounds
	}
	return nil
}

// Round2 rounds to 2 decimal places for persistence and display
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
