package common

import "cmp"

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits v to the closed range [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// Ratio returns num/den as a float64 clamped to [0, 1]. A non-positive den yields 0.
//
// Parameters:
//   - num: the numerator, e.g. a cursor coordinate in pixels
//   - den: the denominator, e.g. the framebuffer extent in pixels
//
// Returns:
//   - float64: the clamped ratio
func Ratio(num float64, den int) float64 {
	if den <= 0 {
		return 0
	}
	return Clamp(num/float64(den), 0, 1)
}
