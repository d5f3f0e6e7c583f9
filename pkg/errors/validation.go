package errors

import "math"

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(name string, values ...float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeGeometry, "%s[%d] is not finite (%v)", name, i, v)
		}
	}
	return nil
}

// ValidatePositive rejects values that are not strictly positive.
// NaN is rejected too since every comparison with it is false.
func ValidatePositive(name string, values ...float64) error {
	for i, v := range values {
		if !(v > 0) || math.IsInf(v, 0) {
			return New(ErrCodeGeometry, "%s[%d] must be positive, got %v", name, i, v)
		}
	}
	return nil
}

// ValidateIncreasing checks that values are strictly increasing.
func ValidateIncreasing(name string, values []float64) error {
	if err := ValidateFinite(name, values...); err != nil {
		return err
	}
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return New(ErrCodeGeometry, "%s must be strictly increasing: [%d]=%v, [%d]=%v",
				name, i-1, values[i-1], i, values[i])
		}
	}
	return nil
}

// ValidateLength checks that an array has exactly want entries.
func ValidateLength(name string, got, want int) error {
	if got != want {
		return New(ErrCodeGeometry, "%s has %d entries, want %d", name, got, want)
	}
	return nil
}
