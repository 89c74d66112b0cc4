package shared

import "math"

// Epsilon is the smallest quantity still considered non-zero. Residues below it
// left behind by float subtraction are snapped to zero.
const Epsilon = 1e-9

// SanitizeQuantity repairs a stored quantity that cannot be trusted.
// NaN, infinities and negative values become 0. The second return value
// reports whether a repair happened.
func SanitizeQuantity(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, true
	}
	return v, false
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MinQuantity returns the smallest of the given quantities (0 for no arguments)
func MinQuantity(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	result := values[0]
	for _, v := range values[1:] {
		if v < result {
			result = v
		}
	}
	return result
}
