package core

import "math"

// Clamp limits v to [lo, hi]. Swapped bounds are reordered; NaN passes
// through unchanged.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	return max(lo, min(v, hi))
}

// DBToLinear converts a gain in dB to an amplitude factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts an amplitude factor to dB. Silence maps to -Inf and a
// negative factor to NaN.
func LinearToDB(amp float64) float64 {
	switch {
	case amp < 0:
		return math.NaN()
	case amp == 0:
		return math.Inf(-1)
	default:
		return 20 * math.Log10(amp)
	}
}
