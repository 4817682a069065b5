package core

import "math"

// defaultEpsilon is the comparison tolerance used when callers pass a
// non-positive eps to NearlyEqual.
const defaultEpsilon = 1e-12

// denormalFloor bounds the region flushed to zero by FlushDenormals. It
// sits far above the float64 subnormal threshold yet well below any
// audible level.
const denormalFloor = 1e-30

// Clamp limits v to the inclusive range [lo, hi]. Swapped bounds are
// reordered rather than rejected.
func Clamp(v, lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}

	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

// NearlyEqual reports whether a and b agree within eps, absolutely for
// small magnitudes and relatively for large ones. Non-positive eps selects
// defaultEpsilon.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	d := math.Abs(a - b)
	if d <= eps {
		return true
	}

	scale := math.Max(math.Abs(a), math.Abs(b))

	return scale > 0 && d <= eps*scale
}

// FlushDenormals rounds values inside (-denormalFloor, denormalFloor) to
// exactly zero. Feedback write paths call it every sample so decaying
// tails terminate instead of stalling the FPU in denormal range.
func FlushDenormals(x float64) float64 {
	if math.Abs(x) < denormalFloor {
		return 0
	}

	return x
}

// DBToLinear converts decibels to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to decibels (20*log10 convention).
// Zero maps to -Inf; negative input has no dB value and yields NaN.
func LinearToDB(linear float64) float64 {
	switch {
	case linear < 0:
		return math.NaN()
	case linear == 0:
		return math.Inf(-1)
	default:
		return 20 * math.Log10(linear)
	}
}
