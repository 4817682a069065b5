// Package window generates and applies tapering windows for spectral
// analysis frames.
package window

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// ErrMismatchedLength is returned when samples and coefficients differ
// in length.
var ErrMismatchedLength = errors.New("samples and coefficients must have same length")

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

// cosineTerms holds the a_k of w(x) = sum a_k*cos(2*pi*k*x) for x in [0, 1].
// Rectangular is the constant term alone.
var cosineTerms = [...][]float64{
	TypeRectangular: {1},
	TypeHann:        {0.5, -0.5},
	TypeHamming:     {0.54, -0.46},
	TypeBlackman:    {0.42, -0.5, 0.08},
}

// terms returns the coefficient set for t. Unknown types fall back to
// rectangular.
func terms(t Type) []float64 {
	if t < 0 || int(t) >= len(cosineTerms) {
		return cosineTerms[TypeRectangular]
	}
	return cosineTerms[t]
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic form used for FFT framing, where frame
// k+1 continues frame k without a seam, instead of the symmetric form.
func WithPeriodic() Option {
	return func(cfg *config) {
		cfg.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	out := make([]float64, length)
	fill(out, terms(t), cfg.periodic)

	return out
}

// Apply multiplies buf in-place by the selected window. Empty buffers are
// left alone.
func Apply(t Type, buf []float64, opts ...Option) {
	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// ApplyCoefficients multiplies samples with precomputed coefficients and
// returns a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, ErrMismatchedLength
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

// ApplyCoefficientsInPlace multiplies samples with precomputed coefficients
// in place. Reusing coefficients across frames avoids regenerating the
// window in per-frame loops.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return ErrMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// fill evaluates the cosine series at evenly spaced positions. The
// symmetric form spans [0, 1] inclusive; the periodic form stops one
// step short of 1 so the next frame picks up where this one ends.
func fill(out []float64, a []float64, periodic bool) {
	n := len(out)
	if n == 1 {
		out[0] = eval(a, 0.5)
		return
	}

	den := float64(n)
	if !periodic {
		den = float64(n - 1)
	}

	for i := range out {
		out[i] = eval(a, float64(i)/den)
	}
}

func eval(a []float64, x float64) float64 {
	acc := 0.0
	for k, c := range a {
		acc += c * math.Cos(2*math.Pi*float64(k)*x)
	}

	return acc
}
