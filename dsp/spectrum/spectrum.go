package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// split holds reusable buffers for unpacking complex bins into the planar
// real/imaginary layout the vector kernels operate on.
type split struct {
	re, im []float64
}

var splitPool = sync.Pool{
	New: func() any { return new(split) },
}

func (s *split) load(in []complex128) {
	n := len(in)
	if cap(s.re) < n {
		s.re = make([]float64, n)
		s.im = make([]float64, n)
	}
	s.re = s.re[:n]
	s.im = s.im[:n]

	for i, c := range in {
		s.re[i] = real(c)
		s.im[i] = imag(c)
	}
}

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// Unpacking scratch is pooled, so in steady state only the output slice is
// allocated.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	s := splitPool.Get().(*split)
	s.load(in)

	out := make([]float64, len(in))
	vecmath.Magnitude(out, s.re, s.im)

	splitPool.Put(s)
	return out
}

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
//
// This is the allocation-free path for callers that already keep planar
// real and imaginary slices. All three slices must share a length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}
