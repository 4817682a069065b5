package spectrum

import (
	"strconv"
	"testing"
)

func benchBins(n int) []complex128 {
	bins := make([]complex128, n)
	for i := range bins {
		bins[i] = complex(float64(i%31)*0.25, float64(i%17)*-0.5)
	}
	return bins
}

func BenchmarkMagnitude(b *testing.B) {
	for _, n := range []int{257, 2049, 8193} {
		bins := benchBins(n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(n * 16))

			for range b.N {
				_ = Magnitude(bins)
			}
		})
	}
}

// BenchmarkMagnitudeFromParts covers the planar path used in per-frame
// detector loops, which should not allocate at all.
func BenchmarkMagnitudeFromParts(b *testing.B) {
	const n = 2049
	re := make([]float64, n)
	im := make([]float64, n)
	dst := make([]float64, n)
	for i := range re {
		re[i] = float64(i) * 0.001
		im[i] = float64(n-i) * 0.001
	}

	b.ReportAllocs()
	b.SetBytes(n * 16)

	for range b.N {
		MagnitudeFromParts(dst, re, im)
	}
}

func BenchmarkGoertzelProcessBlock(b *testing.B) {
	in := binAlignedSine(1000, 48000, 1, 4096)

	g, err := NewGoertzel(1000, 48000)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.SetBytes(int64(len(in) * 8))

	for range b.N {
		g.ProcessBlock(in)
	}
}
