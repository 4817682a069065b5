package frequency

import (
	"fmt"
	"math"
	"testing"
)

// benchSpectrum builds a one-sided magnitude spectrum falling off roughly
// as 1/sqrt(bin) with a harmonic ridge on top, so every descriptor has
// real work to do.
func benchSpectrum(binCount int) []float64 {
	mag := make([]float64, binCount)
	mag[0] = 0.2
	for i := 1; i < binCount; i++ {
		ridge := 0.05 * math.Abs(math.Sin(14*math.Pi*float64(i)/float64(binCount-1)))
		mag[i] = 1/math.Sqrt(float64(i)) + ridge
	}
	return mag
}

func BenchmarkCalculate(b *testing.B) {
	for _, binCount := range []int{129, 1025, 8193} {
		mag := benchSpectrum(binCount)
		b.Run(fmt.Sprintf("bins=%d", binCount), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(binCount * 8))

			for range b.N {
				_ = Calculate(mag, 48000)
			}
		})
	}
}
