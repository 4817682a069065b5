// Package frequency computes spectral shape descriptors from a one-sided
// magnitude spectrum: peak bin, centroid, spread, flatness, rolloff, and
// 3 dB bandwidth.
package frequency

import "math"

// rolloffFraction is the energy fraction used for the rolloff descriptor.
const rolloffFraction = 0.85

// Stats holds descriptors computed from a magnitude spectrum.
type Stats struct {
	BinCount int
	Peak     float64 // largest bin magnitude
	PeakBin  int
	PeakFreq float64 // Hz
	Sum      float64 // sum of magnitudes
	Average  float64
	Energy   float64 // sum of squared magnitudes
	Power    float64
	// Shape descriptors, all in Hz except Flatness.
	Centroid  float64 // magnitude-weighted mean frequency
	Spread    float64 // standard deviation around the centroid
	Flatness  float64 // geometric over arithmetic mean, 0..1
	Rolloff   float64 // 85% energy point
	Bandwidth float64 // 3 dB width around the peak
}

// Calculate computes all descriptors from a one-sided magnitude spectrum
// (linear scale, NOT dB).
//
// The magnitude slice covers bins 0 (DC) through Nyquist, so its length is
// FFTSize/2 + 1 and bin i sits at i * sampleRate / FFTSize.
func Calculate(magnitude []float64, sampleRate float64) Stats {
	n := len(magnitude)
	switch n {
	case 0:
		return Stats{}
	case 1:
		// DC-only spectrum.
		v := magnitude[0]
		return Stats{BinCount: 1, Peak: v, Sum: v, Average: v, Energy: v * v, Power: v * v}
	}

	binHz := sampleRate / float64(2*(n-1))

	s := Stats{BinCount: n}
	weighted := 0.0
	for i, v := range magnitude {
		s.Sum += v
		s.Energy += v * v
		weighted += float64(i) * v
		if v > s.Peak {
			s.Peak, s.PeakBin = v, i
		}
	}

	s.PeakFreq = float64(s.PeakBin) * binHz
	s.Average = s.Sum / float64(n)
	s.Power = s.Energy / float64(n)

	if s.Sum > 0 {
		s.Centroid = weighted / s.Sum * binHz
		s.Spread = spread(magnitude, binHz, s.Centroid, s.Sum)
	}
	s.Flatness = flatness(magnitude)
	if s.Energy > 0 {
		s.Rolloff = rolloff(magnitude, binHz, s.Energy)
	}
	if s.Peak > 0 {
		s.Bandwidth = bandwidth(magnitude, binHz, s.PeakBin, s.Peak)
	}

	return s
}

// spread is the magnitude-weighted standard deviation around the centroid.
func spread(magnitude []float64, binHz, centroid, sum float64) float64 {
	acc := 0.0
	for i, v := range magnitude {
		d := float64(i)*binHz - centroid
		acc += v * d * d
	}

	return math.Sqrt(acc / sum)
}

// flatness is the Wiener entropy over bins 1..n-1: the ratio of geometric
// to arithmetic mean. Any zero bin collapses the geometric mean, so the
// result is 0.
func flatness(magnitude []float64) float64 {
	bins := magnitude[1:]
	sumLin, sumLog := 0.0, 0.0
	for _, v := range bins {
		if v <= 0 {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}
	if sumLin == 0 {
		return 0
	}

	nb := float64(len(bins))

	return math.Exp(sumLog/nb) * nb / sumLin
}

// rolloff is the frequency below which rolloffFraction of the spectral
// energy lies.
func rolloff(magnitude []float64, binHz, energy float64) float64 {
	remaining := rolloffFraction * energy
	for i, v := range magnitude {
		remaining -= v * v
		if remaining <= 0 {
			return float64(i) * binHz
		}
	}

	return float64(len(magnitude)-1) * binHz
}

// bandwidth is the 3 dB width around the spectral peak, with linear
// interpolation between the bins straddling each crossing.
func bandwidth(magnitude []float64, binHz float64, peakBin int, peak float64) float64 {
	level := peak / math.Sqrt2

	lo := 0.0
	for i := peakBin; i > 0; i-- {
		if magnitude[i] > level && magnitude[i-1] <= level {
			lo = float64(i-1) + cross(magnitude[i-1], magnitude[i], level)
			break
		}
	}

	hi := float64(len(magnitude) - 1)
	for i := peakBin; i < len(magnitude)-1; i++ {
		if magnitude[i] > level && magnitude[i+1] <= level {
			hi = float64(i) + cross(magnitude[i], magnitude[i+1], level)
			break
		}
	}

	if hi < lo {
		return 0
	}

	return (hi - lo) * binHz
}

// cross returns the fractional position in [0, 1] where a segment from a
// to b passes through level, 0.5 when the segment is flat.
func cross(a, b, level float64) float64 {
	if b == a {
		return 0.5
	}

	return (level - a) / (b - a)
}
