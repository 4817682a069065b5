package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSineIsReproducible(t *testing.T) {
	a := DeterministicSine(440, 48000, 0.5, 256)
	b := DeterministicSine(440, 48000, 0.5, 256)
	RequireSliceNearlyEqual(t, a, b, 0)

	if a[0] != 0 {
		t.Fatalf("first sample = %v, want 0", a[0])
	}

	// Quarter period of 440 Hz at 48 kHz lands near sample 27.
	if math.Abs(a[27]) < 0.45 {
		t.Fatalf("sample at the first crest = %v, want close to the amplitude", a[27])
	}
}

func TestDeterministicNoiseSeedControlsContent(t *testing.T) {
	a := DeterministicNoise(7, 1, 512)
	b := DeterministicNoise(7, 1, 512)
	c := DeterministicNoise(8, 1, 512)

	RequireSliceNearlyEqual(t, a, b, 0)
	RequireFinite(t, a)

	diff, err := MaxAbsDiff(a, c)
	if err != nil {
		t.Fatalf("MaxAbsDiff() error = %v", err)
	}
	if diff == 0 {
		t.Fatal("different seeds produced identical noise")
	}

	for i, v := range a {
		if v < -1 || v > 1 {
			t.Fatalf("index %d: %v outside [-1, 1]", i, v)
		}
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	if _, err := MaxAbsDiff(make([]float64, 3), make([]float64, 4)); err == nil {
		t.Fatal("MaxAbsDiff() error = nil, want length mismatch")
	}
}

func TestMaxAbsDiffReportsLargestGap(t *testing.T) {
	a := []float64{0, 1, 2}
	b := []float64{0, 1.5, 1}

	diff, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MaxAbsDiff() error = %v", err)
	}
	if diff != 1 {
		t.Fatalf("MaxAbsDiff() = %v, want 1", diff)
	}
}
