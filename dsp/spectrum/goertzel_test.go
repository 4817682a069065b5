package spectrum

import (
	"math"
	"testing"
)

func binAlignedSine(freqHz, sampleRate, amplitude float64, samples int) []float64 {
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

func TestGoertzelMeasuresBinAlignedTone(t *testing.T) {
	// 1 kHz over 480 samples at 48 kHz is exactly 10 cycles, so the bin
	// magnitude is amplitude*N/2 with no leakage.
	const (
		n   = 480
		amp = 0.5
	)
	in := binAlignedSine(1000, 48000, amp, n)

	g, err := NewGoertzel(1000, 48000)
	if err != nil {
		t.Fatalf("NewGoertzel() error = %v", err)
	}
	g.ProcessBlock(in)

	wantMag := amp * n / 2
	if math.Abs(g.Magnitude()-wantMag) > wantMag*1e-6 {
		t.Fatalf("Magnitude() = %v, want %v", g.Magnitude(), wantMag)
	}
	wantPow := wantMag * wantMag
	if math.Abs(g.Power()-wantPow) > wantPow*1e-6 {
		t.Fatalf("Power() = %v, want %v", g.Power(), wantPow)
	}
}

func TestGoertzelOffToneRejection(t *testing.T) {
	in := binAlignedSine(1000, 48000, 1, 480)

	// 3 kHz is also bin-aligned over the block, so the 1 kHz tone leaks
	// nothing into it.
	g, err := NewGoertzel(3000, 48000)
	if err != nil {
		t.Fatalf("NewGoertzel() error = %v", err)
	}
	g.ProcessBlock(in)

	if g.Magnitude() > 1e-6 {
		t.Fatalf("Magnitude() = %v, want near zero off-bin", g.Magnitude())
	}
}

func TestGoertzelProcessBlockMatchesPerSample(t *testing.T) {
	in := binAlignedSine(440, 48000, 0.8, 256)

	blk, err := NewGoertzel(440, 48000)
	if err != nil {
		t.Fatalf("NewGoertzel() error = %v", err)
	}
	per, err := NewGoertzel(440, 48000)
	if err != nil {
		t.Fatalf("NewGoertzel() error = %v", err)
	}

	blk.ProcessBlock(in)
	for _, x := range in {
		per.ProcessSample(x)
	}

	if blk.Power() != per.Power() {
		t.Fatalf("block power %v != per-sample power %v", blk.Power(), per.Power())
	}
}

func TestGoertzelReset(t *testing.T) {
	g, err := NewGoertzel(1000, 48000)
	if err != nil {
		t.Fatalf("NewGoertzel() error = %v", err)
	}
	g.ProcessBlock(binAlignedSine(1000, 48000, 1, 480))
	g.Reset()

	if g.Power() != 0 {
		t.Fatalf("Power() = %v after Reset, want 0", g.Power())
	}
	if g.Amplitude() != 0 {
		t.Fatalf("Amplitude() = %v after Reset, want 0", g.Amplitude())
	}
}

func TestGoertzelAmplitudeNormalizesByLength(t *testing.T) {
	// The same tone measured over different block lengths must report the
	// same amplitude.
	for _, n := range []int{480, 960} {
		g, err := NewGoertzel(1000, 48000)
		if err != nil {
			t.Fatalf("NewGoertzel() error = %v", err)
		}
		g.ProcessBlock(binAlignedSine(1000, 48000, 0.25, n))

		if got := g.Amplitude(); math.Abs(got-0.25) > 1e-6 {
			t.Fatalf("Amplitude() over %d samples = %v, want 0.25", n, got)
		}
	}
}

func TestToneAmplitude(t *testing.T) {
	in := binAlignedSine(440, 44100, 0.8, 4410)

	amp, err := ToneAmplitude(in, 440, 44100)
	if err != nil {
		t.Fatalf("ToneAmplitude() error = %v", err)
	}
	if math.Abs(amp-0.8) > 1e-6 {
		t.Fatalf("ToneAmplitude() = %v, want 0.8", amp)
	}

	if _, err := ToneAmplitude(in, -5, 44100); err == nil {
		t.Fatal("ToneAmplitude() expected error for negative frequency")
	}
}

func TestGoertzelValidation(t *testing.T) {
	if _, err := NewGoertzel(1000, 0); err == nil {
		t.Fatal("NewGoertzel() expected error for zero sample rate")
	}
	if _, err := NewGoertzel(-1, 48000); err == nil {
		t.Fatal("NewGoertzel() expected error for negative frequency")
	}
	if _, err := NewGoertzel(30000, 48000); err == nil {
		t.Fatal("NewGoertzel() expected error for frequency above Nyquist")
	}
	if _, err := NewGoertzel(math.NaN(), 48000); err == nil {
		t.Fatal("NewGoertzel() expected error for NaN frequency")
	}
}

func TestAnalyzeBlock(t *testing.T) {
	in := binAlignedSine(1000, 48000, 1, 480)

	p, err := AnalyzeBlock(in, 1000, 48000)
	if err != nil {
		t.Fatalf("AnalyzeBlock() error = %v", err)
	}

	want := 240.0 * 240.0
	if math.Abs(p-want) > want*1e-6 {
		t.Fatalf("AnalyzeBlock() = %v, want %v", p, want)
	}
}
