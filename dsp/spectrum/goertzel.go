package spectrum

import (
	"fmt"
	"math"
)

// Goertzel evaluates a single DFT bin without computing the full spectrum.
//
// The analyzer is stateful: Power and Magnitude report the frequency
// component of everything processed since the last Reset, and Amplitude
// additionally normalizes by the number of samples seen. It suits
// tone-level measurement of rendered audio, where only the probe tone's
// own bin matters.
//
// Leakage applies as with any DFT bin: a target frequency that does not
// complete an integer number of cycles over the processed samples smears
// into neighboring bins and reads low. Windowing the input first trades
// leakage for a wider main lobe.
type Goertzel struct {
	freq   float64
	coeff  float64
	z1, z2 float64
	n      int
}

// isFinite reports whether v is an ordinary float64, neither NaN nor Inf.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NewGoertzel creates an analyzer for one target frequency, which must lie
// between 0 and sampleRate/2.
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	switch {
	case sampleRate <= 0 || !isFinite(sampleRate):
		return nil, fmt.Errorf("goertzel: sample rate %v is not a positive finite value", sampleRate)
	case frequency < 0 || frequency > sampleRate/2 || !isFinite(frequency):
		return nil, fmt.Errorf("goertzel: frequency %v outside [0, %v]", frequency, sampleRate/2)
	}

	return &Goertzel{
		freq:  frequency,
		coeff: 2 * math.Cos(2*math.Pi*frequency/sampleRate),
	}, nil
}

// Reset clears the accumulated state.
func (g *Goertzel) Reset() {
	g.z1, g.z2 = 0, 0
	g.n = 0
}

// ProcessSample feeds one sample into the recurrence.
func (g *Goertzel) ProcessSample(input float64) {
	w := input + g.coeff*g.z1 - g.z2
	g.z2, g.z1 = g.z1, w
	g.n++
}

// ProcessBlock feeds a block of samples into the recurrence.
func (g *Goertzel) ProcessBlock(input []float64) {
	z1, z2 := g.z1, g.z2
	k := g.coeff

	for _, x := range input {
		w := x + k*z1 - z2
		z2, z1 = z1, w
	}

	g.z1, g.z2 = z1, z2
	g.n += len(input)
}

// Power returns the squared magnitude of the bin, equivalent to |X[k]|^2
// from a DFT over the same samples.
func (g *Goertzel) Power() float64 {
	return g.z1*g.z1 + g.z2*g.z2 - g.coeff*g.z1*g.z2
}

// Magnitude returns |X[k]|.
func (g *Goertzel) Magnitude() float64 {
	if p := g.Power(); p > 0 {
		return math.Sqrt(p)
	}

	return 0
}

// Amplitude estimates the peak amplitude of a sinusoid at the target
// frequency: a bin-aligned tone of amplitude A over N samples produces a
// DFT magnitude of A*N/2.
func (g *Goertzel) Amplitude() float64 {
	if g.n == 0 {
		return 0
	}

	return 2 * g.Magnitude() / float64(g.n)
}

// Frequency returns the target frequency.
func (g *Goertzel) Frequency() float64 { return g.freq }

// AnalyzeBlock computes the Goertzel power of one frequency over input in a
// single shot.
func AnalyzeBlock(input []float64, frequency, sampleRate float64) (float64, error) {
	det, err := NewGoertzel(frequency, sampleRate)
	if err != nil {
		return 0, err
	}
	det.ProcessBlock(input)

	return det.Power(), nil
}

// ToneAmplitude estimates the amplitude of a sinusoid at the given frequency
// within input.
func ToneAmplitude(input []float64, frequency, sampleRate float64) (float64, error) {
	det, err := NewGoertzel(frequency, sampleRate)
	if err != nil {
		return 0, err
	}
	det.ProcessBlock(input)

	return det.Amplitude(), nil
}
