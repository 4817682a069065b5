// Package signal builds deterministic test and probe signals: sines, tone
// bursts, impulses, and seeded noise, plus peak normalization and clipping.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-reversedelay/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	conf core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the seed for noise generation.
func WithSeed(seed int64) Option {
	return func(gen *Generator) {
		gen.seed = seed
	}
}

// NewGenerator creates a signal generator with core processing options.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a signal generator with both core and
// signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	gen := &Generator{conf: core.ApplyProcessorOptions(coreOpts...), seed: 1}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(gen)
	}
	return gen
}

// Config returns the generator processor configuration.
func (gen *Generator) Config() core.ProcessorConfig {
	return gen.conf
}

// SetSeed sets the seed used by noise generation.
func (gen *Generator) SetSeed(seed int64) {
	gen.seed = seed
}

// Seed returns the current seed.
func (gen *Generator) Seed() int64 {
	return gen.seed
}

// checkCount rejects non-positive output lengths.
func checkCount(op string, samples int) error {
	if samples <= 0 {
		return fmt.Errorf("%s samples must be > 0: %d", op, samples)
	}
	return nil
}

// Sine generates a sine wave at freqHz.
func (gen *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if err := checkCount("sine", samples); err != nil {
		return nil, err
	}
	if err := gen.conf.Validate(); err != nil {
		return nil, fmt.Errorf("sine: %w", err)
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / gen.conf.SampleRate
	phase := 0.0
	for i := range out {
		out[i] = amplitude * math.Sin(phase)
		phase += step
	}
	return out, nil
}

// WhiteNoise generates noise in [-amplitude, amplitude]. The sequence is
// reproducible: each call restarts from the generator's seed.
func (gen *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if err := checkCount("noise", samples); err != nil {
		return nil, err
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("white noise amplitude %g must not be negative", amplitude)
	}

	rng := rand.New(rand.NewSource(gen.seed))
	out := make([]float64, samples)
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}
	return out, nil
}

// Impulse generates a single impulse of the given amplitude at position pos.
func (gen *Generator) Impulse(amplitude float64, samples, pos int) ([]float64, error) {
	if err := checkCount("impulse", samples); err != nil {
		return nil, err
	}
	if pos < 0 || pos >= samples {
		return nil, fmt.Errorf("impulse position must be in [0, %d): %d", samples, pos)
	}

	out := make([]float64, samples)
	out[pos] = amplitude
	return out, nil
}

// ToneBurst generates a sine burst with raised-cosine edges. The edge ramps
// span edgeSamples on each side, so the burst opens and closes without a
// step discontinuity.
func (gen *Generator) ToneBurst(freqHz, amplitude float64, samples, edgeSamples int) ([]float64, error) {
	if err := checkCount("tone burst", samples); err != nil {
		return nil, err
	}
	if edgeSamples < 0 || 2*edgeSamples > samples {
		return nil, fmt.Errorf("tone burst edge must be in [0, %d]: %d", samples/2, edgeSamples)
	}

	out, err := gen.Sine(freqHz, amplitude, samples)
	if err != nil {
		return nil, err
	}

	for i := range edgeSamples {
		w := 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(edgeSamples)))
		out[i] *= w
		out[samples-1-i] *= w
	}
	return out, nil
}

// Normalize scales data to the target peak amplitude and returns a new
// slice. Silent input stays silent.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize: target peak %g must not be negative", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize: empty input")
	}

	peak := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	out := make([]float64, len(data))
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}

	vecmath.ScaleBlock(out, data, targetPeak/peak)
	return out, nil
}

// Clip limits data to [lo, hi] and returns a new slice.
func Clip(data []float64, lo, hi float64) ([]float64, error) {
	if lo > hi {
		return nil, fmt.Errorf("clip bounds must satisfy lo <= hi: [%g, %g]", lo, hi)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("clip: empty input")
	}

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = core.Clamp(v, lo, hi)
	}
	return out, nil
}
