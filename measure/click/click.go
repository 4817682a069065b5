package click

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-reversedelay/dsp/spectrum"
	"github.com/cwbudde/algo-reversedelay/dsp/window"
)

const (
	defaultFrameSize = 1024
	defaultHopSize   = 256
	defaultThreshold = 0.25

	minFrameSize = 64

	// fluxFloor keeps the normalization finite when the previous frame is
	// silent; any signal onset from true silence then registers as a click.
	fluxFloor = 1e-12
)

// Errors returned by detector construction.
var (
	ErrInvalidSampleRate = errors.New("click: sample rate must be positive")
	ErrFrameSize         = errors.New("click: frame size must be a power of two and at least 64")
	ErrHopSize           = errors.New("click: hop size must be between 1 and frame size")
	ErrThreshold         = errors.New("click: threshold must be positive and finite")
)

// Config holds click detection parameters. Zero values for FrameSize,
// HopSize, and Threshold select the defaults (1024, 256, 0.25).
type Config struct {
	SampleRate float64
	FrameSize  int
	HopSize    int
	Threshold  float64
}

// Event is one detected discontinuity.
type Event struct {
	Index int     // start sample of the frame that exposed the jump
	Time  float64 // Index in seconds
	Flux  float64 // normalized spectral flux that crossed the threshold
}

// Detector finds click-like discontinuities via normalized spectral flux.
//
// The detector is buffer-oriented and reuses internal scratch, so it is not
// safe for concurrent use.
type Detector struct {
	cfg    Config
	plan   *algofft.Plan[complex128]
	coeffs []float64

	frame  []float64
	packed []complex128
	spec   []complex128
	re     []float64
	im     []float64
	mag    []float64
	prev   []float64
}

// NewDetector creates a detector for the given configuration.
func NewDetector(cfg Config) (*Detector, error) {
	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, cfg.SampleRate)
	}

	if cfg.FrameSize == 0 {
		cfg.FrameSize = defaultFrameSize
	}
	if cfg.HopSize == 0 {
		cfg.HopSize = defaultHopSize
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = defaultThreshold
	}

	if cfg.FrameSize < minFrameSize || !isPowerOf2(cfg.FrameSize) {
		return nil, fmt.Errorf("%w: %d", ErrFrameSize, cfg.FrameSize)
	}
	if cfg.HopSize < 0 || cfg.HopSize > cfg.FrameSize {
		return nil, fmt.Errorf("%w: %d", ErrHopSize, cfg.HopSize)
	}
	if cfg.Threshold < 0 || math.IsNaN(cfg.Threshold) || math.IsInf(cfg.Threshold, 0) {
		return nil, fmt.Errorf("%w: %f", ErrThreshold, cfg.Threshold)
	}

	plan, err := algofft.NewPlan64(cfg.FrameSize)
	if err != nil {
		return nil, fmt.Errorf("click: create FFT plan: %w", err)
	}

	bins := cfg.FrameSize/2 + 1

	return &Detector{
		cfg:    cfg,
		plan:   plan,
		coeffs: window.Generate(window.TypeHann, cfg.FrameSize, window.WithPeriodic()),
		frame:  make([]float64, cfg.FrameSize),
		packed: make([]complex128, cfg.FrameSize),
		spec:   make([]complex128, cfg.FrameSize),
		re:     make([]float64, bins),
		im:     make([]float64, bins),
		mag:    make([]float64, bins),
		prev:   make([]float64, bins),
	}, nil
}

// Config returns the detector configuration with defaults resolved.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect scans input and returns one event per flagged discontinuity, in
// order. Events within one frame of a flagged one are suppressed so a single
// splice is not reported once per hop. Input shorter than a frame yields no
// events.
func (d *Detector) Detect(input []float64) ([]Event, error) {
	for i := range d.prev {
		d.prev[i] = 0
	}

	var events []Event
	havePrev := false
	nextAllowed := 0

	for off := 0; off+d.cfg.FrameSize <= len(input); off += d.cfg.HopSize {
		copy(d.frame, input[off:off+d.cfg.FrameSize])
		if err := window.ApplyCoefficientsInPlace(d.frame, d.coeffs); err != nil {
			return nil, fmt.Errorf("click: window frame at %d: %w", off, err)
		}

		for i, v := range d.frame {
			d.packed[i] = complex(v, 0)
		}
		if err := d.plan.Forward(d.spec, d.packed); err != nil {
			return nil, fmt.Errorf("click: transform frame at %d: %w", off, err)
		}

		for k := range d.mag {
			d.re[k] = real(d.spec[k])
			d.im[k] = imag(d.spec[k])
		}
		spectrum.MagnitudeFromParts(d.mag, d.re, d.im)

		flux := 0.0
		prevEnergy := 0.0
		for k, m := range d.mag {
			prevEnergy += d.prev[k]
			if diff := m - d.prev[k]; diff > 0 {
				flux += diff
			}
		}

		if havePrev {
			norm := flux / (prevEnergy + fluxFloor)
			if norm > d.cfg.Threshold && off >= nextAllowed {
				events = append(events, Event{
					Index: off,
					Time:  float64(off) / d.cfg.SampleRate,
					Flux:  norm,
				})
				nextAllowed = off + d.cfg.FrameSize
			}
		}

		d.mag, d.prev = d.prev, d.mag
		havePrev = true
	}

	return events, nil
}

// Analyze runs one-shot detection with the given configuration.
func Analyze(input []float64, cfg Config) ([]Event, error) {
	d, err := NewDetector(cfg)
	if err != nil {
		return nil, err
	}
	return d.Detect(input)
}

// MaxSampleStep returns the largest absolute difference between adjacent
// samples. A sampled sinusoid of amplitude a at frequency f never steps more
// than a*2*pi*f/sampleRate, so splice clicks stand far above that bound.
func MaxSampleStep(input []float64) float64 {
	maxStep := 0.0
	for i := 1; i < len(input); i++ {
		if step := math.Abs(input[i] - input[i-1]); step > maxStep {
			maxStep = step
		}
	}
	return maxStep
}

func isPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
