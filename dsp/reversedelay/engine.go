package reversedelay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reversedelay/dsp/core"
	"github.com/cwbudde/algo-reversedelay/dsp/history"
)

// Default structural and control parameters. The defaults reproduce the
// classic hardware patch: a two-second capture buffer, a 0.2 s splice fade,
// a quarter-second reverse delay mixed in at half strength with no feedback.
const (
	DefaultBufferSeconds = 2.0
	DefaultFadeSeconds   = 0.2
	DefaultDelaySeconds  = 0.25
	DefaultMix           = 0.5
	DefaultFeedback      = 0.0

	maxFeedback = 0.99

	// marginSeconds pads the delay window on both ends: segment lengths stay
	// strictly above the fade window and strictly below buffer capacity.
	marginSeconds = 0.01
)

// Engine is a mono reverse-playback delay.
//
// Two backward-reading segments alternate over a circular history buffer;
// a handoff starts the idle segment one fade window before the watched
// segment expires and crossfades to it. Segment lengths derive from the
// delay-time control at each start, so time changes apply to future
// segments without disturbing the one playing.
//
// The per-sample path allocates nothing and takes no locks. Engine state
// must stay on one processing goroutine; the runtime parameters are shared
// through the atomic Controls block and may be set from anywhere.
type Engine struct {
	sampleRate     float64
	bufferSeconds  float64
	fadeSeconds    float64
	smoothingCoeff float64

	fadeSamples int
	fadeStep    float64
	minDelay    int
	maxDelay    int

	hist *history.Buffer
	segA segment
	segB segment

	xfade     CrossFade
	fading    bool
	fade      float64
	fadeCount int
	fadeSwap  bool

	// watchA selects which segment's progress arms the next handoff; it
	// flips on every segment start.
	watchA  bool
	started bool

	controls    *Controls
	curMix      float64
	curFeedback float64
	smoothedSec float64
}

// Option configures structural engine parameters before validation.
type Option func(*Engine)

// WithBufferSeconds sets the history buffer length in seconds.
func WithBufferSeconds(seconds float64) Option {
	return func(e *Engine) { e.bufferSeconds = seconds }
}

// WithFadeSeconds sets the crossfade window in seconds. Handoffs are
// click-free while the delay time stays at or above twice this window.
func WithFadeSeconds(seconds float64) Option {
	return func(e *Engine) { e.fadeSeconds = seconds }
}

// WithTimeSmoothing sets a one-pole smoothing coefficient in [0, 1) applied
// to the delay-time control each sample; 0 disables smoothing. Smoothing
// only shapes the lengths picked up by future segment starts.
func WithTimeSmoothing(coeff float64) Option {
	return func(e *Engine) { e.smoothingCoeff = coeff }
}

// WithControls shares an externally owned control block instead of the
// engine allocating its own.
func WithControls(c *Controls) Option {
	return func(e *Engine) {
		if c != nil {
			e.controls = c
		}
	}
}

// New creates a reverse delay engine for the given sample rate.
func New(sampleRate float64, opts ...Option) (*Engine, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reverse delay sample rate must be > 0: %f", sampleRate)
	}

	e := &Engine{
		sampleRate:    sampleRate,
		bufferSeconds: DefaultBufferSeconds,
		fadeSeconds:   DefaultFadeSeconds,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.controls == nil {
		e.controls = NewControls()
	}

	if err := e.rebuild(); err != nil {
		return nil, err
	}

	return e, nil
}

// rebuild derives the sample-domain configuration and allocates the history
// buffer. It validates everything an option may have set.
func (e *Engine) rebuild() error {
	if e.bufferSeconds <= 0 || math.IsNaN(e.bufferSeconds) || math.IsInf(e.bufferSeconds, 0) {
		return fmt.Errorf("reverse delay buffer seconds must be > 0: %f", e.bufferSeconds)
	}
	if e.fadeSeconds <= 0 || math.IsNaN(e.fadeSeconds) || math.IsInf(e.fadeSeconds, 0) {
		return fmt.Errorf("reverse delay fade seconds must be > 0: %f", e.fadeSeconds)
	}
	if e.smoothingCoeff < 0 || e.smoothingCoeff >= 1 ||
		math.IsNaN(e.smoothingCoeff) || math.IsInf(e.smoothingCoeff, 0) {
		return fmt.Errorf("reverse delay smoothing coefficient must be in [0, 1): %f", e.smoothingCoeff)
	}

	capacity := int(math.Ceil(e.bufferSeconds * e.sampleRate))

	e.fadeSamples = int(math.Round(e.fadeSeconds * e.sampleRate))
	if e.fadeSamples < 2 {
		e.fadeSamples = 2
	}
	e.fadeStep = 1 / float64(e.fadeSamples)

	margin := int(math.Round(marginSeconds * e.sampleRate))
	if margin < 1 {
		margin = 1
	}

	e.minDelay = e.fadeSamples + margin
	e.maxDelay = capacity - e.fadeSamples - margin
	if e.minDelay >= e.maxDelay {
		return fmt.Errorf("reverse delay buffer too small: %d samples cannot hold fade %d plus margin %d",
			capacity, e.fadeSamples, margin)
	}

	hist, err := history.New(capacity)
	if err != nil {
		return err
	}
	e.hist = hist

	e.Reset()

	return nil
}

// Reset returns the engine to its pre-startup state: history cleared, both
// segments inactive, fade idle, smoothed delay time re-seeded from the
// controls. The next processed sample runs the startup sequence again.
func (e *Engine) Reset() {
	e.hist.Reset()
	e.segA = segment{}
	e.segB = segment{}
	e.xfade.SetPos(0)
	e.fading = false
	e.fade = 0
	e.fadeCount = 0
	e.fadeSwap = false
	e.watchA = false
	e.started = false
	e.smoothedSec = e.controls.DelayTime()
	e.curMix = e.controls.Mix()
	e.curFeedback = e.controls.Feedback()
}

// ProcessSample advances the engine by one sample and returns the output.
func (e *Engine) ProcessSample(input float64) float64 {
	length := e.refreshControls()

	if !e.started {
		e.segA.deactivate()
		e.segB.deactivate()
		e.startSegment(&e.segA, length)
		e.started = true
	}

	var outA, outB float64
	if e.segA.active {
		outA = e.segA.step(e.hist)
	}
	if e.segB.active {
		outB = e.segB.step(e.hist)
	}

	// The mixer consumes the held position first; the position then moves
	// one step so it reaches the far endpoint exactly at fadeSamples elapsed
	// and the sample after that closes the fade.
	if e.fading {
		e.xfade.SetPos(e.fade)
		if e.fadeCount < e.fadeSamples {
			if e.fadeSwap {
				e.fade -= e.fadeStep
			} else {
				e.fade += e.fadeStep
			}
			e.fadeCount++
		} else {
			e.fading = false
			e.fadeCount = 0
			e.fadeSwap = !e.fadeSwap
		}
	}
	wet := e.xfade.Process(outA, outB)

	out := input + wet*e.curMix

	e.hist.Store(core.FlushDenormals(input + wet*e.curFeedback))

	// Handoff: when the watched segment is one fade window from expiry,
	// park the mixer on its endpoint and start the idle segment at the
	// cursor. The fade then walks toward the fresh segment. Retirement runs
	// after the trigger so a segment expiring this very sample still arms
	// its handoff first.
	if !e.fading {
		if e.watchA {
			if e.segA.active && e.segA.played+e.fadeSamples >= e.segA.length {
				e.fading = true
				e.fade = 0
				e.startSegment(&e.segB, length)
			}
		} else {
			if e.segB.active && e.segB.played+e.fadeSamples >= e.segB.length {
				e.fading = true
				e.fade = 1
				e.startSegment(&e.segA, length)
			}
		}
	}

	if e.segA.active && e.segA.expired() {
		e.segA.deactivate()
	}
	if e.segB.active && e.segB.expired() {
		e.segB.deactivate()
	}

	e.hist.Advance()

	return out
}

// ProcessInPlace applies the reverse delay to buf in place.
func (e *Engine) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = e.ProcessSample(buf[i])
	}
}

// refreshControls loads the shared parameters and derives the segment
// length the next start would use, clamped into the delay window.
func (e *Engine) refreshControls() int {
	target := e.controls.DelayTime()
	e.curMix = e.controls.Mix()
	e.curFeedback = e.controls.Feedback()

	if e.smoothingCoeff > 0 {
		e.smoothedSec += e.smoothingCoeff * (target - e.smoothedSec)
	} else {
		e.smoothedSec = target
	}

	length := int(math.Round(e.smoothedSec * e.sampleRate))

	return clampInt(length, e.minDelay, e.maxDelay)
}

// startSegment arms s at the write cursor and flips the watch flag.
func (e *Engine) startSegment(s *segment, length int) {
	s.startAt(e.hist.Cursor(), length)
	e.watchA = !e.watchA
}

// SetTime sets the reverse delay time in seconds. Safe from any goroutine;
// the engine picks the value up on the next processed sample.
func (e *Engine) SetTime(seconds float64) error {
	return e.controls.SetDelayTime(seconds)
}

// SetMix sets the wet amount in [0, 1]. Safe from any goroutine.
func (e *Engine) SetMix(mix float64) error {
	return e.controls.SetMix(mix)
}

// SetFeedback sets the feedback amount in [0, 0.99]. Safe from any goroutine.
func (e *Engine) SetFeedback(feedback float64) error {
	return e.controls.SetFeedback(feedback)
}

// Controls returns the shared parameter block for external producers.
func (e *Engine) Controls() *Controls { return e.controls }

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// BufferCapacity returns the history buffer size in samples.
func (e *Engine) BufferCapacity() int { return e.hist.Capacity() }

// FadeSamples returns the crossfade window in samples.
func (e *Engine) FadeSamples() int { return e.fadeSamples }

// MinDelaySamples returns the smallest segment length the engine starts.
func (e *Engine) MinDelaySamples() int { return e.minDelay }

// MaxDelaySamples returns the largest segment length the engine starts.
func (e *Engine) MaxDelaySamples() int { return e.maxDelay }

// Time returns the delay time control in seconds.
func (e *Engine) Time() float64 { return e.controls.DelayTime() }

// Mix returns the wet amount control in [0, 1].
func (e *Engine) Mix() float64 { return e.controls.Mix() }

// Feedback returns the feedback control in [0, 0.99].
func (e *Engine) Feedback() float64 { return e.controls.Feedback() }

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}

	if val > hi {
		return hi
	}

	return val
}
