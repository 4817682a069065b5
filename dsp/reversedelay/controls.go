package reversedelay

import (
	"fmt"
	"math"
	"sync/atomic"
)

// atomicFloat64 holds a float64 as raw bits in one machine word. A load
// observes a complete earlier store, never a torn value, so a control
// producer and the audio context need no lock between them.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (a *atomicFloat64) store(v float64) { a.bits.Store(math.Float64bits(v)) }
func (a *atomicFloat64) load() float64   { return math.Float64frombits(a.bits.Load()) }

// Controls is the parameter block shared between control producers (UI,
// knob pollers, file watchers) and the engine. Producers store through the
// validated setters from any goroutine; the engine loads each value once
// per processed sample.
type Controls struct {
	delaySeconds atomicFloat64
	mix          atomicFloat64
	feedback     atomicFloat64
}

// NewControls returns a control block holding the default parameter set.
func NewControls() *Controls {
	c := &Controls{}
	c.delaySeconds.store(DefaultDelaySeconds)
	c.mix.store(DefaultMix)
	c.feedback.store(DefaultFeedback)
	return c
}

// SetDelayTime sets the reverse delay time in seconds. The engine clamps
// the value into its delay window when deriving segment lengths.
func (c *Controls) SetDelayTime(seconds float64) error {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("delay time must be > 0 and finite: %f", seconds)
	}
	c.delaySeconds.store(seconds)
	return nil
}

// SetMix sets the wet amount in [0, 1].
func (c *Controls) SetMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
		return fmt.Errorf("mix must be in [0, 1]: %f", mix)
	}
	c.mix.store(mix)
	return nil
}

// SetFeedback sets the feedback amount in [0, 0.99].
func (c *Controls) SetFeedback(feedback float64) error {
	if feedback < 0 || feedback > maxFeedback || math.IsNaN(feedback) || math.IsInf(feedback, 0) {
		return fmt.Errorf("feedback must be in [0, %v]: %f", maxFeedback, feedback)
	}
	c.feedback.store(feedback)
	return nil
}

// DelayTime returns the delay time in seconds.
func (c *Controls) DelayTime() float64 { return c.delaySeconds.load() }

// Mix returns the wet amount in [0, 1].
func (c *Controls) Mix() float64 { return c.mix.load() }

// Feedback returns the feedback amount in [0, 0.99].
func (c *Controls) Feedback() float64 { return c.feedback.load() }
