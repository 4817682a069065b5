// Package time computes time-domain level statistics over sample blocks:
// peak, RMS, crest factor, DC offset, and zero crossings. The streaming
// accumulator produces bit-for-bit the same result as the one-shot
// Calculate, so block-wise front-ends can report without a second pass.
package time

import (
	"math"

	"github.com/cwbudde/algo-reversedelay/dsp/core"
)

// Stats holds time-domain level statistics.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64 // mean of all samples
	RMS            float64
	RMS_dB         float64
	Max            float64
	MaxPos         int
	Min            float64
	MinPos         int
	Peak           float64 // larger of |Max| and |Min|
	Peak_dB        float64
	CrestFactor    float64 // Peak over RMS
	CrestFactor_dB float64
	Energy         float64 // sum of squared samples
	ZeroCrossings  int
}

// emptyResult is the outcome for zero accumulated samples: dB fields are
// -Inf, everything else stays zero.
func emptyResult() Stats {
	inf := math.Inf(-1)
	return Stats{RMS_dB: inf, Peak_dB: inf, CrestFactor_dB: inf}
}

// accumulator carries the running aggregates shared by Calculate and
// StreamingStats, so both paths finish through the same arithmetic.
type accumulator struct {
	count     int
	sum       float64
	energy    float64
	max       float64
	maxAt     int
	min       float64
	minAt     int
	crossings int
	prev      float64
}

// add folds a block into the running aggregates. Position bookkeeping uses
// count before it is advanced, so indices stay global across blocks.
func (a *accumulator) add(block []float64) {
	if len(block) == 0 {
		return
	}

	if a.count == 0 {
		a.max, a.min = block[0], block[0]
	}

	for _, x := range block {
		if a.count > 0 && a.prev*x < 0 {
			a.crossings++
		}
		a.prev = x

		if x > a.max {
			a.max, a.maxAt = x, a.count
		}
		if x < a.min {
			a.min, a.minAt = x, a.count
		}

		a.sum += x
		a.energy += x * x
		a.count++
	}
}

func (a *accumulator) stats() Stats {
	if a.count == 0 {
		return emptyResult()
	}

	nf := float64(a.count)
	s := Stats{
		Length:        a.count,
		DC:            a.sum / nf,
		Max:           a.max,
		MaxPos:        a.maxAt,
		Min:           a.min,
		MinPos:        a.minAt,
		Energy:        a.energy,
		ZeroCrossings: a.crossings,
	}

	s.RMS = math.Sqrt(a.energy / nf)
	s.RMS_dB = core.LinearToDB(s.RMS)
	s.Peak = math.Max(math.Abs(a.max), math.Abs(a.min))
	s.Peak_dB = core.LinearToDB(s.Peak)

	s.CrestFactor_dB = math.Inf(-1)
	if s.RMS > 0 {
		s.CrestFactor = s.Peak / s.RMS
		s.CrestFactor_dB = core.LinearToDB(s.CrestFactor)
	}

	return s
}

// Calculate computes all statistics over signal in a single pass.
func Calculate(signal []float64) Stats {
	var a accumulator
	a.add(signal)
	return a.stats()
}

// StreamingStats accumulates statistics incrementally across blocks of
// samples, for front-ends that report while processing block by block.
type StreamingStats struct {
	acc accumulator
}

// NewStreamingStats creates an empty accumulator.
func NewStreamingStats() *StreamingStats {
	return &StreamingStats{}
}

// Update folds a block of samples into the running statistics.
func (s *StreamingStats) Update(block []float64) {
	s.acc.add(block)
}

// Result computes the statistics accumulated so far.
func (s *StreamingStats) Result() Stats {
	return s.acc.stats()
}

// Reset clears all accumulated data for reuse.
func (s *StreamingStats) Reset() {
	s.acc = accumulator{}
}
