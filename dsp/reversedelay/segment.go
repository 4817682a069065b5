package reversedelay

import "github.com/cwbudde/algo-reversedelay/dsp/history"

// segment is one backward-reading voice over the history buffer.
//
// A started segment remembers the buffer index it was started at and walks
// its head backward one index per step until it has played length samples.
// The head stays pre-wrapped through WrapDec, so step never computes a
// modulo and never leaves [0, capacity).
type segment struct {
	active bool
	head   int
	start  int
	length int
	played int
}

// startAt arms the segment at the given buffer index for length samples.
// Callers guarantee length exceeds the crossfade window; that precondition
// is enforced where delay time is accepted, not here.
func (s *segment) startAt(index, length int) {
	s.active = true
	s.head = index
	s.start = index
	s.length = length
	s.played = 0
}

// step reads the sample under the head, then moves the head backward.
// Only called while active.
func (s *segment) step(buf *history.Buffer) float64 {
	out := buf.At(s.head)
	s.head = buf.WrapDec(s.head)
	s.played++
	return out
}

// expired reports whether the segment has played out its length.
func (s *segment) expired() bool {
	return s.played >= s.length
}

// deactivate silences the segment until the next startAt.
func (s *segment) deactivate() {
	s.active = false
}
