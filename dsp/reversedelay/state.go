package reversedelay

import "fmt"

// SegmentState is a point-in-time copy of one segment's bookkeeping.
type SegmentState struct {
	Active bool
	Head   int
	Start  int
	Length int
	Played int
}

// String formats the segment bookkeeping on one line.
func (s SegmentState) String() string {
	return fmt.Sprintf("active=%t head=%d start=%d len=%d played=%d",
		s.Active, s.Head, s.Start, s.Length, s.Played)
}

// State is a point-in-time copy of the engine's scheduler bookkeeping for
// diagnostics and tests. Take it from the processing context only; the
// engine does not synchronize these fields.
type State struct {
	Started   bool
	Cursor    int
	WatchA    bool
	Fading    bool
	FadePos   float64
	FadeCount int
	FadeSwap  bool
	A         SegmentState
	B         SegmentState
}

// String formats the scheduler bookkeeping on one line.
func (s State) String() string {
	return fmt.Sprintf("cursor=%d watchA=%t fading=%t pos=%.4f count=%d A[%s] B[%s]",
		s.Cursor, s.WatchA, s.Fading, s.FadePos, s.FadeCount, s.A, s.B)
}

// State snapshots the scheduler for inspection.
func (e *Engine) State() State {
	return State{
		Started:   e.started,
		Cursor:    e.hist.Cursor(),
		WatchA:    e.watchA,
		Fading:    e.fading,
		FadePos:   e.xfade.Pos(),
		FadeCount: e.fadeCount,
		FadeSwap:  e.fadeSwap,
		A:         e.snapshotSegment(&e.segA),
		B:         e.snapshotSegment(&e.segB),
	}
}

func (e *Engine) snapshotSegment(s *segment) SegmentState {
	return SegmentState{
		Active: s.active,
		Head:   s.head,
		Start:  s.start,
		Length: s.length,
		Played: s.played,
	}
}
