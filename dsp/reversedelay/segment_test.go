package reversedelay

import (
	"testing"

	"github.com/cwbudde/algo-reversedelay/dsp/history"
)

func newFilledHistory(t *testing.T, values ...float64) *history.Buffer {
	t.Helper()
	buf, err := history.New(len(values))
	if err != nil {
		t.Fatalf("history.New() error = %v", err)
	}
	for _, v := range values {
		buf.Write(v)
	}
	return buf
}

func TestSegmentStepsBackward(t *testing.T) {
	buf := newFilledHistory(t, 1, 2, 3, 4, 5)

	var s segment
	s.startAt(4, 3)

	want := []float64{5, 4, 3}
	for i, w := range want {
		if s.expired() {
			t.Fatalf("expired() = true before step %d", i)
		}
		if got := s.step(buf); got != w {
			t.Fatalf("step %d = %v, want %v", i, got, w)
		}
	}

	if !s.expired() {
		t.Fatalf("expired() = false after %d steps", len(want))
	}
	if s.played != 3 {
		t.Fatalf("played = %d, want 3", s.played)
	}
}

func TestSegmentWrapsBelowZero(t *testing.T) {
	buf := newFilledHistory(t, 10, 20, 30, 40, 50)

	var s segment
	s.startAt(1, 4)

	// Backward from index 1 wraps to the top of the buffer.
	want := []float64{20, 10, 50, 40}
	for i, w := range want {
		if got := s.step(buf); got != w {
			t.Fatalf("step %d = %v, want %v", i, got, w)
		}
	}

	if s.head < 0 || s.head >= buf.Capacity() {
		t.Fatalf("head = %d out of range [0, %d)", s.head, buf.Capacity())
	}
}

func TestSegmentStartResetsProgress(t *testing.T) {
	buf := newFilledHistory(t, 1, 2, 3, 4)

	var s segment
	s.startAt(3, 2)
	s.step(buf)
	s.step(buf)

	if !s.expired() {
		t.Fatal("expired() = false after playing out")
	}

	s.startAt(2, 4)
	if s.played != 0 || !s.active || s.head != 2 || s.start != 2 || s.length != 4 {
		t.Fatalf("unexpected state after restart: %+v", s)
	}
}

func TestSegmentDeactivate(t *testing.T) {
	var s segment
	s.startAt(0, 8)
	s.deactivate()

	if s.active {
		t.Fatal("active = true after deactivate")
	}

	// Deactivating an idle segment is harmless.
	s.deactivate()
	if s.active {
		t.Fatal("active = true after second deactivate")
	}
}
