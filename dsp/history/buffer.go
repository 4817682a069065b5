// Package history provides the circular capture buffer that reverse-playback
// readers consume.
//
// A Buffer records incoming samples at a single forward-moving write cursor
// while independent readers walk stored indices backward. Readers keep their
// own pre-wrapped positions via WrapDec, so reads never compute a modulo.
package history

import "fmt"

// Buffer is a fixed-capacity circular sample store with one write cursor.
//
// Store and Advance are split so a caller can interleave bookkeeping between
// writing the current sample and moving the cursor; Write combines both for
// callers without that need.
type Buffer struct {
	data   []float64
	cursor int
}

// New returns a buffer holding capacity samples, all zero.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("history capacity must be > 0: %d", capacity)
	}
	return &Buffer{data: make([]float64, capacity)}, nil
}

// Capacity returns the fixed buffer size in samples.
func (b *Buffer) Capacity() int {
	return len(b.data)
}

// Cursor returns the index the next Store will write to.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Store writes one sample at the cursor without moving it.
func (b *Buffer) Store(sample float64) {
	b.data[b.cursor] = sample
}

// Advance moves the cursor forward by one, wrapping at capacity.
func (b *Buffer) Advance() {
	b.cursor++
	if b.cursor >= len(b.data) {
		b.cursor = 0
	}
}

// Write stores one sample and advances the cursor.
func (b *Buffer) Write(sample float64) {
	b.Store(sample)
	b.Advance()
}

// At returns the sample at index. The index must already be wrapped into
// [0, capacity); readers maintain that invariant through WrapDec.
func (b *Buffer) At(index int) float64 {
	return b.data[index]
}

// WrapDec returns index moved one position backward, wrapping below zero.
func (b *Buffer) WrapDec(index int) int {
	if index == 0 {
		return len(b.data) - 1
	}
	return index - 1
}

// Reset zeroes all stored samples and rewinds the cursor.
func (b *Buffer) Reset() {
	for i := range b.data {
		b.data[i] = 0
	}
	b.cursor = 0
}
