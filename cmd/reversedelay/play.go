package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

// sampleReader streams float64 samples as little-endian float32 frames, the
// format the playback context is opened with.
type sampleReader struct {
	samples []float64
	pos     int
}

func (r *sampleReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.samples) {
		return 0, io.EOF
	}

	n := 0
	for n+4 <= len(p) && r.pos < len(r.samples) {
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(float32(r.samples[r.pos])))
		n += 4
		r.pos++
	}

	return n, nil
}

// playSamples sends the buffer to the default output device and blocks until
// playback drains.
func playSamples(samples []float64, sampleRate float64) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(math.Round(sampleRate)),
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("audio context: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(&sampleReader{samples: samples})
	player.Play()
	for player.IsPlaying() {
		time.Sleep(20 * time.Millisecond)
	}

	return player.Close()
}
