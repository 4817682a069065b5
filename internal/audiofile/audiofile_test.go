package audiofile

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-reversedelay/internal/testutil"
)

// 16-bit quantization plus the 32767/32768 encode/decode asymmetry.
const quantEps = 2.0 / 32768

func TestWriteReadWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sine.wav")
	want := testutil.DeterministicSine(440, 48000, 0.5, 4800)

	if err := WriteWAV(path, want, 48000); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}

	got, rate, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV() error = %v", err)
	}
	if rate != 48000 {
		t.Fatalf("ReadWAV() rate = %d, want 48000", rate)
	}
	testutil.RequireFinite(t, got)
	testutil.RequireSliceNearlyEqual(t, got, want, quantEps)
}

func TestWriteReadWAVRoundTripNoise(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.wav")
	want := testutil.DeterministicNoise(7, 0.8, 9600)

	if err := WriteWAV(path, want, 44100); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}

	got, rate, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV() error = %v", err)
	}
	if rate != 44100 {
		t.Fatalf("ReadWAV() rate = %d, want 44100", rate)
	}

	diff, err := testutil.MaxAbsDiff(got, want)
	if err != nil {
		t.Fatalf("MaxAbsDiff() error = %v", err)
	}
	if diff > quantEps {
		t.Fatalf("round-trip max error = %v, want <= %v", diff, quantEps)
	}
}

func TestReadWAVDownmixesStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("os.Create() error = %v", err)
	}
	enc := wav.NewEncoder(f, 48000, 16, 2, 1)
	const frames = 480
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 48000},
		Data:           make([]int, 2*frames),
		SourceBitDepth: 16,
	}
	for i := range frames {
		buf.Data[2*i] = 16384
		buf.Data[2*i+1] = -8192
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file Close() error = %v", err)
	}

	got, rate, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV() error = %v", err)
	}
	if rate != 48000 {
		t.Fatalf("ReadWAV() rate = %d, want 48000", rate)
	}
	if len(got) != frames {
		t.Fatalf("ReadWAV() frames = %d, want %d", len(got), frames)
	}
	// (16384 - 8192) / 2 / 32768
	for i, v := range got {
		if math.Abs(v-0.125) > 1e-12 {
			t.Fatalf("frame %d = %v, want 0.125", i, v)
		}
	}
}

func TestWriteWAVClampsOverRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	in := []float64{2.0, -2.0, 0.0}

	if err := WriteWAV(path, in, 48000); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}

	got, _, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV() error = %v", err)
	}
	full := 32767.0 / 32768.0
	want := []float64{full, -full, 0}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestWriteWAVRejectsBadRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := WriteWAV(path, []float64{0}, 0); err == nil {
		t.Fatal("WriteWAV() expected error for zero sample rate")
	}
}

func TestReadAudioUnsupportedExtension(t *testing.T) {
	if _, _, err := ReadAudio("input.flac"); err == nil {
		t.Fatal("ReadAudio() expected error for unsupported extension")
	}
}

func TestReadWAVMissingFile(t *testing.T) {
	if _, _, err := ReadWAV(filepath.Join(t.TempDir(), "absent.wav")); err == nil {
		t.Fatal("ReadWAV() expected error for missing file")
	}
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("not a riff container"), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}
	if _, _, err := ReadWAV(path); err == nil {
		t.Fatal("ReadWAV() expected error for non-WAV payload")
	}
}
