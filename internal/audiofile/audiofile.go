// Package audiofile reads and writes the audio file formats the command-line
// front-ends accept: 16/24/32-bit PCM WAV and MP3. Decoded audio is downmixed
// to mono float64 in [-1, 1].
package audiofile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// ReadAudio decodes path based on its extension.
func ReadAudio(path string) ([]float64, int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return ReadWAV(path)
	case ".mp3":
		return ReadMP3(path)
	default:
		return nil, 0, fmt.Errorf("unsupported audio format: %s", path)
	}
}

// ReadWAV decodes a WAV file to mono samples and returns the sample rate.
// Multi-channel audio is downmixed by averaging.
func ReadWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read wav: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("read wav %s: not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("read wav %s: %w", path, err)
	}

	bitDepth := int(decoder.SampleBitDepth())
	if bitDepth == 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth == 0 {
		return nil, 0, fmt.Errorf("read wav %s: unknown bit depth", path)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return nil, 0, fmt.Errorf("read wav %s: no channels", path)
	}

	scale := math.Pow(2, float64(bitDepth-1))
	frames := len(buf.Data) / channels
	out := make([]float64, frames)
	for i := range out {
		sum := 0.0
		for ch := range channels {
			sum += float64(buf.Data[i*channels+ch])
		}
		out[i] = sum / float64(channels) / scale
	}

	return out, buf.Format.SampleRate, nil
}

// ReadMP3 decodes an MP3 file to mono samples and returns the sample rate.
// The decoder always produces 16-bit stereo; the two channels are averaged.
func ReadMP3(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read mp3: %w", err)
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, fmt.Errorf("read mp3 %s: %w", path, err)
	}

	var out []float64
	if n := decoder.Length(); n > 0 {
		out = make([]float64, 0, n/4)
	}

	// Frames arrive as interleaved little-endian int16 left/right pairs.
	chunk := make([]byte, 4096)
	carry := 0
	for {
		n, err := decoder.Read(chunk[carry:])
		if n > 0 {
			n += carry
			for i := 0; i+4 <= n; i += 4 {
				l := int16(binary.LittleEndian.Uint16(chunk[i:]))
				r := int16(binary.LittleEndian.Uint16(chunk[i+2:]))
				out = append(out, (float64(l)+float64(r))/2/32768)
			}
			carry = n % 4
			copy(chunk, chunk[n-carry:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read mp3 %s: %w", path, err)
		}
	}

	return out, decoder.SampleRate(), nil
}

// WriteWAV encodes mono samples as 16-bit PCM. Samples are clamped to
// [-1, 1] before quantization.
func WriteWAV(path string, samples []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("write wav %s: sample rate must be > 0: %d", path, sampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write wav: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	intBuf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		intBuf.Data[i] = int(math.Round(s * 32767))
	}

	if err := enc.Write(intBuf); err != nil {
		f.Close()
		return fmt.Errorf("write wav %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("write wav %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write wav %s: %w", path, err)
	}

	return nil
}
