// Command reversedelay applies the reverse-playback delay effect to an audio
// file or a synthesized test signal and writes the result as 16-bit mono WAV.
//
// Usage:
//
//	reversedelay [flags]
//
// Input comes from -in (WAV or MP3, downmixed to mono) or from the -tone
// generator. The processed result can be written with -out, auditioned with
// -play, and inspected with -analyze.
//
// Examples:
//
//	reversedelay -in guitar.wav -out reversed.wav
//	reversedelay -in take.mp3 -time 0.4 -feedback 0.3 -out take-rev.wav
//	reversedelay -tone -seconds 4 -analyze
//	reversedelay -in riff.wav -time 0.5 -fade 0.1 -play
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-reversedelay/dsp/core"
	"github.com/cwbudde/algo-reversedelay/dsp/reversedelay"
	"github.com/cwbudde/algo-reversedelay/dsp/signal"
	"github.com/cwbudde/algo-reversedelay/dsp/spectrum"
	"github.com/cwbudde/algo-reversedelay/dsp/window"
	"github.com/cwbudde/algo-reversedelay/internal/audiofile"
	"github.com/cwbudde/algo-reversedelay/measure/click"
	frequencystats "github.com/cwbudde/algo-reversedelay/stats/frequency"
	timestats "github.com/cwbudde/algo-reversedelay/stats/time"
)

const (
	// clipGuardPeak is the target the output is normalized to when the
	// wet+dry sum exceeds full scale.
	clipGuardPeak = 0.999

	// maxClickRows caps the splice table in the -analyze report.
	maxClickRows = 10
)

func main() {
	var (
		inPath  = flag.String("in", "", "input audio file (.wav or .mp3), downmixed to mono")
		outPath = flag.String("out", "", "output WAV file (16-bit mono)")
		tone    = flag.Bool("tone", false, "synthesize tone bursts instead of reading -in")
		toneHz  = flag.Float64("freq", 440, "tone burst frequency in Hz (with -tone)")
		rate    = flag.Float64("rate", 48000, "tone sample rate in Hz (with -tone)")
		seconds = flag.Float64("seconds", 4, "tone length in seconds (with -tone)")

		delay    = flag.Float64("time", reversedelay.DefaultDelaySeconds, "delay time in seconds")
		mix      = flag.Float64("mix", reversedelay.DefaultMix, "wet mix in [0, 1]")
		feedback = flag.Float64("feedback", reversedelay.DefaultFeedback, "feedback in [0, 0.99]")
		fade     = flag.Float64("fade", reversedelay.DefaultFadeSeconds, "crossfade window in seconds")
		smooth   = flag.Float64("smooth", 0, "delay-time smoothing coefficient in [0, 1), 0 = off")

		analyze = flag.Bool("analyze", false, "print a level, spectrum, and splice report for the output")
		play    = flag.Bool("play", false, "audition the processed output")
		verbose = flag.Bool("verbose", false, "print the final engine state")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected arguments: %v\n", flag.Args())
		os.Exit(1)
	}
	if (*inPath != "") == *tone {
		fmt.Fprintf(os.Stderr, "error: give exactly one input: -in file or -tone\n")
		os.Exit(1)
	}
	if *outPath == "" && !*analyze && !*play && !*verbose {
		fmt.Fprintf(os.Stderr, "error: nothing to do: give -out, -analyze, -play, or -verbose\n")
		os.Exit(1)
	}

	var (
		input      []float64
		sampleRate float64
	)
	if *tone {
		in, err := toneInput(*rate, *seconds, *toneHz)
		if err != nil {
			fail(err)
		}
		input = in
		sampleRate = *rate
	} else {
		in, fileRate, err := audiofile.ReadAudio(*inPath)
		if err != nil {
			fail(err)
		}
		if len(in) == 0 {
			fail(fmt.Errorf("%s: no audio frames", *inPath))
		}
		input = in
		sampleRate = float64(fileRate)
	}

	engine, err := reversedelay.New(sampleRate,
		reversedelay.WithFadeSeconds(*fade),
		reversedelay.WithTimeSmoothing(*smooth),
	)
	if err != nil {
		fail(err)
	}
	if err := engine.SetTime(*delay); err != nil {
		fail(err)
	}
	if err := engine.SetMix(*mix); err != nil {
		fail(err)
	}
	if err := engine.SetFeedback(*feedback); err != nil {
		fail(err)
	}

	cfg := core.ApplyProcessorOptions(core.WithSampleRate(sampleRate))
	output := make([]float64, len(input))
	copy(output, input)

	levels := timestats.NewStreamingStats()
	for start := 0; start < len(output); start += cfg.BlockSize {
		end := start + cfg.BlockSize
		if end > len(output) {
			end = len(output)
		}
		engine.ProcessInPlace(output[start:end])
		levels.Update(output[start:end])
	}
	result := levels.Result()

	if result.Peak > 1 {
		normalized, err := signal.Normalize(output, clipGuardPeak)
		if err != nil {
			fail(err)
		}
		output = normalized
		fmt.Fprintf(os.Stderr, "note: peak %.3f exceeds full scale, normalized to %.3f\n",
			result.Peak, clipGuardPeak)

		levels.Reset()
		levels.Update(output)
		result = levels.Result()
	}

	if *outPath != "" {
		if err := audiofile.WriteWAV(*outPath, output, int(math.Round(sampleRate))); err != nil {
			fail(err)
		}
		fmt.Printf("wrote %s: %d samples at %.0f Hz\n", *outPath, len(output), sampleRate)
	}

	if *analyze {
		if err := printReport(os.Stdout, input, output, result, sampleRate, *toneHz, *tone); err != nil {
			fail(err)
		}
	}

	if *verbose {
		fmt.Printf("engine: %s\n", engine.State())
	}

	if *play {
		fmt.Printf("playing %.2f s...\n", float64(len(output))/sampleRate)
		if err := playSamples(output, sampleRate); err != nil {
			fail(err)
		}
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: reversedelay [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Applies the reverse-playback delay to an audio file or a test tone.\n")
	fmt.Fprintf(os.Stderr, "Input is -in file.wav|file.mp3 (downmixed to mono) or -tone.\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  reversedelay -in guitar.wav -out reversed.wav\n")
	fmt.Fprintf(os.Stderr, "  reversedelay -in take.mp3 -time 0.4 -feedback 0.3 -out take-rev.wav\n")
	fmt.Fprintf(os.Stderr, "  reversedelay -tone -seconds 4 -analyze\n")
	fmt.Fprintf(os.Stderr, "  reversedelay -in riff.wav -time 0.5 -fade 0.1 -play\n")
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// toneInput synthesizes Hann-edged tone bursts separated by silent gaps, a
// signal whose reversal is easy to hear and inspect.
func toneInput(sampleRate, seconds, freqHz float64) ([]float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("tone sample rate must be > 0: %v", sampleRate)
	}
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return nil, fmt.Errorf("tone seconds must be > 0: %v", seconds)
	}

	g := signal.NewGenerator(core.WithSampleRate(sampleRate))

	total := int(math.Round(seconds * sampleRate))
	burstLen := int(math.Round(0.5 * sampleRate))
	gapLen := burstLen / 2
	edge := int(math.Round(0.01 * sampleRate))

	out := make([]float64, 0, total)
	for len(out) < total {
		n := burstLen
		if remaining := total - len(out); n > remaining {
			n = remaining
		}
		if n <= 2*edge {
			out = append(out, make([]float64, n)...)
			continue
		}

		burst, err := g.ToneBurst(freqHz, 0.8, n, edge)
		if err != nil {
			return nil, err
		}
		out = append(out, burst...)

		if remaining := total - len(out); remaining > 0 {
			pad := gapLen
			if pad > remaining {
				pad = remaining
			}
			out = append(out, make([]float64, pad)...)
		}
	}

	return out, nil
}

func printReport(w io.Writer, input, output []float64, levels timestats.Stats,
	sampleRate, toneHz float64, isTone bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Metric\tValue\n")
	fmt.Fprintf(tw, "------\t-----\n")
	fmt.Fprintf(tw, "Samples\t%d (%.2f s at %.0f Hz)\n",
		levels.Length, float64(levels.Length)/sampleRate, sampleRate)
	fmt.Fprintf(tw, "Peak\t%.4f (%.2f dBFS)\n", levels.Peak, levels.Peak_dB)
	fmt.Fprintf(tw, "RMS\t%.4f (%.2f dBFS)\n", levels.RMS, levels.RMS_dB)
	fmt.Fprintf(tw, "Crest factor\t%.2f dB\n", levels.CrestFactor_dB)
	fmt.Fprintf(tw, "DC offset\t%.6f\n", levels.DC)
	fmt.Fprintf(tw, "Zero crossings\t%d\n", levels.ZeroCrossings)
	fmt.Fprintf(tw, "Max sample step\t%.4f\n", click.MaxSampleStep(output))

	spec, ok, err := spectralSummary(output, sampleRate)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(tw, "Spectral peak\t%.1f Hz\n", spec.PeakFreq)
		fmt.Fprintf(tw, "Spectral centroid\t%.1f Hz\n", spec.Centroid)
		fmt.Fprintf(tw, "Spectral rolloff\t%.1f Hz\n", spec.Rolloff)
		fmt.Fprintf(tw, "Spectral flatness\t%.3f\n", spec.Flatness)
	}

	if isTone {
		inLevel, err := spectrum.ToneAmplitude(input, toneHz, sampleRate)
		if err != nil {
			return err
		}
		outLevel, err := spectrum.ToneAmplitude(output, toneHz, sampleRate)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "Carrier level in\t%.4f\n", inLevel)
		fmt.Fprintf(tw, "Carrier level out\t%.4f\n", outLevel)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	events, err := click.Analyze(output, click.Config{SampleRate: sampleRate})
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(w, "\nsplices: no clicks detected")
		return nil
	}

	fmt.Fprintf(w, "\nsplices: %d click(s) detected\n", len(events))
	etw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(etw, "Sample\tTime [s]\tFlux\n")
	for i, ev := range events {
		if i == maxClickRows {
			fmt.Fprintf(etw, "(%d more)\t\t\n", len(events)-maxClickRows)
			break
		}
		fmt.Fprintf(etw, "%d\t%.3f\t%.3f\n", ev.Index, ev.Time, ev.Flux)
	}

	return etw.Flush()
}

// spectralSummary reports shape descriptors for a Hann-windowed frame taken
// from the middle of the rendered output. Inputs shorter than the minimum
// frame are skipped rather than padded.
func spectralSummary(samples []float64, sampleRate float64) (frequencystats.Stats, bool, error) {
	const (
		minFFTSize = 64
		maxFFTSize = 8192
	)
	if len(samples) < minFFTSize {
		return frequencystats.Stats{}, false, nil
	}

	fftSize := minFFTSize
	for fftSize*2 <= len(samples) && fftSize*2 <= maxFFTSize {
		fftSize *= 2
	}

	start := (len(samples) - fftSize) / 2
	frame := make([]float64, fftSize)
	copy(frame, samples[start:start+fftSize])
	window.Apply(window.TypeHann, frame)

	in := make([]complex128, fftSize)
	for i, v := range frame {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return frequencystats.Stats{}, false, fmt.Errorf("spectral summary: %w", err)
	}
	spec := make([]complex128, fftSize)
	if err := plan.Forward(spec, in); err != nil {
		return frequencystats.Stats{}, false, fmt.Errorf("spectral summary: %w", err)
	}

	mag := spectrum.Magnitude(spec[:fftSize/2+1])

	return frequencystats.Calculate(mag, sampleRate), true, nil
}
