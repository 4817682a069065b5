// Command reversedelay-live runs the reverse-playback delay between the
// default capture and playback devices in real time.
//
// The engine runs inside the audio callback; every control path (flags,
// keyboard, watched parameter file) writes the same atomic control block.
//
// Usage:
//
//	reversedelay-live [flags]
//
// Keys:
//
//	[ / ]   delay time down/up
//	- / =   wet mix down/up
//	; / '   feedback down/up
//	p       print current controls
//	q       quit
//
// Examples:
//
//	reversedelay-live
//	reversedelay-live -time 0.5 -fade 0.1 -mix 0.7
//	reversedelay-live -params params.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/gordonklaus/portaudio"
	"golang.org/x/term"

	"github.com/cwbudde/algo-reversedelay/dsp/core"
	"github.com/cwbudde/algo-reversedelay/dsp/reversedelay"
)

// Control increments per keypress.
const (
	timeStep     = 0.02
	mixStep      = 0.05
	feedbackStep = 0.05
)

func main() {
	var (
		delay    = flag.Float64("time", reversedelay.DefaultDelaySeconds, "delay time in seconds")
		mix      = flag.Float64("mix", reversedelay.DefaultMix, "wet mix in [0, 1]")
		feedback = flag.Float64("feedback", reversedelay.DefaultFeedback, "feedback in [0, 0.99]")
		fade     = flag.Float64("fade", reversedelay.DefaultFadeSeconds, "crossfade window in seconds")
		smooth   = flag.Float64("smooth", 0.0035, "delay-time smoothing coefficient in [0, 1)")
		rate     = flag.Float64("samplerate", 48000, "stream sample rate in Hz")
		frames   = flag.Int("frames", 256, "frames per audio buffer")
		params   = flag.String("params", "", "JSON parameter file to watch (fields time, mix, feedback)")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected arguments: %v\n", flag.Args())
		os.Exit(1)
	}
	if *frames <= 0 {
		fmt.Fprintf(os.Stderr, "error: frames per buffer must be > 0: %d\n", *frames)
		os.Exit(1)
	}

	controls := reversedelay.NewControls()
	if err := controls.SetDelayTime(*delay); err != nil {
		fail(err)
	}
	if err := controls.SetMix(*mix); err != nil {
		fail(err)
	}
	if err := controls.SetFeedback(*feedback); err != nil {
		fail(err)
	}

	engine, err := reversedelay.New(*rate,
		reversedelay.WithFadeSeconds(*fade),
		reversedelay.WithTimeSmoothing(*smooth),
		reversedelay.WithControls(controls),
	)
	if err != nil {
		fail(err)
	}

	if err := run(engine, controls, *rate, *frames, *params); err != nil {
		fail(err)
	}
}

func run(engine *reversedelay.Engine, controls *reversedelay.Controls,
	rate float64, frames int, paramsPath string) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	defer portaudio.Terminate()

	fmt.Println(portaudio.VersionText())
	if dev, err := portaudio.DefaultInputDevice(); err == nil {
		fmt.Printf("input:  %s\n", dev.Name)
	}
	if dev, err := portaudio.DefaultOutputDevice(); err == nil {
		fmt.Printf("output: %s\n", dev.Name)
	}

	stream, err := portaudio.OpenDefaultStream(1, 1, rate, frames,
		func(in, out []float32) {
			for i := range out {
				out[i] = float32(engine.ProcessSample(float64(in[i])))
			}
		})
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}

	if paramsPath != "" {
		watcher, err := watchParams(paramsPath, controls)
		if err != nil {
			return fmt.Errorf("watch %s: %w", paramsPath, err)
		}
		defer watcher.Close()
	}

	fd := int(os.Stdin.Fd())
	interactive := term.IsTerminal(fd)

	var keys chan byte
	if interactive {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("raw terminal: %w", err)
		}
		defer term.Restore(fd, oldState)

		keys = make(chan byte, 8)
		go func() {
			buf := make([]byte, 1)
			for {
				n, err := os.Stdin.Read(buf)
				if err != nil {
					close(keys)
					return
				}
				if n > 0 {
					keys <- buf[0]
				}
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	printHelp()
	printControls(controls)

	// stop drains the callback, so the snapshot below is quiescent
	stop := func() error {
		if err := stream.Stop(); err != nil {
			return fmt.Errorf("stop stream: %w", err)
		}
		fmt.Printf("\r\nengine: %s\r\n", engine.State())
		return nil
	}

	for {
		select {
		case b, ok := <-keys:
			if !ok {
				return stop()
			}
			if quit := handleKey(b, engine, controls); quit {
				return stop()
			}
		case <-sig:
			return stop()
		}
	}
}

// handleKey adjusts the shared controls and reports whether to quit.
func handleKey(b byte, engine *reversedelay.Engine, controls *reversedelay.Controls) bool {
	switch b {
	case 'q', 'Q', 0x03, 0x04: // q, Ctrl-C, Ctrl-D
		return true
	case '[':
		storeTime(engine, controls, controls.DelayTime()-timeStep)
	case ']':
		storeTime(engine, controls, controls.DelayTime()+timeStep)
	case '-':
		storeMix(controls, controls.Mix()-mixStep)
	case '=':
		storeMix(controls, controls.Mix()+mixStep)
	case ';':
		storeFeedback(controls, controls.Feedback()-feedbackStep)
	case '\'':
		storeFeedback(controls, controls.Feedback()+feedbackStep)
	case 'p':
		printControls(controls)
	case 'h', '?':
		printHelp()
	}
	return false
}

// storeTime clamps to the engine's delay window first so the printed value
// tracks what the scheduler will actually use.
func storeTime(engine *reversedelay.Engine, controls *reversedelay.Controls, seconds float64) {
	lo := float64(engine.MinDelaySamples()) / engine.SampleRate()
	hi := float64(engine.MaxDelaySamples()) / engine.SampleRate()
	if err := controls.SetDelayTime(core.Clamp(seconds, lo, hi)); err != nil {
		fmt.Printf("time: %v\r\n", err)
		return
	}
	printControls(controls)
}

func storeMix(controls *reversedelay.Controls, mix float64) {
	if err := controls.SetMix(core.Clamp(mix, 0, 1)); err != nil {
		fmt.Printf("mix: %v\r\n", err)
		return
	}
	printControls(controls)
}

func storeFeedback(controls *reversedelay.Controls, feedback float64) {
	if err := controls.SetFeedback(core.Clamp(feedback, 0, 0.99)); err != nil {
		fmt.Printf("feedback: %v\r\n", err)
		return
	}
	printControls(controls)
}

func printControls(c *reversedelay.Controls) {
	fmt.Printf("time %.3f s  mix %.2f  feedback %.2f\r\n",
		c.DelayTime(), c.Mix(), c.Feedback())
}

func printHelp() {
	fmt.Print("keys: [ ] time   - = mix   ; ' feedback   p controls   q quit\r\n")
}

// paramsFile is the watched JSON document. Pointer fields distinguish an
// absent key from an explicit zero.
type paramsFile struct {
	Time     *float64 `json:"time"`
	Mix      *float64 `json:"mix"`
	Feedback *float64 `json:"feedback"`
}

// applyParams loads path and stores every present field into the controls.
// A missing file is not an error; the watcher fires again once it appears.
func applyParams(path string, controls *reversedelay.Controls) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Printf("params: %v\r\n", err)
		}
		return
	}

	var p paramsFile
	if err := json.Unmarshal(data, &p); err != nil {
		fmt.Printf("params: %v\r\n", err)
		return
	}

	if p.Time != nil {
		if err := controls.SetDelayTime(*p.Time); err != nil {
			fmt.Printf("params: %v\r\n", err)
		}
	}
	if p.Mix != nil {
		if err := controls.SetMix(*p.Mix); err != nil {
			fmt.Printf("params: %v\r\n", err)
		}
	}
	if p.Feedback != nil {
		if err := controls.SetFeedback(*p.Feedback); err != nil {
			fmt.Printf("params: %v\r\n", err)
		}
	}

	printControls(controls)
}

// watchParams watches the file's directory so editors that replace the file
// on save keep triggering reloads, and applies the file once up front.
func watchParams(path string, controls *reversedelay.Controls) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	target := filepath.Clean(path)
	applyParams(target, controls)

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				applyParams(target, controls)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "params watch: %v\r\n", err)
			}
		}
	}()

	return watcher, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: reversedelay-live [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Runs the reverse-playback delay between the default capture and\n")
	fmt.Fprintf(os.Stderr, "playback devices. Controls adjust live from the keyboard or from a\n")
	fmt.Fprintf(os.Stderr, "watched JSON file.\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nKeys:\n")
	fmt.Fprintf(os.Stderr, "  [ ]  delay time    - =  wet mix    ; '  feedback\n")
	fmt.Fprintf(os.Stderr, "  p    print controls    q  quit\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  reversedelay-live -time 0.5 -fade 0.1 -mix 0.7\n")
	fmt.Fprintf(os.Stderr, "  reversedelay-live -params params.json\n")
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
