// Package click detects click-like discontinuities in rendered audio.
//
// The detector frames the input with a periodic Hann window, transforms each
// frame, and tracks normalized spectral flux between successive magnitude
// spectra. A splice or dropout spreads energy across the spectrum within one
// hop, so its frame shows magnitude growth far above the steady-signal
// baseline. Time-domain checks are covered by MaxSampleStep, which bounds
// the largest adjacent-sample jump.
//
// # Usage
//
//	detector, err := click.NewDetector(click.Config{SampleRate: 48000})
//	events, err := detector.Detect(rendered)
//	for _, ev := range events {
//		fmt.Printf("click at %.3f s (flux %.2f)\n", ev.Time, ev.Flux)
//	}
package click
