// Package reversedelay implements a real-time reverse-playback delay effect.
//
// The engine continuously records its input into a circular history buffer
// and plays slices of that history backward. Two backward-reading segments
// alternate: while one plays, the scheduler arms a handoff on its progress
// and starts the other segment shortly before expiry, crossfading between
// them so the reversed stream never stops or clicks at a splice. The output
// is the dry input plus the crossfaded wet signal scaled by the mix control.
//
// Processing is single-sample and sample-synchronous. The per-sample path
// performs no allocation, locking, or blocking, so ProcessSample may run
// inside an audio callback. All engine state is owned by that processing
// context; the only values shared across goroutines are the three runtime
// parameters (delay time, mix, feedback), which live in a Controls block of
// single-word atomics and are read once per sample.
//
// Structural parameters (buffer length, fade window, time smoothing) are
// fixed at construction through options and validated there; invalid
// configuration fails New. Runtime parameters are validated by their
// setters and clamped into the engine's delay window at the per-sample
// acceptance point, so a segment is never started with a length the buffer
// cannot honor.
package reversedelay
