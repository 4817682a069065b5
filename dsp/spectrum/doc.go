// Package spectrum turns complex FFT output into real-valued measures.
//
// FFT computation itself lives in external backends; this package unpacks
// their complex bins into magnitudes for frame analysis and carries a
// Goertzel analyzer for measuring a single tone without a full transform.
package spectrum
