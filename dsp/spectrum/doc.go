// Package spectrum provides FFT-based magnitude analysis for streams
// passing through the overlap-add engine. Its Recorder plugs into the
// stretcher's block hook to accumulate an averaged spectrum of the windowed
// material without altering the output.
package spectrum
