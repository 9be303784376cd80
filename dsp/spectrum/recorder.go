package spectrum

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-stretch/dsp/stretch"
	"github.com/cwbudde/algo-stretch/dsp/window"
)

// Recorder accumulates an averaged magnitude spectrum from a stream of
// samples. It is built to sit on a [stretch.Stretcher] block hook and keep a
// running picture of the material passing through the engine, but Write
// accepts any sample stream.
//
// Frames of fftSize samples are Hann-windowed (periodic form) and
// transformed with algo-fft; magnitudes of the non-negative frequency bins
// are averaged over all complete frames. A trailing partial frame stays
// pending until enough samples arrive.
type Recorder struct {
	fftSize int
	win     []float64
	plan    *algofft.Plan[complex128]

	input  []complex128
	output []complex128
	acc    []float64
	blocks int
	fill   []float64
	err    error
}

// NewRecorder creates a Recorder with the given analysis frame size.
func NewRecorder(fftSize int) (*Recorder, error) {
	if fftSize <= 0 {
		return nil, fmt.Errorf("spectrum: fft size must be > 0: %d", fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: create fft plan: %w", err)
	}

	return &Recorder{
		fftSize: fftSize,
		win:     window.Generate(window.TypeHann, fftSize, window.WithPeriodic()),
		plan:    plan,
		input:   make([]complex128, fftSize),
		output:  make([]complex128, fftSize),
		acc:     make([]float64, fftSize/2+1),
		fill:    make([]float64, 0, fftSize),
	}, nil
}

// FFTSize returns the analysis frame size.
func (r *Recorder) FFTSize() int { return r.fftSize }

// Blocks returns the number of complete frames analyzed so far.
func (r *Recorder) Blocks() int { return r.blocks }

// Err returns the first transform error encountered, if any. Frames after a
// transform failure are dropped.
func (r *Recorder) Err() error { return r.err }

// Hook returns a block hook that feeds channel 0 of every chunk into the
// recorder. Pass it to [stretch.WithBlockHook].
func (r *Recorder) Hook() stretch.ProcessFunc {
	return func(chunk [][]float64) {
		if len(chunk) == 0 {
			return
		}

		r.Write(chunk[0])
	}
}

// Write appends samples to the pending frame, analyzing each frame that
// completes.
func (r *Recorder) Write(samples []float64) {
	for len(samples) > 0 {
		take := min(r.fftSize-len(r.fill), len(samples))
		r.fill = append(r.fill, samples[:take]...)
		samples = samples[take:]

		if len(r.fill) == r.fftSize {
			r.analyze(r.fill)
			r.fill = r.fill[:0]
		}
	}
}

// Magnitudes returns the averaged magnitude spectrum over all analyzed
// frames: fftSize/2+1 bins from DC to Nyquist. It returns nil before the
// first complete frame.
func (r *Recorder) Magnitudes() []float64 {
	if r.blocks == 0 {
		return nil
	}

	out := make([]float64, len(r.acc))
	for i, v := range r.acc {
		out[i] = v / float64(r.blocks)
	}

	return out
}

// Reset clears all accumulated state, including any pending partial frame.
func (r *Recorder) Reset() {
	for i := range r.acc {
		r.acc[i] = 0
	}

	r.blocks = 0
	r.fill = r.fill[:0]
	r.err = nil
}

func (r *Recorder) analyze(frame []float64) {
	if r.err != nil {
		return
	}

	for i, v := range frame {
		r.input[i] = complex(v*r.win[i], 0)
	}

	if err := r.plan.Forward(r.output, r.input); err != nil {
		r.err = fmt.Errorf("spectrum: forward fft: %w", err)
		return
	}

	mags := Magnitude(r.output[:len(r.acc)])
	for i, m := range mags {
		r.acc[i] += m
	}

	r.blocks++
}
