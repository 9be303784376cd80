package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-stretch/dsp/stretch"
)

func TestNewRecorderValidation(t *testing.T) {
	for _, size := range []int{0, -16} {
		if _, err := NewRecorder(size); err == nil {
			t.Fatalf("NewRecorder(%d) succeeded, want error", size)
		}
	}
}

func TestMagnitude(t *testing.T) {
	in := []complex128{3 + 4i, 0, -1}

	got := Magnitude(in)
	want := []float64{5, 0, 1}

	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("bin %d = %v, want %v", i, got[i], want[i])
		}
	}

	if Magnitude(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestRecorderFindsSinusoidBin(t *testing.T) {
	const (
		fftSize = 64
		bin     = 8
		frames  = 8
	)

	r, err := NewRecorder(fftSize)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	samples := make([]float64, fftSize*frames)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * bin * float64(i) / fftSize)
	}

	// Odd-sized writes exercise the pending-frame path.
	for len(samples) > 0 {
		n := min(13, len(samples))
		r.Write(samples[:n])
		samples = samples[n:]
	}

	if r.Err() != nil {
		t.Fatalf("recorder error: %v", r.Err())
	}

	if r.Blocks() != frames {
		t.Fatalf("blocks = %d, want %d", r.Blocks(), frames)
	}

	mags := r.Magnitudes()
	if len(mags) != fftSize/2+1 {
		t.Fatalf("len(mags) = %d, want %d", len(mags), fftSize/2+1)
	}

	peak := 0
	for i := range mags {
		if mags[i] > mags[peak] {
			peak = i
		}
	}

	if peak != bin {
		t.Fatalf("peak at bin %d, want %d", peak, bin)
	}
}

func TestRecorderPendingFrame(t *testing.T) {
	r, err := NewRecorder(32)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	r.Write(make([]float64, 31))

	if r.Blocks() != 0 {
		t.Fatalf("blocks = %d before a full frame", r.Blocks())
	}

	if r.Magnitudes() != nil {
		t.Fatal("expected nil magnitudes before a full frame")
	}

	r.Write(make([]float64, 1))

	if r.Blocks() != 1 {
		t.Fatalf("blocks = %d after completing the frame, want 1", r.Blocks())
	}
}

func TestRecorderReset(t *testing.T) {
	r, err := NewRecorder(16)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	r.Write(make([]float64, 40))
	r.Reset()

	if r.Blocks() != 0 || r.Magnitudes() != nil {
		t.Fatal("Reset left accumulated state behind")
	}

	// The pending partial frame must be gone too.
	r.Write(make([]float64, 15))
	if r.Blocks() != 0 {
		t.Fatal("Reset kept a pending partial frame")
	}
}

func TestRecorderAsStretcherHook(t *testing.T) {
	src, err := stretch.NewFuncSource(1, func(ch, i int) float64 {
		return math.Sin(2 * math.Pi * float64(i) / 32)
	})
	if err != nil {
		t.Fatalf("NewFuncSource: %v", err)
	}

	r, err := NewRecorder(64)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	s, err := stretch.New(src, 128, 1, stretch.WithBlockHook(r.Hook()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := s.Pull(1024); err != nil {
		t.Fatalf("Pull: %v", err)
	}

	if r.Blocks() == 0 {
		t.Fatal("hook never completed a frame")
	}

	if r.Err() != nil {
		t.Fatalf("recorder error: %v", r.Err())
	}
}
