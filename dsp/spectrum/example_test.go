package spectrum_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/spectrum"
	"github.com/cwbudde/algo-stretch/dsp/stretch"
)

func ExampleRecorder_Hook() {
	src, _ := stretch.NewFuncSource(1, func(ch, i int) float64 {
		return math.Sin(2 * math.Pi * 8 * float64(i) / 64)
	})

	rec, _ := spectrum.NewRecorder(64)
	s, _ := stretch.New(src, 128, 1, stretch.WithBlockHook(rec.Hook()))

	_, _ = s.Pull(640)

	fmt.Printf("frames analyzed: %d\n", rec.Blocks())
	fmt.Printf("bins: %d\n", len(rec.Magnitudes()))
	// Output:
	// frames analyzed: 10
	// bins: 33
}
