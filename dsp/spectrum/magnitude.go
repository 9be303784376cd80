package spectrum

import "github.com/cwbudde/algo-vecmath"

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// Real and imaginary parts are unpacked into separate slices so the
// SIMD-optimized vecmath kernel can do the square-root work.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re := make([]float64, len(in))
	im := make([]float64, len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)

	return out
}
