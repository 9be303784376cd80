// Package window generates analysis window coefficients for block-based
// processing. The symmetric Hann form is the workhorse here; it is what the
// overlap-add stretcher in dsp/stretch builds its crossfade from.
package window
