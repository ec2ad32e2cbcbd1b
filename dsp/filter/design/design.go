package design

import (
	"math"

	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
)

// warp holds the bilinear-transform terms shared by the RBJ designers.
type warp struct {
	cos, alpha float64
}

// newWarp returns the terms for a section at freq Hz, or false when freq is
// not strictly between 0 and Nyquist.
func newWarp(freq, q, sampleRate float64) (warp, bool) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return warp{}, false
	}

	if !(freq > 0 && freq < sampleRate/2) {
		return warp{}, false
	}

	if !(q > 0) || math.IsInf(q, 0) {
		q = 1 / math.Sqrt2
	}

	w0 := 2 * math.Pi * freq / sampleRate

	return warp{cos: math.Cos(w0), alpha: math.Sin(w0) / (2 * q)}, true
}

// normalized divides through by a0 so the section runs with a unit leading
// denominator term.
func (w warp) normalized(b0, b1, b2 float64) biquad.Coefficients {
	a0 := 1 + w.alpha

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: -2 * w.cos / a0,
		A2: (1 - w.alpha) / a0,
	}
}

// Lowpass designs an RBJ lowpass section. A non-positive q means
// Butterworth (1/sqrt 2). Invalid frequencies give zero coefficients.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	w, ok := newWarp(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	side := (1 - w.cos) / 2

	return w.normalized(side, 2*side, side)
}

// Highpass designs an RBJ highpass section.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	w, ok := newWarp(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	side := (1 + w.cos) / 2

	return w.normalized(side, -2*side, side)
}
