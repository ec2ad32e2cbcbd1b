package biquad

import (
	"math"
	"math/cmplx"
)

// Coefficients holds the transfer function coefficients for a single
// second-order section. a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + z1
//	z1 = B1*x - A1*y + z2
//	z2 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Section runs one set of Coefficients over a two-element state.
type Section struct {
	Coefficients

	z1, z2 float64
}

// NewSection returns a silent Section.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// step advances the transposed direct form by one sample.
func (c *Coefficients) step(x float64, z1, z2 *float64) float64 {
	y := c.B0*x + *z1
	*z1 = c.B1*x - c.A1*y + *z2
	*z2 = c.B2*x - c.A2*y

	return y
}

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float64) float64 {
	return s.step(x, &s.z1, &s.z2)
}

// ProcessBlock filters buf in place. State that decays into the denormal
// range is flushed at the end of the block.
func (s *Section) ProcessBlock(buf []float64) {
	c := s.Coefficients
	z1, z2 := s.z1, s.z2

	for i, x := range buf {
		buf[i] = c.step(x, &z1, &z2)
	}

	s.z1, s.z2 = flush(z1), flush(z2)
}

// Reset silences the section.
func (s *Section) Reset() { s.z1, s.z2 = 0, 0 }

// State returns the two state variables.
func (s *Section) State() [2]float64 { return [2]float64{s.z1, s.z2} }

// Response returns H(e^jw) at freqHz: the numerator and denominator
// polynomials evaluated on the unit circle.
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	z1 := cmplx.Rect(1, -2*math.Pi*freqHz/sampleRate)
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2

	return num / den
}

// MagnitudeDB returns the section gain in dB at freqHz.
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

func flush(x float64) float64 {
	if math.Abs(x) < 1e-30 {
		return 0
	}

	return x
}
