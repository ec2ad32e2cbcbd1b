package biquad

import (
	"math"
	"math/cmplx"
)

// Chain runs sections in series. Steeper responses are built by cascading
// second-order sections designed together.
type Chain struct {
	sections []Section
}

// NewChain creates a cascade with one Section per coefficient set.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{}
	c.setSections(coeffs)

	return c
}

func (c *Chain) setSections(coeffs []Coefficients) {
	c.sections = make([]Section, len(coeffs))
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}
}

// ProcessSample runs one sample through every section.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters buf in place.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// Reset clears every section.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// Order returns the filter order, two per section.
func (c *Chain) Order() int { return 2 * len(c.sections) }

// UpdateCoefficients installs new coefficients. With the same number of
// sections the delay lines keep running, so a swept cutoff does not click;
// a different count starts from silence.
func (c *Chain) UpdateCoefficients(coeffs []Coefficients) {
	if len(coeffs) != len(c.sections) {
		c.setSections(coeffs)
		return
	}

	for i := range c.sections {
		c.sections[i].Coefficients = coeffs[i]
	}
}

// Coefficients returns a copy of the coefficients of every section.
func (c *Chain) Coefficients() []Coefficients {
	out := make([]Coefficients, len(c.sections))
	for i := range c.sections {
		out[i] = c.sections[i].Coefficients
	}

	return out
}

// State returns the delay lines of every section.
func (c *Chain) State() [][2]float64 {
	out := make([][2]float64, len(c.sections))
	for i := range c.sections {
		out[i] = c.sections[i].State()
	}

	return out
}

// Response returns the complex response of the cascade at freqHz.
func (c *Chain) Response(freqHz, sampleRate float64) complex128 {
	h := complex(1, 0)
	for i := range c.sections {
		h *= c.sections[i].Response(freqHz, sampleRate)
	}

	return h
}

// MagnitudeDB returns the cascade gain in dB at freqHz.
func (c *Chain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}
