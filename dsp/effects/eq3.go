package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/filter/crossover"
)

const (
	eq3CrossoverOrder = 4
	maxEQ3GainDB      = 24.0
)

// EQ3 is a stereo three-band equalizer. A Linkwitz-Riley splitter divides
// each channel at two frequencies and the band outputs are scaled and
// summed. Gains change without touching filter state.
type EQ3 struct {
	sampleRate float64

	lowDB, midDB, highDB    float64
	lowLin, midLin, highLin float64

	split [2]*crossover.ThreeBand

	mid, high []float64
}

// NewEQ3 creates a flat three-band EQ with crossovers at lowFreq and highFreq.
func NewEQ3(sampleRate, lowFreq, highFreq float64) (*EQ3, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("eq3 sample rate must be > 0 and finite: %f", sampleRate)
	}

	eq := &EQ3{sampleRate: sampleRate, lowLin: 1, midLin: 1, highLin: 1}

	for ch := range eq.split {
		tb, err := crossover.NewThreeBand(lowFreq, highFreq, eq3CrossoverOrder, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("eq3: %w", err)
		}

		eq.split[ch] = tb
	}

	return eq, nil
}

// SetGains sets the low, mid and high band gains in dB, each within [-24, 24].
func (eq *EQ3) SetGains(lowDB, midDB, highDB float64) error {
	for _, g := range [...]float64{lowDB, midDB, highDB} {
		if g < -maxEQ3GainDB || g > maxEQ3GainDB || math.IsNaN(g) {
			return fmt.Errorf("eq3 band gain must be in [%g, %g]: %f", -maxEQ3GainDB, maxEQ3GainDB, g)
		}
	}

	eq.lowDB, eq.midDB, eq.highDB = lowDB, midDB, highDB
	eq.lowLin = core.DBToLinear(lowDB)
	eq.midLin = core.DBToLinear(midDB)
	eq.highLin = core.DBToLinear(highDB)

	return nil
}

// Gains returns the band gains in dB.
func (eq *EQ3) Gains() (lowDB, midDB, highDB float64) {
	return eq.lowDB, eq.midDB, eq.highDB
}

// Frequencies returns the crossover frequencies in Hz.
func (eq *EQ3) Frequencies() (low, high float64) {
	return eq.split[0].Frequencies()
}

// ProcessStereo equalizes left and right in place.
func (eq *EQ3) ProcessStereo(left, right []float64) {
	eq.processChannel(0, left)
	eq.processChannel(1, right)
}

// ProcessInPlace equalizes a single channel in place.
func (eq *EQ3) ProcessInPlace(buf []float64) {
	eq.processChannel(0, buf)
}

// Reset clears all filter state.
func (eq *EQ3) Reset() {
	for _, tb := range eq.split {
		tb.Reset()
	}
}

func (eq *EQ3) processChannel(ch int, buf []float64) {
	n := len(buf)
	eq.mid = core.EnsureLen(eq.mid, n)
	eq.high = core.EnsureLen(eq.high, n)

	eq.split[ch].ProcessBlock(buf, buf, eq.mid, eq.high)

	for i := range buf {
		buf[i] = buf[i]*eq.lowLin + eq.mid[i]*eq.midLin + eq.high[i]*eq.highLin
	}
}
