package crossover

import (
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
	"github.com/cwbudde/algo-lofi/dsp/filter/design"
)

// Crossover is a two-way Linkwitz-Riley crossover network that splits
// an input signal into complementary lowpass and highpass outputs whose
// sum is allpass.
type Crossover struct {
	lp    *biquad.Chain
	hp    *biquad.Chain
	freq  float64
	order int
	sr    float64
}

// New creates a two-way Linkwitz-Riley crossover at the given frequency
// and order. The order must be a positive even integer.
func New(freq float64, order int, sampleRate float64) (*Crossover, error) {
	if order <= 0 || order%2 != 0 {
		return nil, fmt.Errorf("crossover: order must be a positive even integer, got %d", order)
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("crossover: sample rate must be positive, got %v", sampleRate)
	}

	if freq <= 0 || freq >= sampleRate/2 {
		return nil, fmt.Errorf("crossover: frequency must be in (0, %v), got %v", sampleRate/2, freq)
	}

	lpCoeffs := design.LinkwitzRileyLP(freq, order, sampleRate)
	hpCoeffs := design.LinkwitzRileyHP(freq, order, sampleRate)

	if lpCoeffs == nil || hpCoeffs == nil {
		return nil, fmt.Errorf("crossover: failed to design LR%d at %.1f Hz", order, freq)
	}

	return &Crossover{
		lp:    biquad.NewChain(lpCoeffs),
		hp:    biquad.NewChain(hpCoeffs),
		freq:  freq,
		order: order,
		sr:    sampleRate,
	}, nil
}

// ProcessSample filters one input sample and returns the lowpass and
// highpass outputs.
func (c *Crossover) ProcessSample(x float64) (lo, hi float64) {
	return c.lp.ProcessSample(x), c.hp.ProcessSample(x)
}

// ProcessBlock filters input, writing the lowpass output to lo and the
// highpass output to hi. All three slices must have the same length;
// input may alias either output.
func (c *Crossover) ProcessBlock(input, lo, hi []float64) {
	n := len(input)
	if n == 0 {
		return
	}

	_ = lo[n-1]
	_ = hi[n-1]

	copy(hi, input)
	copy(lo, input)
	c.lp.ProcessBlock(lo)
	c.hp.ProcessBlock(hi)
}

// LP returns the lowpass chain for inspection.
func (c *Crossover) LP() *biquad.Chain { return c.lp }

// HP returns the highpass chain for inspection.
func (c *Crossover) HP() *biquad.Chain { return c.hp }

// Freq returns the crossover frequency in Hz.
func (c *Crossover) Freq() float64 { return c.freq }

// Order returns the Linkwitz-Riley order.
func (c *Crossover) Order() int { return c.order }

// SampleRate returns the sample rate in Hz.
func (c *Crossover) SampleRate() float64 { return c.sr }

// Reset clears the internal filter states of both chains.
func (c *Crossover) Reset() {
	c.lp.Reset()
	c.hp.Reset()
}

// ThreeBand splits a signal into low, mid and high bands at two crossover
// frequencies. The low band is passed through an allpass matching the upper
// split, so the three bands sum to an allpass of the input and a flat EQ
// stays flat.
type ThreeBand struct {
	lower *Crossover
	upper *Crossover
	align *Crossover

	scratch []float64
}

// NewThreeBand creates a three-way splitter. lowFreq must be below highFreq.
func NewThreeBand(lowFreq, highFreq float64, order int, sampleRate float64) (*ThreeBand, error) {
	if lowFreq >= highFreq {
		return nil, fmt.Errorf("crossover: low frequency %.1f must be below high frequency %.1f", lowFreq, highFreq)
	}

	lower, err := New(lowFreq, order, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("crossover: low split: %w", err)
	}

	upper, err := New(highFreq, order, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("crossover: high split: %w", err)
	}

	align, err := New(highFreq, order, sampleRate)
	if err != nil {
		return nil, err
	}

	return &ThreeBand{lower: lower, upper: upper, align: align}, nil
}

// Frequencies returns the two crossover frequencies in Hz.
func (t *ThreeBand) Frequencies() (low, high float64) {
	return t.lower.freq, t.upper.freq
}

// ProcessSample splits one sample into its three bands.
func (t *ThreeBand) ProcessSample(x float64) (lo, mid, hi float64) {
	lo, rest := t.lower.ProcessSample(x)
	al, ah := t.align.ProcessSample(lo)
	mid, hi = t.upper.ProcessSample(rest)

	return al + ah, mid, hi
}

// ProcessBlock splits input into lo, mid and hi. All slices must share the
// length of input. input may alias lo.
func (t *ThreeBand) ProcessBlock(input, lo, mid, hi []float64) {
	n := len(input)
	if n == 0 {
		return
	}

	t.scratch = core.EnsureLen(t.scratch, n)

	// hi temporarily carries the upper remainder of the first split.
	t.lower.ProcessBlock(input, lo, hi)
	t.upper.ProcessBlock(hi, mid, hi)

	t.align.ProcessBlock(lo, lo, t.scratch)
	core.AddInto(lo, t.scratch)
}

// Reset clears all filter states.
func (t *ThreeBand) Reset() {
	t.lower.Reset()
	t.upper.Reset()
	t.align.Reset()
}
