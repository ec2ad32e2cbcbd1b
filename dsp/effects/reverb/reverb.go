package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/dsp/delay"
)

// lineCount must be a power of two for the Hadamard feedback matrix.
const lineCount = 8

const (
	maxPreDelay   = 0.5
	maxModDepth   = 0.02
	referenceRate = 44100.0
	lineGuard     = 4
)

// Mutually prime line lengths at 44.1 kHz, scaled with the sample rate.
var lineLengths = [lineCount]float64{1537, 1753, 1999, 2251, 2473, 2689, 2851, 3067}

// Option configures a Reverb at construction.
type Option func(*Reverb) error

// WithRT60 sets the decay time to -60 dB in seconds. Default 1.5.
func WithRT60(seconds float64) Option {
	return func(r *Reverb) error { return r.SetRT60(seconds) }
}

// WithDamping sets the one-pole lowpass in each feedback path, in [0, 1].
// Default 0.3.
func WithDamping(amount float64) Option {
	return func(r *Reverb) error { return r.SetDamping(amount) }
}

// WithPreDelay sets the gap before the tail starts, in [0, 0.5] s.
// Default 10 ms.
func WithPreDelay(seconds float64) Option {
	return func(r *Reverb) error { return r.SetPreDelay(seconds) }
}

// WithModulation sweeps each line length by up to depth seconds at rateHz.
// Default 2 ms at 0.1 Hz.
func WithModulation(depth, rateHz float64) Option {
	return func(r *Reverb) error {
		if !(depth >= 0 && depth <= maxModDepth) {
			return fmt.Errorf("reverb: modulation depth must be in [0, %g] s: %f", maxModDepth, depth)
		}

		if !(rateHz >= 0) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("reverb: modulation rate must be >= 0: %f", rateHz)
		}

		r.modDepth = depth * r.sampleRate
		r.lfoStep = 2 * math.Pi * rateHz / r.sampleRate

		return nil
	}
}

// Reverb is an eight-line feedback delay network. Both input channels are
// summed into the network and two orthogonal Hadamard outputs feed left and
// right, so a mono source still gets a wide tail.
type Reverb struct {
	sampleRate float64
	mix        float64
	rt60       float64
	damp       float64

	lengths  [lineCount]float64
	feedback [lineCount]float64
	lines    [lineCount]*delay.Line
	lowpass  [lineCount]float64

	pre      *delay.Line
	preDelay float64

	modDepth float64
	lfoStep  float64
	lfo      float64
}

// New builds a reverb at sampleRate. The mix starts fully dry.
func New(sampleRate float64, opts ...Option) (*Reverb, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reverb: sample rate must be > 0 and finite: %f", sampleRate)
	}

	r := &Reverb{
		sampleRate: sampleRate,
		rt60:       1.5,
		damp:       0.3,
		preDelay:   0.01 * sampleRate,
		modDepth:   0.002 * sampleRate,
		lfoStep:    2 * math.Pi * 0.1 / sampleRate,
	}

	// Sized for the deepest modulation so nothing reallocates later.
	for i := range r.lines {
		r.lengths[i] = lineLengths[i] * sampleRate / referenceRate

		line, err := delay.New(int(math.Ceil(r.lengths[i]+maxModDepth*sampleRate)) + lineGuard)
		if err != nil {
			return nil, fmt.Errorf("reverb: %w", err)
		}

		r.lines[i] = line
	}

	pre, err := delay.New(int(math.Ceil(maxPreDelay*sampleRate)) + lineGuard)
	if err != nil {
		return nil, fmt.Errorf("reverb: %w", err)
	}

	r.pre = pre

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(r); err != nil {
			return nil, err
		}
	}

	r.updateFeedback()

	return r, nil
}

// SetMix sets the wet share in [0, 1]; the dry share is 1 - mix.
func (r *Reverb) SetMix(mix float64) error {
	if !(mix >= 0 && mix <= 1) {
		return fmt.Errorf("reverb: mix must be in [0, 1]: %f", mix)
	}

	r.mix = mix

	return nil
}

// SetRT60 changes the decay time in seconds.
func (r *Reverb) SetRT60(seconds float64) error {
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return fmt.Errorf("reverb: RT60 must be > 0: %f", seconds)
	}

	r.rt60 = seconds
	r.updateFeedback()

	return nil
}

// SetDamping changes the high-frequency loss per pass, in [0, 1].
func (r *Reverb) SetDamping(amount float64) error {
	if !(amount >= 0 && amount <= 1) {
		return fmt.Errorf("reverb: damping must be in [0, 1]: %f", amount)
	}

	r.damp = amount

	return nil
}

// SetPreDelay changes the pre-delay in seconds.
func (r *Reverb) SetPreDelay(seconds float64) error {
	if !(seconds >= 0 && seconds <= maxPreDelay) {
		return fmt.Errorf("reverb: pre-delay must be in [0, %g] s: %f", maxPreDelay, seconds)
	}

	r.preDelay = seconds * r.sampleRate

	return nil
}

// Mix returns the wet share.
func (r *Reverb) Mix() float64 { return r.mix }

// RT60 returns the decay time in seconds.
func (r *Reverb) RT60() float64 { return r.rt60 }

// Reset empties the network.
func (r *Reverb) Reset() {
	for i, l := range r.lines {
		l.Reset()
		r.lowpass[i] = 0
	}

	r.pre.Reset()
	r.lfo = 0
}

// ProcessInPlace runs a mono buffer through the left output.
func (r *Reverb) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		wet, _ := r.tick(x)
		buf[i] = x*(1-r.mix) + wet*r.mix
	}
}

// ProcessStereo processes left and right in place.
func (r *Reverb) ProcessStereo(left, right []float64) {
	n := min(len(left), len(right))
	for i := range n {
		wetL, wetR := r.tick(0.5 * (left[i] + right[i]))
		left[i] = left[i]*(1-r.mix) + wetL*r.mix
		right[i] = right[i]*(1-r.mix) + wetR*r.mix
	}
}

func (r *Reverb) tick(x float64) (float64, float64) {
	if r.preDelay > 0 {
		r.pre.Write(x)
		x = r.pre.ReadFractional(r.preDelay)
	}

	var v [lineCount]float64
	for i, l := range r.lines {
		// Each line's LFO is offset by 1/8 of a cycle.
		sweep := 0.5 + 0.5*math.Sin(r.lfo+float64(i)*2*math.Pi/lineCount)
		v[i] = l.ReadFractional(r.lengths[i] + sweep*r.modDepth)
	}

	if r.lfo += r.lfoStep; r.lfo >= 2*math.Pi {
		r.lfo -= 2 * math.Pi
	}

	hadamard(&v)

	const norm = 0.35355339059327373 // 1/sqrt(lineCount)

	in := x * norm
	for i, l := range r.lines {
		r.lowpass[i] += (1 - r.damp) * (v[i]*norm - r.lowpass[i])
		l.Write(in + r.lowpass[i]*r.feedback[i])
	}

	return v[0] * norm, v[1] * norm
}

// hadamard applies the unnormalized Sylvester-Hadamard transform in place.
func hadamard(v *[lineCount]float64) {
	for h := 1; h < lineCount; h *= 2 {
		for i := 0; i < lineCount; i += 2 * h {
			for j := i; j < i+h; j++ {
				a, b := v[j], v[j+h]
				v[j], v[j+h] = a+b, a-b
			}
		}
	}
}

// updateFeedback sets each line's gain so a pass through it loses
// 60 dB * length / RT60.
func (r *Reverb) updateFeedback() {
	for i, n := range r.lengths {
		r.feedback[i] = math.Pow(10, -3*n/r.sampleRate/r.rt60)
	}
}
