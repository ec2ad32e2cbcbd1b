package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/dsp/delay"
)

const (
	defaultWindowSeconds = 0.1
	minWindowSeconds     = 0.01
	maxWindowSeconds     = 1.0

	minSemitones = -24.0
	maxSemitones = 24.0

	// minTapDelay keeps both taps clear of the write head so Hermite
	// interpolation never reads the oldest sample.
	minTapDelay = 2.0
)

// Option mutates pitch shifter construction parameters.
type Option func(*config) error

type config struct {
	windowSeconds float64
}

// WithWindowSeconds sets the delay sweep window in seconds, within [0.01, 1].
// Longer windows smear transients; shorter ones add a rough flutter.
func WithWindowSeconds(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < minWindowSeconds || seconds > maxWindowSeconds || math.IsNaN(seconds) {
			return fmt.Errorf("pitch shifter window must be in [%g, %g] s: %f",
				minWindowSeconds, maxWindowSeconds, seconds)
		}

		cfg.windowSeconds = seconds

		return nil
	}
}

// PitchShifter is a streaming delay-line pitch shifter. Two taps sweep a
// delay window with sawtooth motion half a period apart; reading a delay
// that shrinks raises the pitch and one that grows lowers it. Each tap is
// faded with a sin² window that reaches zero where its delay wraps, and the
// two fades always sum to one.
//
// At 0 semitones the input passes through untouched. The processor is mono
// and processes sample by sample, so block sizes are free.
type PitchShifter struct {
	sampleRate    float64
	windowSeconds float64
	windowSamples float64
	semitones     float64
	ratio         float64

	line  *delay.Line
	phase float64
	step  float64
}

// NewPitchShifter creates a shifter at 0 semitones.
func NewPitchShifter(sampleRate float64, opts ...Option) (*PitchShifter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("pitch shifter sample rate must be positive and finite: %f", sampleRate)
	}

	cfg := config{windowSeconds: defaultWindowSeconds}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	windowSamples := cfg.windowSeconds * sampleRate

	line, err := delay.New(int(math.Ceil(windowSamples+minTapDelay)) + 4)
	if err != nil {
		return nil, fmt.Errorf("pitch shifter: %w", err)
	}

	return &PitchShifter{
		sampleRate:    sampleRate,
		windowSeconds: cfg.windowSeconds,
		windowSamples: windowSamples,
		ratio:         1,
		line:          line,
	}, nil
}

// SampleRate returns the sample rate in Hz.
func (p *PitchShifter) SampleRate() float64 { return p.sampleRate }

// WindowSeconds returns the delay sweep window in seconds.
func (p *PitchShifter) WindowSeconds() float64 { return p.windowSeconds }

// PitchSemitones returns the shift in semitones.
func (p *PitchShifter) PitchSemitones() float64 { return p.semitones }

// PitchRatio returns the frequency ratio 2^(semitones/12).
func (p *PitchShifter) PitchRatio() float64 { return p.ratio }

// SetPitchSemitones sets the shift in semitones, within [-24, 24].
func (p *PitchShifter) SetPitchSemitones(semitones float64) error {
	if semitones < minSemitones || semitones > maxSemitones || math.IsNaN(semitones) {
		return fmt.Errorf("pitch shifter semitones must be in [%g, %g]: %f",
			minSemitones, maxSemitones, semitones)
	}

	p.semitones = semitones
	p.ratio = math.Exp2(semitones / 12)
	p.step = math.Abs(p.ratio-1) / p.windowSamples

	return nil
}

// Reset clears the delay line and restarts the sweep.
func (p *PitchShifter) Reset() {
	p.line.Reset()
	p.phase = 0
}

// ProcessSample shifts one sample.
func (p *PitchShifter) ProcessSample(input float64) float64 {
	p.line.Write(input)

	if p.semitones == 0 {
		return input
	}

	a := p.phase
	b := a + 0.5
	if b >= 1 {
		b--
	}

	out := p.tap(a) + p.tap(b)

	p.phase += p.step
	if p.phase >= 1 {
		p.phase -= math.Floor(p.phase)
	}

	return out
}

// ProcessInPlace shifts buf in place.
func (p *PitchShifter) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = p.ProcessSample(x)
	}
}

// tap reads the delay line at sweep position phase in [0, 1) and applies
// its crossfade gain.
func (p *PitchShifter) tap(phase float64) float64 {
	sweep := phase
	if p.ratio > 1 {
		sweep = 1 - phase
	}

	s := math.Sin(math.Pi * phase)

	return s * s * p.line.ReadFractional(minTapDelay+sweep*p.windowSamples)
}
