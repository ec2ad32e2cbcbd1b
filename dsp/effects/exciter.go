package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
	"github.com/cwbudde/algo-lofi/dsp/filter/design"
)

const (
	defaultExciterFrequency = 3000.0
	defaultExciterDrive     = 4.0
	exciterFilterOrder      = 2
	maxExciterDrive         = 20.0
)

// ExciterOption mutates exciter construction parameters.
type ExciterOption func(*exciterConfig) error

type exciterConfig struct {
	frequency float64
	drive     float64
	amount    float64
}

// WithExciterFrequency sets the high-pass corner feeding the saturator in Hz.
func WithExciterFrequency(hz float64) ExciterOption {
	return func(cfg *exciterConfig) error {
		if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
			return fmt.Errorf("exciter frequency must be > 0 and finite: %f", hz)
		}

		cfg.frequency = hz

		return nil
	}
}

// WithExciterDrive sets the saturator drive in [1, 20].
func WithExciterDrive(drive float64) ExciterOption {
	return func(cfg *exciterConfig) error {
		if drive < 1 || drive > maxExciterDrive || math.IsNaN(drive) {
			return fmt.Errorf("exciter drive must be in [1, %g]: %f", maxExciterDrive, drive)
		}

		cfg.drive = drive

		return nil
	}
}

// WithExciterAmount sets the initial amount in [0, 1].
func WithExciterAmount(amount float64) ExciterOption {
	return func(cfg *exciterConfig) error {
		if err := validateExciterAmount(amount); err != nil {
			return err
		}

		cfg.amount = amount

		return nil
	}
}

// Exciter adds upper harmonics. The signal above the corner frequency is
// driven through tanh and the result is added back to the dry signal
// scaled by the amount. Amount 0 leaves the input untouched.
type Exciter struct {
	sampleRate float64
	frequency  float64
	drive      float64
	amount     float64

	hp      [2]*biquad.Chain
	scratch []float64
}

// NewExciter creates a stereo harmonic exciter.
func NewExciter(sampleRate float64, opts ...ExciterOption) (*Exciter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("exciter sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := exciterConfig{frequency: defaultExciterFrequency, drive: defaultExciterDrive}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.frequency >= sampleRate/2 {
		return nil, fmt.Errorf("exciter frequency must be below Nyquist (%g): %f", sampleRate/2, cfg.frequency)
	}

	coeffs := design.ButterworthHP(cfg.frequency, exciterFilterOrder, sampleRate)

	ex := &Exciter{
		sampleRate: sampleRate,
		frequency:  cfg.frequency,
		drive:      cfg.drive,
		amount:     cfg.amount,
	}
	for ch := range ex.hp {
		ex.hp[ch] = biquad.NewChain(coeffs)
	}

	return ex, nil
}

// SetAmount sets how much saturated high band is added, in [0, 1].
func (ex *Exciter) SetAmount(amount float64) error {
	if err := validateExciterAmount(amount); err != nil {
		return err
	}

	ex.amount = amount

	return nil
}

// Amount returns the wet amount.
func (ex *Exciter) Amount() float64 { return ex.amount }

// Frequency returns the high-pass corner in Hz.
func (ex *Exciter) Frequency() float64 { return ex.frequency }

// Drive returns the saturator drive.
func (ex *Exciter) Drive() float64 { return ex.drive }

// Reset clears the high-pass state.
func (ex *Exciter) Reset() {
	for _, hp := range ex.hp {
		hp.Reset()
	}
}

// ProcessInPlace excites a single channel in place.
func (ex *Exciter) ProcessInPlace(buf []float64) {
	ex.processChannel(0, buf)
}

// ProcessStereo excites left and right in place.
func (ex *Exciter) ProcessStereo(left, right []float64) {
	ex.processChannel(0, left)
	ex.processChannel(1, right)
}

func (ex *Exciter) processChannel(ch int, buf []float64) {
	// The filter still runs at amount 0 so raising it later does not click.
	ex.scratch = core.EnsureLen(ex.scratch, len(buf))
	copy(ex.scratch, buf)
	ex.hp[ch].ProcessBlock(ex.scratch)

	if ex.amount == 0 {
		return
	}

	gain := ex.amount / ex.drive
	for i, hi := range ex.scratch {
		buf[i] += gain * math.Tanh(ex.drive*hi)
	}
}

func validateExciterAmount(amount float64) error {
	if amount < 0 || amount > 1 || math.IsNaN(amount) {
		return fmt.Errorf("exciter amount must be in [0, 1]: %f", amount)
	}

	return nil
}
