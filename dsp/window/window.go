// Package window generates analysis and synthesis windows for block and STFT
// processing.
package window

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

var errMismatchedLength = errors.New("samples and coefficients must have same length")

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "Rectangular"
	case TypeHann:
		return "Hann"
	case TypeHamming:
		return "Hamming"
	case TypeBlackman:
		return "Blackman"
	default:
		return "Unknown"
	}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic generates the periodic form used for FFT framing instead of
// the symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	den := float64(length - 1)
	if cfg.periodic {
		den = float64(length)
	}

	out := make([]float64, length)
	for i := range out {
		x := 0.0
		if den > 0 {
			x = float64(i) / den
		}

		out[i] = eval(t, x)
	}

	return out
}

// Apply multiplies samples by coeffs in place.
func Apply(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// ApplyTo writes samples multiplied by coeffs into dst.
func ApplyTo(dst, samples, coeffs []float64) error {
	if len(samples) != len(coeffs) || len(dst) != len(samples) {
		return errMismatchedLength
	}

	vecmath.MulBlock(dst, samples, coeffs)

	return nil
}

// OverlapAddGain returns the constant sum of squared coefficients seen by
// every output sample when coeffs is used for both analysis and synthesis
// at the given hop. Dividing the overlap-added output by it restores unity
// gain. It returns 0 if the window does not overlap-add to a constant.
func OverlapAddGain(coeffs []float64, hop int) float64 {
	n := len(coeffs)
	if n == 0 || hop <= 0 || n%hop != 0 {
		return 0
	}

	gain := -1.0

	for offset := range hop {
		sum := 0.0
		for i := offset; i < n; i += hop {
			sum += coeffs[i] * coeffs[i]
		}

		if gain < 0 {
			gain = sum
			continue
		}

		if math.Abs(sum-gain) > 1e-9*math.Max(1, gain) {
			return 0
		}
	}

	return gain
}

func eval(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case TypeHamming:
		return 0.54 - 0.46*math.Cos(2*math.Pi*x)
	case TypeBlackman:
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	default:
		return 1
	}
}
