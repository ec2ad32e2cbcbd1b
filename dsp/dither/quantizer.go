package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Type selects the dither noise distribution.
type Type int

const (
	// None rounds to the nearest code.
	None Type = iota
	// Rectangular adds uniform noise one LSB wide.
	Rectangular
	// Triangular adds TPDF noise two LSBs wide; the default.
	Triangular
)

// String returns the distribution name.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Rectangular:
		return "rectangular"
	case Triangular:
		return "triangular"
	default:
		return fmt.Sprintf("dither.Type(%d)", int(t))
	}
}

const (
	minBits = 2
	maxBits = 24
)

// Option configures a Quantizer.
type Option func(*Quantizer) error

// WithBitDepth sets the target word length, within [2, 24]. Default 16.
func WithBitDepth(bits int) Option {
	return func(q *Quantizer) error {
		if bits < minBits || bits > maxBits {
			return fmt.Errorf("dither: bit depth must be in [%d, %d]: %d", minBits, maxBits, bits)
		}

		q.bits = bits

		return nil
	}
}

// WithType sets the noise distribution.
func WithType(t Type) Option {
	return func(q *Quantizer) error {
		if t < None || t > Triangular {
			return fmt.Errorf("dither: unknown type %v", t)
		}

		q.kind = t

		return nil
	}
}

// WithRNG fixes the noise source so that output is reproducible.
func WithRNG(rng *rand.Rand) Option {
	return func(q *Quantizer) error {
		q.rng = rng
		return nil
	}
}

// WithNoiseShaping feeds each channel's requantization error back into
// the next sample, tilting the noise floor toward high frequencies.
func WithNoiseShaping(enabled bool) Option {
	return func(q *Quantizer) error {
		q.shaping = enabled
		return nil
	}
}

// Quantizer converts float samples in [-1, 1] to signed integer PCM codes.
// Codes are clipped to the word range. Error feedback is tracked per channel
// of an interleaved stream.
type Quantizer struct {
	bits    int
	kind    Type
	shaping bool
	rng     *rand.Rand

	scale  float64
	lo, hi int
	err    [2]float64
}

// NewQuantizer returns a 16-bit TPDF quantizer unless opts say otherwise.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	q := &Quantizer{bits: 16, kind: Triangular}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(q); err != nil {
			return nil, err
		}
	}

	if q.rng == nil {
		q.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	q.scale = math.Exp2(float64(q.bits - 1))
	q.hi = int(q.scale) - 1
	q.lo = -int(q.scale)

	return q, nil
}

// BitDepth returns the word length.
func (q *Quantizer) BitDepth() int { return q.bits }

// Type returns the noise distribution.
func (q *Quantizer) Type() Type { return q.kind }

// Quantize converts one sample of channel 0.
func (q *Quantizer) Quantize(x float64) int {
	return q.quantize(0, x)
}

// QuantizeInterleaved writes left and right as interleaved codes into dst,
// which must hold 2*min(len(left), len(right)) values.
func (q *Quantizer) QuantizeInterleaved(dst []int, left, right []float64) {
	n := min(len(left), len(right))
	for i := range n {
		dst[2*i] = q.quantize(0, left[i])
		dst[2*i+1] = q.quantize(1, right[i])
	}
}

// Reset clears the error feedback memory.
func (q *Quantizer) Reset() {
	q.err = [2]float64{}
}

func (q *Quantizer) quantize(ch int, x float64) int {
	v := x * q.scale
	if q.shaping {
		v -= q.err[ch]
	}

	code := int(math.Round(v + q.noise()))
	code = max(q.lo, min(q.hi, code))

	if q.shaping {
		q.err[ch] = float64(code) - v
	}

	return code
}

func (q *Quantizer) noise() float64 {
	switch q.kind {
	case Rectangular:
		return q.rng.Float64() - 0.5
	case Triangular:
		return q.rng.Float64() - q.rng.Float64()
	default:
		return 0
	}
}
