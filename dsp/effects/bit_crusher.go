package effects

import (
	"fmt"
	"math"
)

const maxHoldFactor = 256

// BitCrusherOption configures a BitCrusher at construction.
type BitCrusherOption func(*BitCrusher) error

// WithBitCrusherBitDepth sets the resolution in bits, within [1, 16].
// Default 8.
func WithBitCrusherBitDepth(bits int) BitCrusherOption {
	return func(bc *BitCrusher) error { return bc.SetBitDepth(bits) }
}

// WithBitCrusherDownsample holds every sample for factor frames, within
// [1, 256]. Default 1.
func WithBitCrusherDownsample(factor int) BitCrusherOption {
	return func(bc *BitCrusher) error { return bc.SetDownsample(factor) }
}

// BitCrusher snaps samples to multiples of 2^-(bits-1). At one bit only
// -1, 0 and +1 remain. Sample-and-hold state is kept per channel.
type BitCrusher struct {
	bits  int
	step  float64 // 2^(bits-1)
	hold  int
	left  holdState
	right holdState
}

type holdState struct {
	age   int
	value float64
}

// NewBitCrusher returns an 8-bit crusher without sample-and-hold.
func NewBitCrusher(sampleRate float64, opts ...BitCrusherOption) (*BitCrusher, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("bit crusher sample rate must be > 0 and finite: %f", sampleRate)
	}

	bc := &BitCrusher{hold: 1}
	_ = bc.SetBitDepth(8)

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(bc); err != nil {
			return nil, err
		}
	}

	return bc, nil
}

// SetBitDepth changes the resolution from the next sample on.
func (bc *BitCrusher) SetBitDepth(bits int) error {
	if bits < 1 || bits > 16 {
		return fmt.Errorf("bit crusher bit depth must be in [1, 16]: %d", bits)
	}

	bc.bits = bits
	bc.step = math.Exp2(float64(bits - 1))

	return nil
}

// SetDownsample changes the hold factor.
func (bc *BitCrusher) SetDownsample(factor int) error {
	if factor < 1 || factor > maxHoldFactor {
		return fmt.Errorf("bit crusher downsample factor must be in [1, %d]: %d", maxHoldFactor, factor)
	}

	bc.hold = factor

	return nil
}

// BitDepth returns the resolution in bits.
func (bc *BitCrusher) BitDepth() int { return bc.bits }

// Downsample returns the hold factor.
func (bc *BitCrusher) Downsample() int { return bc.hold }

// Reset drops any held value.
func (bc *BitCrusher) Reset() {
	bc.left, bc.right = holdState{}, holdState{}
}

// ProcessSample crushes one sample of the left channel.
func (bc *BitCrusher) ProcessSample(x float64) float64 {
	return bc.crush(&bc.left, x)
}

// ProcessInPlace crushes a mono buffer using the left channel's state.
func (bc *BitCrusher) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = bc.crush(&bc.left, x)
	}
}

// ProcessStereo crushes left and right in place.
func (bc *BitCrusher) ProcessStereo(left, right []float64) {
	for i, x := range left {
		left[i] = bc.crush(&bc.left, x)
	}

	for i, x := range right {
		right[i] = bc.crush(&bc.right, x)
	}
}

func (bc *BitCrusher) crush(h *holdState, x float64) float64 {
	if h.age++; h.age >= bc.hold {
		h.age = 0
		h.value = math.Round(x*bc.step) / bc.step
	}

	return h.value
}
