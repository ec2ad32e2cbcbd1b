package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/dsp/interp"
)

// Line is a fixed-size ring of past samples. Delay 1 is the sample most
// recently written.
type Line struct {
	ring []float64
	head int
}

// New allocates a line holding size samples.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay: size must be > 0: %d", size)
	}

	return &Line{ring: make([]float64, size)}, nil
}

// Len returns the ring size.
func (l *Line) Len() int { return len(l.ring) }

// MaxDelay is the longest fractional delay readable without clamping; the
// cubic read needs one sample past the integer part plus a guard.
func (l *Line) MaxDelay() float64 { return float64(len(l.ring) - 3) }

// Write pushes one sample.
func (l *Line) Write(x float64) {
	l.ring[l.head] = x
	if l.head++; l.head == len(l.ring) {
		l.head = 0
	}
}

// Read returns the sample written delay writes ago.
func (l *Line) Read(delay int) float64 {
	i := (l.head - delay) % len(l.ring)
	if i < 0 {
		i += len(l.ring)
	}

	return l.ring[i]
}

// ReadFractional interpolates between stored samples. delay is clamped to
// [1, MaxDelay].
func (l *Line) ReadFractional(delay float64) float64 {
	delay = max(1, min(delay, l.MaxDelay()))
	whole, frac := math.Modf(delay)
	n := int(whole)

	return interp.Hermite4(frac, l.Read(n-1), l.Read(n), l.Read(n+1), l.Read(n+2))
}

// Reset silences the line.
func (l *Line) Reset() {
	clear(l.ring)
	l.head = 0
}
