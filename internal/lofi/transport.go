package lofi

import (
	"github.com/cwbudde/algo-lofi/dsp/interp"
)

// transport reads a stereo source at a variable playback rate. Like a tape
// running faster, a rate above 1 raises pitch and shortens the duration.
// Fractional positions are read with 4-point Hermite interpolation.
type transport struct {
	left, right []float64
	pos         float64
	rate        float64
}

func newTransport(left, right []float64, rate float64) *transport {
	return &transport{left: left, right: right, rate: rate}
}

func (t *transport) setRate(rate float64) { t.rate = rate }

func (t *transport) rewind() { t.pos = 0 }

func (t *transport) ended() bool { return t.pos >= float64(len(t.left)) }

// read fills dstL and dstR from the current position and advances it. Past
// the end of the source the blocks are padded with silence. It returns the
// number of frames taken from the source.
func (t *transport) read(dstL, dstR []float64) int {
	n := len(t.left)
	produced := 0

	for i := range dstL {
		if t.pos >= float64(n) {
			dstL[i], dstR[i] = 0, 0
			continue
		}

		idx := int(t.pos)
		frac := t.pos - float64(idx)

		if frac == 0 {
			dstL[i], dstR[i] = t.left[idx], t.right[idx]
		} else {
			dstL[i] = hermiteAt(t.left, idx, frac)
			dstR[i] = hermiteAt(t.right, idx, frac)
		}

		t.pos += t.rate
		produced++
	}

	return produced
}

func hermiteAt(x []float64, idx int, frac float64) float64 {
	at := func(i int) float64 {
		if i < 0 || i >= len(x) {
			return 0
		}

		return x[i]
	}

	return interp.Hermite4(frac, at(idx-1), at(idx), at(idx+1), at(idx+2))
}
