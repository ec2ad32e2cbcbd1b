package effects

import (
	"fmt"
	"math"
)

const (
	maxPannerCoordinate  = 5.0
	pannerRefDistance    = 1.0
	pannerRolloff        = 1.0
	pannerSmoothingMs    = 5.0
	pannerSilentDistance = 1e-9
)

// Panner3D places a stereo signal at a point relative to a listener at the
// origin facing -Z with +Y up. Direction uses equal-power panning on the
// horizontal azimuth; distance applies an inverse-distance gain with a
// reference distance of 1 and rolloff factor 1. Position changes glide over
// a few milliseconds.
type Panner3D struct {
	sampleRate float64
	x, y, z    float64

	target  pannerGains
	current pannerGains
	smooth  float64
}

// pannerGains holds the stereo equal-power matrix and the distance gain.
// For azimuth <= 0 the right channel folds into the left (crossLeft); for
// azimuth > 0 the left folds into the right (crossRight).
type pannerGains struct {
	leftLeft, rightRight  float64
	crossLeft, crossRight float64
	distance              float64
}

// NewPanner3D creates a panner at the listener position, where it passes
// audio through unchanged.
func NewPanner3D(sampleRate float64) (*Panner3D, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("panner sample rate must be > 0 and finite: %f", sampleRate)
	}

	p := &Panner3D{
		sampleRate: sampleRate,
		smooth:     math.Exp(-1 / (pannerSmoothingMs * 0.001 * sampleRate)),
	}
	p.target = computePannerGains(0, 0, 0)
	p.current = p.target

	return p, nil
}

// SetPosition moves the source. Each coordinate must lie in [-5, 5].
func (p *Panner3D) SetPosition(x, y, z float64) error {
	for _, v := range [...]float64{x, y, z} {
		if v < -maxPannerCoordinate || v > maxPannerCoordinate || math.IsNaN(v) {
			return fmt.Errorf("panner coordinate must be in [%g, %g]: %f",
				-maxPannerCoordinate, maxPannerCoordinate, v)
		}
	}

	p.x, p.y, p.z = x, y, z
	p.target = computePannerGains(x, y, z)

	return nil
}

// Position returns the source coordinates.
func (p *Panner3D) Position() (x, y, z float64) {
	return p.x, p.y, p.z
}

// Reset jumps to the target position without gliding.
func (p *Panner3D) Reset() {
	p.current = p.target
}

// ProcessStereo pans left and right in place.
func (p *Panner3D) ProcessStereo(left, right []float64) {
	n := min(len(left), len(right))
	c := &p.current
	t := &p.target
	a := p.smooth

	for i := range n {
		c.leftLeft = t.leftLeft + a*(c.leftLeft-t.leftLeft)
		c.rightRight = t.rightRight + a*(c.rightRight-t.rightRight)
		c.crossLeft = t.crossLeft + a*(c.crossLeft-t.crossLeft)
		c.crossRight = t.crossRight + a*(c.crossRight-t.crossRight)
		c.distance = t.distance + a*(c.distance-t.distance)

		l, r := left[i], right[i]
		left[i] = (l*c.leftLeft + r*c.crossLeft) * c.distance
		right[i] = (r*c.rightRight + l*c.crossRight) * c.distance
	}
}

// Azimuth returns the source azimuth in degrees, 0 straight ahead and
// positive to the right, folded into [-90, 90].
func Azimuth(x, y, z float64) float64 {
	norm := math.Sqrt(x*x + y*y + z*z)
	if norm < pannerSilentDistance {
		return 0
	}

	// Drop the vertical component and measure against the listener's right.
	hx, hz := x/norm, z/norm

	horiz := math.Hypot(hx, hz)
	if horiz < pannerSilentDistance {
		return 0
	}

	hx /= horiz
	hz /= horiz

	az := math.Acos(math.Max(-1, math.Min(1, hx))) * 180 / math.Pi
	if -hz < 0 {
		az = 360 - az
	}

	if az <= 270 {
		az = 90 - az
	} else {
		az = 450 - az
	}

	switch {
	case az < -90:
		az = -180 - az
	case az > 90:
		az = 180 - az
	}

	return az
}

// DistanceGain returns the inverse-distance attenuation for a source at (x, y, z).
func DistanceGain(x, y, z float64) float64 {
	d := math.Max(math.Sqrt(x*x+y*y+z*z), pannerRefDistance)
	return pannerRefDistance / (pannerRefDistance + pannerRolloff*(d-pannerRefDistance))
}

func computePannerGains(x, y, z float64) pannerGains {
	az := Azimuth(x, y, z)
	g := pannerGains{distance: DistanceGain(x, y, z)}

	if az <= 0 {
		pos := (az + 90) / 90
		g.leftLeft = 1
		g.crossLeft = math.Cos(pos * math.Pi / 2)
		g.rightRight = math.Sin(pos * math.Pi / 2)
	} else {
		pos := az / 90
		g.leftLeft = math.Cos(pos * math.Pi / 2)
		g.rightRight = 1
		g.crossRight = math.Sin(pos * math.Pi / 2)
	}

	// Snap the centre position to an exact pass-through.
	if az == 0 {
		g.crossLeft = 0
	}

	return g
}
