package dynamics

import (
	"fmt"
	"math"
)

// dbToLog2 converts dB to the log2 domain: log2(10) / 20.
const dbToLog2 = 0.166096404744

// makeupShare is the fraction of the full-scale gain loss that auto makeup
// restores.
const makeupShare = 0.6

// Metrics reports detector activity since the last reset.
type Metrics struct {
	InputPeak     float64 // loudest detector input
	GainReduction float64 // smallest curve gain applied, 1 when idle
}

// Option configures a Compressor at construction.
type Option func(*Compressor) error

// WithKnee sets the soft-knee width in dB, within [0, 40]. 0 is a hard
// knee. Default 30.
func WithKnee(db float64) Option {
	return func(c *Compressor) error {
		if !(db >= 0 && db <= 40) {
			return fmt.Errorf("compressor knee must be in [0, 40] dB: %f", db)
		}

		c.kneeDB = db

		return nil
	}
}

// WithTimes sets attack and release in milliseconds. Defaults 3 and 250.
func WithTimes(attackMs, releaseMs float64) Option {
	return func(c *Compressor) error {
		if !(attackMs >= 0.1 && attackMs <= 1000) {
			return fmt.Errorf("compressor attack must be in [0.1, 1000] ms: %f", attackMs)
		}

		if !(releaseMs >= 1 && releaseMs <= 5000) {
			return fmt.Errorf("compressor release must be in [1, 5000] ms: %f", releaseMs)
		}

		c.attackMs, c.releaseMs = attackMs, releaseMs

		return nil
	}
}

// WithMakeupGain fixes the makeup gain in dB instead of deriving it from
// the curve.
func WithMakeupGain(db float64) Option {
	return func(c *Compressor) error {
		if math.IsNaN(db) || math.IsInf(db, 0) {
			return fmt.Errorf("compressor makeup gain must be finite: %f", db)
		}

		c.makeupDB, c.autoMakeup = db, false

		return nil
	}
}

// Compressor is a feed-forward compressor whose gain curve is a quadratic
// soft knee evaluated in the log2 domain. ProcessStereo drives both
// channels from one detector so the image does not shift under reduction.
type Compressor struct {
	sampleRate  float64
	thresholdDB float64
	ratio       float64
	kneeDB      float64
	attackMs    float64
	releaseMs   float64
	makeupDB    float64
	autoMakeup  bool

	// derived
	attack, release float64
	threshold2      float64
	knee2           float64
	makeup          float64

	env     float64
	metrics Metrics
}

// NewCompressor returns a compressor at -24 dB, 4:1 with a 30 dB knee,
// 3/250 ms timing and automatic makeup.
func NewCompressor(sampleRate float64, opts ...Option) (*Compressor, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("compressor sample rate must be positive and finite: %f", sampleRate)
	}

	c := &Compressor{
		sampleRate:  sampleRate,
		thresholdDB: -24,
		ratio:       4,
		kneeDB:      30,
		attackMs:    3,
		releaseMs:   250,
		autoMakeup:  true,
		metrics:     Metrics{GainReduction: 1},
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.update()

	return c, nil
}

// SetThreshold changes the threshold, within [-100, 0] dB.
func (c *Compressor) SetThreshold(db float64) error {
	if !(db >= -100 && db <= 0) {
		return fmt.Errorf("compressor threshold must be in [-100, 0] dB: %f", db)
	}

	c.thresholdDB = db
	c.update()

	return nil
}

// SetRatio changes the ratio, within [1, 20]. 1 leaves the signal alone.
func (c *Compressor) SetRatio(ratio float64) error {
	if !(ratio >= 1 && ratio <= 20) {
		return fmt.Errorf("compressor ratio must be in [1, 20]: %f", ratio)
	}

	c.ratio = ratio
	c.update()

	return nil
}

// Threshold returns the threshold in dB.
func (c *Compressor) Threshold() float64 { return c.thresholdDB }

// Ratio returns the compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio }

// MakeupGain returns the applied makeup in dB.
func (c *Compressor) MakeupGain() float64 { return c.makeupDB }

// SampleRate returns the sample rate in Hz.
func (c *Compressor) SampleRate() float64 { return c.sampleRate }

// Metrics returns the meter readings.
func (c *Compressor) Metrics() Metrics { return c.metrics }

// Reset clears the detector and meters.
func (c *Compressor) Reset() {
	c.env = 0
	c.metrics = Metrics{GainReduction: 1}
}

// ProcessSample compresses one mono sample.
func (c *Compressor) ProcessSample(x float64) float64 {
	return x * c.follow(math.Abs(x))
}

// ProcessInPlace compresses a mono buffer.
func (c *Compressor) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = x * c.follow(math.Abs(x))
	}
}

// ProcessStereo compresses left and right by the louder channel.
func (c *Compressor) ProcessStereo(left, right []float64) {
	for i := range min(len(left), len(right)) {
		g := c.follow(max(math.Abs(left[i]), math.Abs(right[i])))
		left[i] *= g
		right[i] *= g
	}
}

// CalculateOutputLevel returns the steady-state output magnitude for a
// constant input magnitude, makeup included.
func (c *Compressor) CalculateOutputLevel(in float64) float64 {
	in = math.Abs(in)
	return in * c.curve(in) * c.makeup
}

// follow advances the envelope by one detector level and returns the gain
// to apply.
func (c *Compressor) follow(level float64) float64 {
	if level > c.env {
		c.env += (level - c.env) * c.attack
	} else {
		c.env = level + (c.env-level)*c.release
	}

	g := c.curve(c.env)
	c.metrics.InputPeak = max(c.metrics.InputPeak, level)
	c.metrics.GainReduction = min(c.metrics.GainReduction, g)

	return g * c.makeup
}

// curve is the static gain for a detector level.
func (c *Compressor) curve(level float64) float64 {
	if level <= 0 || c.ratio == 1 {
		return 1
	}

	over := log2(level) - c.threshold2
	slope := 1 - 1/c.ratio

	if c.knee2 == 0 {
		if over <= 0 {
			return 1
		}

		return exp2(-over * slope)
	}

	half := c.knee2 / 2

	switch {
	case over <= -half:
		return 1
	case over < half:
		// Quadratic blend across the knee.
		over = (over + half) * (over + half) / (2 * c.knee2)
	}

	return exp2(-over * slope)
}

func (c *Compressor) update() {
	c.threshold2 = c.thresholdDB * dbToLog2
	c.knee2 = c.kneeDB * dbToLog2

	if c.autoMakeup {
		c.makeupDB = -makeupShare * 20 * math.Log10(c.curve(1))
	}

	c.makeup = math.Pow(10, c.makeupDB/20)
	c.attack = 1 - math.Exp(-math.Ln2/(c.attackMs*0.001*c.sampleRate))
	c.release = math.Exp(-math.Ln2 / (c.releaseMs * 0.001 * c.sampleRate))
}
