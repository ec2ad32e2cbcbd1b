package effects

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

// NoiseColor selects the spectral tilt of a [Noise] generator.
type NoiseColor int

const (
	// NoiseWhite has a flat spectrum (tape hiss).
	NoiseWhite NoiseColor = iota
	// NoisePink falls at 3 dB per octave (vinyl surface noise).
	NoisePink
)

// String returns the color name.
func (c NoiseColor) String() string {
	switch c {
	case NoiseWhite:
		return "white"
	case NoisePink:
		return "pink"
	default:
		return fmt.Sprintf("NoiseColor(%d)", int(c))
	}
}

// NoiseOption mutates noise generator construction parameters.
type NoiseOption func(*noiseConfig) error

type noiseConfig struct {
	seed   uint64
	gainDB float64
}

// WithNoiseSeed fixes the generator seed so renders are reproducible.
func WithNoiseSeed(seed uint64) NoiseOption {
	return func(cfg *noiseConfig) error {
		cfg.seed = seed
		return nil
	}
}

// WithNoiseGainDB sets the initial output level in dB.
func WithNoiseGainDB(db float64) NoiseOption {
	return func(cfg *noiseConfig) error {
		if math.IsNaN(db) || math.IsInf(db, 1) {
			return fmt.Errorf("noise gain must be finite or -Inf: %f", db)
		}

		cfg.gainDB = db

		return nil
	}
}

// Noise is a mono noise source that emits silence until started.
//
// Pink noise uses Paul Kellet's refined three-pole filter bank over a
// uniform white source.
type Noise struct {
	color   NoiseColor
	gainDB  float64
	gain    float64
	running bool
	seed    uint64
	rng     *rand.Rand

	b [7]float64
}

// NewNoise creates a stopped noise generator of the given color.
func NewNoise(color NoiseColor, opts ...NoiseOption) (*Noise, error) {
	if color != NoiseWhite && color != NoisePink {
		return nil, fmt.Errorf("noise color must be white or pink: %d", color)
	}

	cfg := noiseConfig{seed: rand.Uint64()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	n := &Noise{color: color, seed: cfg.seed}
	n.rng = rand.New(rand.NewPCG(cfg.seed, uint64(color)))
	n.gainDB = cfg.gainDB
	n.gain = core.DBToLinear(cfg.gainDB)

	return n, nil
}

// Start begins emitting noise.
func (n *Noise) Start() { n.running = true }

// Stop silences the generator.
func (n *Noise) Stop() { n.running = false }

// Running reports whether the generator emits noise.
func (n *Noise) Running() bool { return n.running }

// Color returns the noise color.
func (n *Noise) Color() NoiseColor { return n.color }

// SetGainDB sets the output level in dB. -Inf silences the output.
func (n *Noise) SetGainDB(db float64) error {
	if math.IsNaN(db) || math.IsInf(db, 1) {
		return fmt.Errorf("noise gain must be finite or -Inf: %f", db)
	}

	n.gainDB = db
	n.gain = core.DBToLinear(db)

	return nil
}

// GainDB returns the output level in dB.
func (n *Noise) GainDB() float64 { return n.gainDB }

// Reset restarts the random sequence from the seed and clears the pink
// filter state. The running flag is left untouched.
func (n *Noise) Reset() {
	n.rng = rand.New(rand.NewPCG(n.seed, uint64(n.color)))
	n.b = [7]float64{}
}

// Generate overwrites buf with noise, or with zeros while stopped.
func (n *Noise) Generate(buf []float64) {
	if !n.running {
		core.Zero(buf)
		return
	}

	for i := range buf {
		buf[i] = n.next() * n.gain
	}
}

func (n *Noise) next() float64 {
	white := n.rng.Float64()*2 - 1
	if n.color == NoiseWhite {
		return white
	}

	b := &n.b
	b[0] = 0.99886*b[0] + white*0.0555179
	b[1] = 0.99332*b[1] + white*0.0750759
	b[2] = 0.96900*b[2] + white*0.1538520
	b[3] = 0.86650*b[3] + white*0.3104856
	b[4] = 0.55000*b[4] + white*0.5329522
	b[5] = -0.7616*b[5] - white*0.0168980
	pink := b[0] + b[1] + b[2] + b[3] + b[4] + b[5] + b[6] + white*0.5362
	b[6] = white * 0.115926

	return pink * 0.11
}
