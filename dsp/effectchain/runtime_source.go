package effectchain

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/dsp/effects"
)

// noiseRuntime is a source stage. It ignores its (silent) input and writes
// the same noise to both channels.
type noiseRuntime struct {
	fx      *effects.Noise
	running bool
}

func (r *noiseRuntime) Configure(ctx Context, p Params) error {
	color, err := parseNoiseColor(p.GetStr("color", "white"))
	if err != nil {
		return err
	}

	if r.fx == nil || r.fx.Color() != color {
		var opts []effects.NoiseOption
		if ctx.NoiseSeed != 0 {
			opts = append(opts, effects.WithNoiseSeed(ctx.NoiseSeed))
		}

		fx, err := effects.NewNoise(color, opts...)
		if err != nil {
			return err
		}

		if r.running {
			fx.Start()
		}

		r.fx = fx
	}

	return r.fx.SetGainDB(noiseGainDB(p))
}

// noiseGainDB reads gainDB keeping -Inf, which GetNum would replace.
func noiseGainDB(p Params) float64 {
	db, ok := p.Num["gainDB"]
	if !ok || math.IsNaN(db) || math.IsInf(db, 1) {
		return math.Inf(-1)
	}

	return db
}

func (r *noiseRuntime) Process(left, right []float64) {
	r.fx.Generate(left)
	copy(right, left)
}

func (r *noiseRuntime) Start() {
	r.running = true
	r.fx.Start()
}

func (r *noiseRuntime) Stop() {
	r.running = false
	r.fx.Stop()
}

func (r *noiseRuntime) Running() bool { return r.running }

func (r *noiseRuntime) Reset() { r.fx.Reset() }

func parseNoiseColor(s string) (effects.NoiseColor, error) {
	switch s {
	case "white":
		return effects.NoiseWhite, nil
	case "pink":
		return effects.NoisePink, nil
	default:
		return 0, fmt.Errorf("unknown noise color %q", s)
	}
}
