package effectchain

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/effects"
	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
	"github.com/cwbudde/algo-lofi/dsp/filter/design"
)

const maxEQGainDB = 24.0

type eq3Runtime struct {
	fx            *effects.EQ3
	lowHz, highHz float64
}

func (r *eq3Runtime) Configure(ctx Context, p Params) error {
	lowHz := p.GetNum("lowHz", BackgroundLowHz)
	highHz := p.GetNum("highHz", BackgroundHighHz)

	if r.fx == nil || lowHz != r.lowHz || highHz != r.highHz {
		fx, err := effects.NewEQ3(ctx.SampleRate, lowHz, highHz)
		if err != nil {
			return err
		}

		r.fx, r.lowHz, r.highHz = fx, lowHz, highHz
	}

	return r.fx.SetGains(
		core.Clamp(p.GetNum("lowDB", 0), -maxEQGainDB, maxEQGainDB),
		core.Clamp(p.GetNum("midDB", 0), -maxEQGainDB, maxEQGainDB),
		core.Clamp(p.GetNum("highDB", 0), -maxEQGainDB, maxEQGainDB),
	)
}

func (r *eq3Runtime) Process(left, right []float64) {
	r.fx.ProcessStereo(left, right)
}

func (r *eq3Runtime) Reset() {
	if r.fx != nil {
		r.fx.Reset()
	}
}

// lowPassRuntime is a Butterworth low-pass per channel.
type lowPassRuntime struct {
	chains   [2]*biquad.Chain
	cutoffHz float64
	order    int
}

func (r *lowPassRuntime) Configure(ctx Context, p Params) error {
	order := int(math.Round(core.Clamp(p.GetNum("order", LowPassOrder), 1, 8)))
	cutoff := core.Clamp(p.GetNum("cutoffHz", 20000), 20, 0.45*ctx.SampleRate)

	if r.chains[0] != nil && cutoff == r.cutoffHz && order == r.order {
		return nil
	}

	coeffs := design.ButterworthLP(cutoff, order, ctx.SampleRate)
	if len(coeffs) == 0 {
		return fmt.Errorf("low-pass design failed for cutoff %f", cutoff)
	}

	for ch := range r.chains {
		if r.chains[ch] == nil || order != r.order {
			r.chains[ch] = biquad.NewChain(coeffs)
			continue
		}

		r.chains[ch].UpdateCoefficients(coeffs)
	}

	r.cutoffHz, r.order = cutoff, order

	return nil
}

func (r *lowPassRuntime) Process(left, right []float64) {
	r.chains[0].ProcessBlock(left)
	r.chains[1].ProcessBlock(right)
}

func (r *lowPassRuntime) Reset() {
	for _, c := range r.chains {
		if c != nil {
			c.Reset()
		}
	}
}

type exciterRuntime struct {
	fx *effects.Exciter
}

func (r *exciterRuntime) Configure(_ Context, p Params) error {
	return r.fx.SetAmount(core.Clamp(p.GetNum("amount", 0), 0, 1))
}

func (r *exciterRuntime) Process(left, right []float64) {
	r.fx.ProcessStereo(left, right)
}

func (r *exciterRuntime) Reset() { r.fx.Reset() }

type gainRuntime struct {
	gain float64
}

func (r *gainRuntime) Configure(_ Context, p Params) error {
	r.gain = core.Clamp(p.GetNum("gain", 1), 0, 4)
	return nil
}

func (r *gainRuntime) Process(left, right []float64) {
	core.Scale(left, r.gain)
	core.Scale(right, r.gain)
}
