package effectchain

import (
	"math"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/effects"
	"github.com/cwbudde/algo-lofi/dsp/effects/dynamics"
)

type compressorRuntime struct {
	fx *dynamics.Compressor
}

func (r *compressorRuntime) Configure(_ Context, p Params) error {
	if err := r.fx.SetThreshold(core.Clamp(p.GetNum("thresholdDB", 0), -100, 0)); err != nil {
		return err
	}

	return r.fx.SetRatio(core.Clamp(p.GetNum("ratio", 1), 1, 20))
}

func (r *compressorRuntime) Process(left, right []float64) {
	r.fx.ProcessStereo(left, right)
}

func (r *compressorRuntime) Reset() { r.fx.Reset() }

type bitCrusherRuntime struct {
	fx *effects.BitCrusher
}

func (r *bitCrusherRuntime) Configure(_ Context, p Params) error {
	bits := int(math.Round(core.Clamp(p.GetNum("bits", 16), 1, 16)))
	return r.fx.SetBitDepth(bits)
}

func (r *bitCrusherRuntime) Process(left, right []float64) {
	r.fx.ProcessStereo(left, right)
}

func (r *bitCrusherRuntime) Reset() { r.fx.Reset() }
