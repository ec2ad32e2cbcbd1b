package effectchain

import (
	"github.com/cwbudde/algo-lofi/dsp/effects"
	"github.com/cwbudde/algo-lofi/dsp/effects/dynamics"
	"github.com/cwbudde/algo-lofi/dsp/effects/reverb"
)

// DefaultRegistry returns a Registry with a runtime for every stage kind
// the lo-fi graph uses.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(KindVocalReducer, func(ctx Context) (Runtime, error) {
		fx, err := effects.NewVocalReducer(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		return &vocalReducerRuntime{fx: fx}, nil
	})
	r.MustRegister(KindEQ3, func(_ Context) (Runtime, error) {
		return &eq3Runtime{}, nil
	})
	r.MustRegister(KindLowPass, func(_ Context) (Runtime, error) {
		return &lowPassRuntime{}, nil
	})
	r.MustRegister(KindPitchShifter, func(ctx Context) (Runtime, error) {
		return newPitchRuntime(ctx.SampleRate)
	})
	r.MustRegister(KindPositioner, func(ctx Context) (Runtime, error) {
		fx, err := effects.NewPanner3D(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		return &positionerRuntime{fx: fx}, nil
	})
	r.MustRegister(KindCompressor, func(ctx Context) (Runtime, error) {
		fx, err := dynamics.NewCompressor(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		return &compressorRuntime{fx: fx}, nil
	})
	r.MustRegister(KindBitCrusher, func(ctx Context) (Runtime, error) {
		fx, err := effects.NewBitCrusher(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		return &bitCrusherRuntime{fx: fx}, nil
	})
	r.MustRegister(KindExciter, func(ctx Context) (Runtime, error) {
		fx, err := effects.NewExciter(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		return &exciterRuntime{fx: fx}, nil
	})
	r.MustRegister(KindReverb, func(ctx Context) (Runtime, error) {
		fx, err := reverb.New(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		return &reverbRuntime{fx: fx}, nil
	})
	r.MustRegister(KindGain, func(_ Context) (Runtime, error) {
		return &gainRuntime{gain: 1}, nil
	})
	r.MustRegister(KindNoise, func(_ Context) (Runtime, error) {
		return &noiseRuntime{}, nil
	})

	return r
}
