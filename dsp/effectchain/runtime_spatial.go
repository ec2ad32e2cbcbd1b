package effectchain

import (
	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/effects"
	"github.com/cwbudde/algo-lofi/dsp/effects/pitch"
	"github.com/cwbudde/algo-lofi/dsp/effects/reverb"
)

const maxPositionOffset = 5.0

type vocalReducerRuntime struct {
	fx *effects.VocalReducer
}

func (r *vocalReducerRuntime) Configure(_ Context, p Params) error {
	r.fx.SetMono(p.GetNum("mono", 0) >= 0.5)
	return r.fx.SetDepth(core.Clamp(p.GetNum("depth", 0), 0, 1))
}

func (r *vocalReducerRuntime) Process(left, right []float64) {
	_ = r.fx.ProcessStereo(left, right)
}

func (r *vocalReducerRuntime) Reset() { r.fx.Reset() }

func (r *vocalReducerRuntime) Latency() int { return r.fx.Latency() }

// pitchRuntime shifts both channels by the same interval with one shifter
// per channel.
type pitchRuntime struct {
	fx [2]*pitch.PitchShifter
}

func newPitchRuntime(sampleRate float64) (*pitchRuntime, error) {
	r := &pitchRuntime{}

	for ch := range r.fx {
		fx, err := pitch.NewPitchShifter(sampleRate)
		if err != nil {
			return nil, err
		}

		r.fx[ch] = fx
	}

	return r, nil
}

func (r *pitchRuntime) Configure(_ Context, p Params) error {
	st := core.Clamp(p.GetNum("semitones", 0), -24, 24)

	for _, fx := range r.fx {
		if err := fx.SetPitchSemitones(st); err != nil {
			return err
		}
	}

	return nil
}

func (r *pitchRuntime) Process(left, right []float64) {
	r.fx[0].ProcessInPlace(left)
	r.fx[1].ProcessInPlace(right)
}

func (r *pitchRuntime) Reset() {
	for _, fx := range r.fx {
		fx.Reset()
	}
}

type positionerRuntime struct {
	fx *effects.Panner3D
}

func (r *positionerRuntime) Configure(_ Context, p Params) error {
	return r.fx.SetPosition(
		core.Clamp(p.GetNum("x", 0), -maxPositionOffset, maxPositionOffset),
		core.Clamp(p.GetNum("y", 0), -maxPositionOffset, maxPositionOffset),
		core.Clamp(p.GetNum("z", 0), -maxPositionOffset, maxPositionOffset),
	)
}

func (r *positionerRuntime) Process(left, right []float64) {
	r.fx.ProcessStereo(left, right)
}

func (r *positionerRuntime) Reset() { r.fx.Reset() }

type reverbRuntime struct {
	fx *reverb.Reverb
}

func (r *reverbRuntime) Configure(_ Context, p Params) error {
	if err := r.fx.SetRT60(core.Clamp(p.GetNum("rt60", ReverbRT60Seconds), 0.1, 10)); err != nil {
		return err
	}

	return r.fx.SetMix(core.Clamp(p.GetNum("wet", 0), 0, 1))
}

func (r *reverbRuntime) Process(left, right []float64) {
	r.fx.ProcessStereo(left, right)
}

func (r *reverbRuntime) Reset() { r.fx.Reset() }
