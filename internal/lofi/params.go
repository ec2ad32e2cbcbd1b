package lofi

import (
	"math"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

// ParameterSet holds every user control. All fields are normalized to
// [0, 1] except Tempo, which is a playback-rate multiplier in [0.5, 1.5].
// Out-of-domain values are clamped when applied, never rejected.
type ParameterSet struct {
	VinylCrackle        float64 `json:"vinylCrackle"`
	TapeHiss            float64 `json:"tapeHiss"`
	BitCrush            float64 `json:"bitCrush"`
	Reverb              float64 `json:"reverb"`
	LowPass             float64 `json:"lowPass"`
	Tempo               float64 `json:"tempo"`
	BackgroundReduction float64 `json:"backgroundReduction"`
	SpatialX            float64 `json:"spatialX"`
	SpatialY            float64 `json:"spatialY"`
	SpatialZ            float64 `json:"spatialZ"`
	Compression         float64 `json:"compression"`
	PitchShift          float64 `json:"pitchShift"`
	VocalReduction      float64 `json:"vocalReduction"`
	Harmonics           float64 `json:"harmonics"`
}

// Field describes one control of a ParameterSet.
type Field struct {
	Name    string
	Min     float64
	Max     float64
	Default float64

	ptr func(*ParameterSet) *float64
}

// Get returns the field value of p.
func (f Field) Get(p ParameterSet) float64 { return *f.ptr(&p) }

// Set stores v in the field of p without clamping.
func (f Field) Set(p *ParameterSet, v float64) { *f.ptr(p) = v }

// Clamp limits v to the field domain. NaN maps to the default.
func (f Field) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return f.Default
	}

	return core.Clamp(v, f.Min, f.Max)
}

var fields = []Field{
	{"vinylCrackle", 0, 1, 1, func(p *ParameterSet) *float64 { return &p.VinylCrackle }},
	{"tapeHiss", 0, 1, 1, func(p *ParameterSet) *float64 { return &p.TapeHiss }},
	{"bitCrush", 0, 1, 1, func(p *ParameterSet) *float64 { return &p.BitCrush }},
	{"reverb", 0, 1, 1, func(p *ParameterSet) *float64 { return &p.Reverb }},
	{"lowPass", 0, 1, 0.7, func(p *ParameterSet) *float64 { return &p.LowPass }},
	{"tempo", 0.5, 1.5, 1, func(p *ParameterSet) *float64 { return &p.Tempo }},
	{"backgroundReduction", 0, 1, 1, func(p *ParameterSet) *float64 { return &p.BackgroundReduction }},
	{"spatialX", 0, 1, 0.5, func(p *ParameterSet) *float64 { return &p.SpatialX }},
	{"spatialY", 0, 1, 0.5, func(p *ParameterSet) *float64 { return &p.SpatialY }},
	{"spatialZ", 0, 1, 0.5, func(p *ParameterSet) *float64 { return &p.SpatialZ }},
	{"compression", 0, 1, 0.4, func(p *ParameterSet) *float64 { return &p.Compression }},
	{"pitchShift", 0, 1, 0.5, func(p *ParameterSet) *float64 { return &p.PitchShift }},
	{"vocalReduction", 0, 1, 1, func(p *ParameterSet) *float64 { return &p.VocalReduction }},
	{"harmonics", 0, 1, 0.5, func(p *ParameterSet) *float64 { return &p.Harmonics }},
}

// Fields returns the control table in declaration order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)

	return out
}

// FieldByName looks up a control by its JSON name.
func FieldByName(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// DefaultParameters returns the initial control values.
func DefaultParameters() ParameterSet {
	var p ParameterSet
	for _, f := range fields {
		f.Set(&p, f.Default)
	}

	return p
}

// Clamped returns a copy of p with every field inside its domain.
func (p ParameterSet) Clamped() ParameterSet {
	out := p
	for _, f := range fields {
		f.Set(&out, f.Clamp(f.Get(p)))
	}

	return out
}

// ParameterUpdate changes a subset of controls. Nil fields keep their
// current value.
type ParameterUpdate struct {
	VinylCrackle        *float64 `json:"vinylCrackle,omitempty"`
	TapeHiss            *float64 `json:"tapeHiss,omitempty"`
	BitCrush            *float64 `json:"bitCrush,omitempty"`
	Reverb              *float64 `json:"reverb,omitempty"`
	LowPass             *float64 `json:"lowPass,omitempty"`
	Tempo               *float64 `json:"tempo,omitempty"`
	BackgroundReduction *float64 `json:"backgroundReduction,omitempty"`
	SpatialX            *float64 `json:"spatialX,omitempty"`
	SpatialY            *float64 `json:"spatialY,omitempty"`
	SpatialZ            *float64 `json:"spatialZ,omitempty"`
	Compression         *float64 `json:"compression,omitempty"`
	PitchShift          *float64 `json:"pitchShift,omitempty"`
	VocalReduction      *float64 `json:"vocalReduction,omitempty"`
	Harmonics           *float64 `json:"harmonics,omitempty"`
}

// Apply returns base with the non-nil fields of u replaced.
func (u ParameterUpdate) Apply(base ParameterSet) ParameterSet {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}

	out := base
	set(&out.VinylCrackle, u.VinylCrackle)
	set(&out.TapeHiss, u.TapeHiss)
	set(&out.BitCrush, u.BitCrush)
	set(&out.Reverb, u.Reverb)
	set(&out.LowPass, u.LowPass)
	set(&out.Tempo, u.Tempo)
	set(&out.BackgroundReduction, u.BackgroundReduction)
	set(&out.SpatialX, u.SpatialX)
	set(&out.SpatialY, u.SpatialY)
	set(&out.SpatialZ, u.SpatialZ)
	set(&out.Compression, u.Compression)
	set(&out.PitchShift, u.PitchShift)
	set(&out.VocalReduction, u.VocalReduction)
	set(&out.Harmonics, u.Harmonics)

	return out
}

// Float returns a pointer to v, for building a ParameterUpdate.
func Float(v float64) *float64 { return &v }
