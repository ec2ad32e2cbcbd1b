package effectchain

import (
	"fmt"
	"math"
)

// Fixed stage settings that no control reaches.
const (
	BackgroundLowHz  = 200.0
	BackgroundHighHz = 2600.0

	ToneLowHz  = 400.0
	ToneHighHz = 2500.0
	ToneLowDB  = 2.0
	ToneMidDB  = 0.0
	ToneHighDB = -2.0

	LowPassOrder      = 4
	ReverbRT60Seconds = 1.5
	OutputGain        = 0.8
)

// EQBands holds three band gains in dB.
type EQBands struct {
	LowDB, MidDB, HighDB float64
}

// IsFlat reports whether every band is at 0 dB.
func (b EQBands) IsFlat() bool {
	return b.LowDB == 0 && b.MidDB == 0 && b.HighDB == 0
}

// Position is a point relative to the listener at the origin.
type Position struct {
	X, Y, Z float64
}

// Settings holds the physical parameters of every stage. It is produced
// from the normalized controls by the parameter mapper and applied to a
// Chain as a whole.
type Settings struct {
	CrackleGainDB float64
	HissGainDB    float64

	BitDepth        int
	ReverbWet       float64
	LowPassCutoffHz float64

	// PlaybackRate drives the source transport, not a stage.
	PlaybackRate float64

	Background EQBands
	Position   Position

	CompressorThresholdDB float64
	CompressorRatio       float64

	PitchSemitones      float64
	VocalReductionDepth float64
	HarmonicsAmount     float64

	// MonoSource marks a source whose channels are identical copies.
	MonoSource bool
}

// NeutralSettings returns settings under which every stage is as close to
// transparent as its design allows: silent noise, no reverb or pitch
// change, a flat background EQ and a 1:1 compressor. The 16-bit crusher,
// tone EQ, low-pass and output gain remain.
func NeutralSettings() Settings {
	return Settings{
		CrackleGainDB:         math.Inf(-1),
		HissGainDB:            math.Inf(-1),
		BitDepth:              16,
		LowPassCutoffHz:       20000,
		PlaybackRate:          1,
		CompressorThresholdDB: 0,
		CompressorRatio:       1,
	}
}

// BackgroundEnabled reports whether the background EQ is part of the chain.
func (s Settings) BackgroundEnabled() bool {
	return !s.Background.IsFlat()
}

// params derives the parameters of one stage from s.
func (s Settings) params(id, kind string) Params {
	p := Params{ID: id, Kind: kind, Num: map[string]float64{}}

	switch id {
	case StageVocalReducer:
		p.Num["depth"] = s.VocalReductionDepth
		p.Num["mono"] = boolNum(s.MonoSource)
	case StageBackgroundEQ:
		p.Num["lowHz"] = BackgroundLowHz
		p.Num["highHz"] = BackgroundHighHz
		p.Num["lowDB"] = s.Background.LowDB
		p.Num["midDB"] = s.Background.MidDB
		p.Num["highDB"] = s.Background.HighDB
	case StageLowPass:
		p.Num["cutoffHz"] = s.LowPassCutoffHz
		p.Num["order"] = LowPassOrder
	case StagePitchShifter:
		p.Num["semitones"] = s.PitchSemitones
	case StagePositioner:
		p.Num["x"] = s.Position.X
		p.Num["y"] = s.Position.Y
		p.Num["z"] = s.Position.Z
	case StageCompressor:
		p.Num["thresholdDB"] = s.CompressorThresholdDB
		p.Num["ratio"] = s.CompressorRatio
	case StageBitCrusher:
		p.Num["bits"] = float64(s.BitDepth)
	case StageToneEQ:
		p.Num["lowHz"] = ToneLowHz
		p.Num["highHz"] = ToneHighHz
		p.Num["lowDB"] = ToneLowDB
		p.Num["midDB"] = ToneMidDB
		p.Num["highDB"] = ToneHighDB
	case StageExciter:
		p.Num["amount"] = s.HarmonicsAmount
	case StageReverb:
		p.Num["wet"] = s.ReverbWet
		p.Num["rt60"] = ReverbRT60Seconds
	case StageOutputGain:
		p.Num["gain"] = OutputGain
	case StageVinylCrackle:
		p.Num["gainDB"] = s.CrackleGainDB
		p.Str = map[string]string{"color": "pink"}
	case StageTapeHiss:
		p.Num["gainDB"] = s.HissGainDB
		p.Str = map[string]string{"color": "white"}
	}

	return p
}

// String renders the settings for logs.
func (s Settings) String() string {
	return fmt.Sprintf(
		"crackle=%.1fdB hiss=%.1fdB bits=%d reverb=%.2f lowpass=%.0fHz rate=%.2f "+
			"background=%.1f/%.1f/%.1fdB pos=(%.1f,%.1f,%.1f) comp=%.1fdB:%.1f "+
			"pitch=%.1fst vocal=%.2f harmonics=%.2f mono=%t",
		s.CrackleGainDB, s.HissGainDB, s.BitDepth, s.ReverbWet, s.LowPassCutoffHz, s.PlaybackRate,
		s.Background.LowDB, s.Background.MidDB, s.Background.HighDB,
		s.Position.X, s.Position.Y, s.Position.Z,
		s.CompressorThresholdDB, s.CompressorRatio,
		s.PitchSemitones, s.VocalReductionDepth, s.HarmonicsAmount, s.MonoSource,
	)
}

func boolNum(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
