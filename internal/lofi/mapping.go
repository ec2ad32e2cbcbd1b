package lofi

import (
	"math"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/effectchain"
)

// Each mapping clamps its input to the control domain first.

func unit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}

	return core.Clamp(v, 0, 1)
}

// CrackleGainDB maps vinylCrackle to the crackle level, -40 to -70 dB.
// The level falls as the control rises.
func CrackleGainDB(v float64) float64 { return -40 - 30*unit(v) }

// HissGainDB maps tapeHiss to the hiss level, -50 to -80 dB.
func HissGainDB(v float64) float64 { return -50 - 30*unit(v) }

// BitDepth maps bitCrush to a quantizer resolution of 1 to 8 bits.
func BitDepth(v float64) int {
	return min(int(math.Floor(unit(v)*7))+1, 8)
}

// ReverbWet maps reverb to the wet fraction.
func ReverbWet(v float64) float64 { return unit(v) }

// LowPassCutoffHz maps lowPass to 500..3500 Hz.
func LowPassCutoffHz(v float64) float64 { return 500 + 3000*unit(v) }

// PlaybackRate maps tempo to the source playback rate in [0.5, 1.5].
func PlaybackRate(v float64) float64 {
	if math.IsNaN(v) {
		return 1
	}

	return core.Clamp(v, 0.5, 1.5)
}

// BackgroundBands maps backgroundReduction to the background EQ gains:
// low and high cut, mid boost.
func BackgroundBands(v float64) effectchain.EQBands {
	v = unit(v)

	return effectchain.EQBands{LowDB: -12 * v, MidDB: 6 * v, HighDB: -8 * v}
}

// Coordinate maps one spatial control to [-5, 5].
func Coordinate(v float64) float64 { return 10*unit(v) - 5 }

// Position maps the three spatial controls to a listener-relative point.
func Position(x, y, z float64) effectchain.Position {
	return effectchain.Position{X: Coordinate(x), Y: Coordinate(y), Z: Coordinate(z)}
}

// CompressorThresholdDB maps compression to -50..-10 dB.
func CompressorThresholdDB(v float64) float64 { return -50 + 40*unit(v) }

// CompressorRatio maps compression to 1..20.
func CompressorRatio(v float64) float64 { return 1 + 19*unit(v) }

// PitchSemitones maps pitchShift to -12..+12 semitones; 0.5 is no shift.
func PitchSemitones(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}

	return 24*unit(v) - 12
}

// VocalReductionDepth maps vocalReduction to the vocal reducer depth.
func VocalReductionDepth(v float64) float64 { return unit(v) }

// HarmonicsAmount maps harmonics to the exciter amount.
func HarmonicsAmount(v float64) float64 { return unit(v) }

// Map derives the settings of every stage from p.
func Map(p ParameterSet) effectchain.Settings {
	p = p.Clamped()

	return effectchain.Settings{
		CrackleGainDB:         CrackleGainDB(p.VinylCrackle),
		HissGainDB:            HissGainDB(p.TapeHiss),
		BitDepth:              BitDepth(p.BitCrush),
		ReverbWet:             ReverbWet(p.Reverb),
		LowPassCutoffHz:       LowPassCutoffHz(p.LowPass),
		PlaybackRate:          PlaybackRate(p.Tempo),
		Background:            BackgroundBands(p.BackgroundReduction),
		Position:              Position(p.SpatialX, p.SpatialY, p.SpatialZ),
		CompressorThresholdDB: CompressorThresholdDB(p.Compression),
		CompressorRatio:       CompressorRatio(p.Compression),
		PitchSemitones:        PitchSemitones(p.PitchShift),
		VocalReductionDepth:   VocalReductionDepth(p.VocalReduction),
		HarmonicsAmount:       HarmonicsAmount(p.Harmonics),
	}
}
