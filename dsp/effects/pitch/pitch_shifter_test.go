package pitch

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-lofi/internal/testutil"
)

const testRate = 44100

// bandEnergy sums DFT power over 1 Hz steps in [loHz, hiHz].
func bandEnergy(x []float64, sampleRate, loHz, hiHz float64) float64 {
	total := 0.0

	for f := loHz; f <= hiHz; f++ {
		w := 2 * math.Pi * f / sampleRate

		var re, im float64
		for n, v := range x {
			re += v * math.Cos(w*float64(n))
			im -= v * math.Sin(w*float64(n))
		}

		total += re*re + im*im
	}

	return total
}

func TestNewPitchShifter(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		opts       []Option
		wantErr    bool
	}{
		{name: "valid 44100", sampleRate: 44100},
		{name: "valid custom window", sampleRate: 48000, opts: []Option{WithWindowSeconds(0.05)}},
		{name: "invalid zero", sampleRate: 0, wantErr: true},
		{name: "invalid NaN", sampleRate: math.NaN(), wantErr: true},
		{name: "invalid +Inf", sampleRate: math.Inf(1), wantErr: true},
		{name: "window too short", sampleRate: 44100, opts: []Option{WithWindowSeconds(0.001)}, wantErr: true},
		{name: "window too long", sampleRate: 44100, opts: []Option{WithWindowSeconds(2)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPitchShifter(tt.sampleRate, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPitchShifter() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && p == nil {
				t.Fatal("NewPitchShifter() returned nil without error")
			}
		})
	}
}

func TestPitchShifterSetPitchSemitones(t *testing.T) {
	p, err := NewPitchShifter(testRate)
	if err != nil {
		t.Fatalf("NewPitchShifter() error = %v", err)
	}

	tests := []struct {
		semitones float64
		ratio     float64
		wantErr   bool
	}{
		{semitones: 0, ratio: 1},
		{semitones: 12, ratio: 2},
		{semitones: -12, ratio: 0.5},
		{semitones: 24, ratio: 4},
		{semitones: 24.5, wantErr: true},
		{semitones: -30, wantErr: true},
		{semitones: math.NaN(), wantErr: true},
	}

	for _, tt := range tests {
		err := p.SetPitchSemitones(tt.semitones)
		if (err != nil) != tt.wantErr {
			t.Fatalf("SetPitchSemitones(%g) error = %v, wantErr %v", tt.semitones, err, tt.wantErr)
		}

		if !tt.wantErr && math.Abs(p.PitchRatio()-tt.ratio) > 1e-12 {
			t.Fatalf("PitchRatio()=%g want %g", p.PitchRatio(), tt.ratio)
		}
	}
}

func TestPitchShifterZeroIsBypass(t *testing.T) {
	p, err := NewPitchShifter(testRate)
	if err != nil {
		t.Fatalf("NewPitchShifter() error = %v", err)
	}

	in := testutil.DeterministicNoise(5, 0.7, 4096)
	buf := append([]float64(nil), in...)
	p.ProcessInPlace(buf)

	testutil.RequireSliceNearlyEqual(t, buf, in, 0)
}

func TestPitchShifterMovesTone(t *testing.T) {
	tests := []struct {
		name      string
		semitones float64
		wantHz    float64
	}{
		{name: "octave up", semitones: 12, wantHz: 880},
		{name: "octave down", semitones: -12, wantHz: 220},
		{name: "fifth up", semitones: 7, wantHz: 440 * math.Exp2(7.0/12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPitchShifter(testRate)
			if err != nil {
				t.Fatalf("NewPitchShifter() error = %v", err)
			}

			if err := p.SetPitchSemitones(tt.semitones); err != nil {
				t.Fatalf("SetPitchSemitones() error = %v", err)
			}

			buf := testutil.DeterministicSine(440, testRate, 0.5, testRate/2)
			p.ProcessInPlace(buf)
			testutil.RequireFinite(t, buf)

			if peak := testutil.Peak(buf); peak > 0.55 {
				t.Fatalf("output peak %g exceeds input level", peak)
			}

			settled := buf[testRate/10:]
			target := bandEnergy(settled, testRate, tt.wantHz-30, tt.wantHz+30)
			source := bandEnergy(settled, testRate, 410, 470)

			if target < 10*source {
				t.Fatalf("energy near %.0f Hz = %g, near 440 Hz = %g", tt.wantHz, target, source)
			}
		})
	}
}

func TestPitchShifterReset(t *testing.T) {
	p, err := NewPitchShifter(testRate)
	if err != nil {
		t.Fatalf("NewPitchShifter() error = %v", err)
	}

	if err := p.SetPitchSemitones(5); err != nil {
		t.Fatalf("SetPitchSemitones() error = %v", err)
	}

	first := testutil.DeterministicNoise(9, 0.5, 2048)
	second := append([]float64(nil), first...)

	p.ProcessInPlace(first)
	p.Reset()
	p.ProcessInPlace(second)

	testutil.RequireSliceNearlyEqual(t, second, first, 1e-15)
}
