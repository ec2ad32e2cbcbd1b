package webdemo

import (
	"testing"

	"github.com/cwbudde/algo-lofi/internal/testutil"
)

func TestAnalyzerFindsSine(t *testing.T) {
	a, err := NewAnalyzer(48000, DefaultSpectrumParams())
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	if got := a.CurveDB([]float64{1000})[0]; got != spectrumFloorDB {
		t.Fatalf("curve before data = %f, want floor", got)
	}

	a.Push(testutil.DeterministicSine(1000, 48000, 0.5, 8192))

	curve := a.CurveDB([]float64{1000, 10000})
	if curve[0] < -12 || curve[0] > 0 {
		t.Fatalf("level at 1 kHz = %.1f dB, want about -6 dB", curve[0])
	}

	if curve[1] > -60 {
		t.Fatalf("level at 10 kHz = %.1f dB, want < -60 dB", curve[1])
	}
}

func TestSanitizeSpectrumParams(t *testing.T) {
	tests := []struct {
		name string
		in   SpectrumParams
		want SpectrumParams
	}{
		{
			name: "defaults fill gaps",
			in:   SpectrumParams{},
			want: SpectrumParams{FFTSize: 2048, Overlap: 0.25, Smoothing: 0, Window: "hann"},
		},
		{
			name: "clamps ranges",
			in:   SpectrumParams{FFTSize: 1024, Overlap: 2, Smoothing: -1, Window: " Blackman "},
			want: SpectrumParams{FFTSize: 1024, Overlap: 0.95, Smoothing: 0, Window: "blackman"},
		},
		{
			name: "odd fft size",
			in:   SpectrumParams{FFTSize: 1000, Overlap: 0.5, Smoothing: 0.5, Window: "hamming"},
			want: SpectrumParams{FFTSize: 2048, Overlap: 0.5, Smoothing: 0.5, Window: "hamming"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeSpectrumParams(tt.in); got != tt.want {
				t.Fatalf("got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestAnalyzerRejectsUnknownWindow(t *testing.T) {
	if _, err := NewAnalyzer(48000, SpectrumParams{Window: "kaiser"}); err == nil {
		t.Fatal("expected error for unknown window")
	}

	if _, err := NewAnalyzer(0, DefaultSpectrumParams()); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}
