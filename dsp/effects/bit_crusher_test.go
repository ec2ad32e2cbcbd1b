package effects

import (
	"math"
	"testing"
)

func TestNewBitCrusherValidation(t *testing.T) {
	tests := []struct {
		name string
		sr   float64
		opts []BitCrusherOption
	}{
		{"zero sample rate", 0, nil},
		{"bits zero", 44100, []BitCrusherOption{WithBitCrusherBitDepth(0)}},
		{"bits too high", 44100, []BitCrusherOption{WithBitCrusherBitDepth(17)}},
		{"downsample zero", 44100, []BitCrusherOption{WithBitCrusherDownsample(0)}},
		{"downsample too high", 44100, []BitCrusherOption{WithBitCrusherDownsample(257)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBitCrusher(tt.sr, tt.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestBitCrusherLevels(t *testing.T) {
	tests := []struct {
		bits int
		in   float64
		want float64
	}{
		{1, 0.4, 0},
		{1, 0.6, 1},
		{1, -0.7, -1},
		{2, 0.3, 0.5},
		{8, 0.5, 0.5},
		{8, 0.1, math.Round(0.1*128) / 128},
	}

	for _, tt := range tests {
		bc, err := NewBitCrusher(44100, WithBitCrusherBitDepth(tt.bits))
		if err != nil {
			t.Fatal(err)
		}

		if got := bc.ProcessSample(tt.in); got != tt.want {
			t.Errorf("bits=%d in=%v: got %v, want %v", tt.bits, tt.in, got, tt.want)
		}
	}
}

func TestBitCrusherSetBitDepth(t *testing.T) {
	bc, _ := NewBitCrusher(44100)
	if bc.BitDepth() != 8 || bc.Downsample() != 1 {
		t.Fatal("unexpected defaults")
	}

	if err := bc.SetBitDepth(1); err != nil {
		t.Fatal(err)
	}

	if got := bc.ProcessSample(0.2); got != 0 {
		t.Fatalf("1-bit ProcessSample(0.2) = %v, want 0", got)
	}

	if err := bc.SetBitDepth(99); err == nil || bc.BitDepth() != 1 {
		t.Fatal("invalid bit depth must be rejected without changing state")
	}
}

func TestBitCrusherStereoChannelsIndependent(t *testing.T) {
	bc, _ := NewBitCrusher(44100, WithBitCrusherDownsample(2))

	left := []float64{0.5, 0.25, 0.75, 0}
	right := []float64{-0.5, -0.25, -0.75, 0}
	bc.ProcessStereo(left, right)

	// Hold starts on the second sample of each channel.
	want := []float64{0, 0.25, 0.25, 0}
	for i := range want {
		if left[i] != want[i] || right[i] != -want[i] {
			t.Fatalf("frame %d = (%v, %v), want (%v, %v)", i, left[i], right[i], want[i], -want[i])
		}
	}

	bc.Reset()

	if got := bc.ProcessSample(0.5); got != 0 {
		t.Fatalf("after Reset first held value = %v, want 0", got)
	}
}

func TestBitCrusherSixteenBitsIsNearlyTransparent(t *testing.T) {
	bc, _ := NewBitCrusher(44100, WithBitCrusherBitDepth(16))

	buf := []float64{0.123, -0.456, 0.789}
	want := append([]float64(nil), buf...)
	bc.ProcessInPlace(buf)

	for i := range buf {
		if math.Abs(buf[i]-want[i]) > 0.5/32768 {
			t.Fatalf("sample %d moved by more than half a step: %v", i, buf[i])
		}
	}

	if err := bc.SetDownsample(0); err == nil || bc.Downsample() != 1 {
		t.Fatal("downsample 0 must be rejected without changing state")
	}
}
