package audiofile

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-lofi/internal/testutil"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"wav", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), FormatWAV},
		{"id3", []byte("ID3\x04\x00"), FormatMP3},
		{"mpeg sync", []byte{0xFF, 0xFB, 0x90, 0x00}, FormatMP3},
		{"riff not wave", []byte("RIFF\x00\x00\x00\x00AVI "), FormatUnknown},
		{"text", []byte("hello"), FormatUnknown},
		{"empty", nil, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.data); got != tt.want {
				t.Fatalf("Sniff()=%v want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeWAVStereo(t *testing.T) {
	left := testutil.DeterministicSine(440, 22050, 0.5, 2205)
	right := testutil.DeterministicSine(660, 22050, 0.25, 2205)

	src, err := Decode(testutil.WAVBytes(t, 22050, left, right))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if src.SampleRate != 22050 || src.NumChannels() != 2 || src.Frames() != 2205 {
		t.Fatalf("decoded %g Hz, %d ch, %d frames", src.SampleRate, src.NumChannels(), src.Frames())
	}

	// 16-bit round trip is within one LSB.
	testutil.RequireSliceNearlyEqual(t, src.Channels[0], left, 1.0/16384)
	testutil.RequireSliceNearlyEqual(t, src.Channels[1], right, 1.0/16384)

	if src.IsMono() {
		t.Fatal("distinct channels reported as mono")
	}

	if d := src.Duration().Seconds(); math.Abs(d-0.1) > 1e-9 {
		t.Fatalf("Duration()=%g s", d)
	}
}

func TestDecodeWAVMono(t *testing.T) {
	mono := testutil.DeterministicNoise(1, 0.3, 1000)

	src, err := Decode(testutil.WAVBytes(t, 44100, mono))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if !src.IsMono() {
		t.Fatal("single channel not reported as mono")
	}

	l, r := src.Stereo()
	if &l[0] != &r[0] {
		t.Fatal("mono Stereo() should return the channel twice")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"unknown", []byte("definitely not audio"), ErrUnsupported},
		{"too large", make([]byte, MaxInputSize+1), ErrTooLarge},
		{"broken wav", []byte("RIFF\x04\x00\x00\x00WAVE"), ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); !errors.Is(err, tt.want) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeReaderLimit(t *testing.T) {
	r := bytes.NewReader(make([]byte, MaxInputSize+10))

	if _, err := DecodeReader(r); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("DecodeReader() error = %v, want ErrTooLarge", err)
	}
}

func TestSourceResample(t *testing.T) {
	in := testutil.DeterministicSine(1000, 22050, 0.5, 22050)
	src := &Source{SampleRate: 22050, Channels: [][]float64{in}}

	same, err := src.Resample(22050)
	if err != nil || same != src {
		t.Fatalf("Resample(same rate)=(%p, %v)", same, err)
	}

	up, err := src.Resample(44100)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}

	if up.SampleRate != 44100 || up.Frames() != 44100 {
		t.Fatalf("resampled to %g Hz with %d frames", up.SampleRate, up.Frames())
	}

	mid := up.Channels[0][4000:40000]
	if rms := testutil.RMS(mid); math.Abs(rms-0.5/math.Sqrt2) > 0.01 {
		t.Fatalf("resampled RMS=%g", rms)
	}

	if _, err := src.Resample(0); err == nil {
		t.Fatal("Resample(0) expected error")
	}
}
