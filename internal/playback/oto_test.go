package playback

import (
	"errors"
	"testing"
	"time"
)

func TestNewOtoValidation(t *testing.T) {
	tests := []struct {
		name    string
		rate    int
		opts    []Option
		wantErr bool
	}{
		{name: "default", rate: 44100},
		{name: "buffer", rate: 48000, opts: []Option{WithBufferSize(50 * time.Millisecond)}},
		{name: "nil option", rate: 48000, opts: []Option{nil}},
		{name: "rate too low", rate: 4000, wantErr: true},
		{name: "rate too high", rate: 768000, wantErr: true},
		{name: "negative buffer", rate: 44100, opts: []Option{WithBufferSize(-time.Millisecond)}, wantErr: true},
		{name: "huge buffer", rate: 44100, opts: []Option{WithBufferSize(2 * time.Second)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewOto(tt.rate, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewOto() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err == nil && o.SampleRate() != tt.rate {
				t.Fatalf("SampleRate()=%d want %d", o.SampleRate(), tt.rate)
			}
		})
	}
}

func TestStopWithoutStart(t *testing.T) {
	o, err := NewOto(44100)
	if err != nil {
		t.Fatal(err)
	}

	if err := o.Stop(); !errors.Is(err, errNotStarted) {
		t.Fatalf("Stop() error = %v", err)
	}

	if o.Playing() {
		t.Fatal("Playing() before Start")
	}
}
