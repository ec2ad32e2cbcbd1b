// Package playback sends rendered audio to the system output device.
package playback

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// The platform allows a single output context per process.
var (
	contextOnce sync.Once
	output      *oto.Context
	contextRate int
	contextErr  error
)

func sharedContext(sampleRate int, bufferSize time.Duration) (*oto.Context, error) {
	contextOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
			BufferSize:   bufferSize,
		})
		if err != nil {
			contextErr = fmt.Errorf("playback: open output: %w", err)
			return
		}

		<-ready

		output = ctx
		contextRate = sampleRate
	})

	if contextErr != nil {
		return nil, contextErr
	}

	if contextRate != sampleRate {
		return nil, fmt.Errorf("playback: output already open at %d Hz, want %d Hz", contextRate, sampleRate)
	}

	return output, nil
}

var errNotStarted = errors.New("playback: not started")

// Option configures an Oto monitor.
type Option func(*Oto) error

// WithBufferSize sets the device buffer duration. Zero selects the
// platform default.
func WithBufferSize(d time.Duration) Option {
	return func(o *Oto) error {
		if d < 0 || d > time.Second {
			return fmt.Errorf("playback: buffer size must be in [0, 1s]: %s", d)
		}

		o.bufferSize = d

		return nil
	}
}

// Oto plays interleaved stereo float32 little-endian frames through the
// default output device. The device is opened on the first Start.
type Oto struct {
	sampleRate int
	bufferSize time.Duration

	mu     sync.Mutex
	player *oto.Player
}

// NewOto creates a monitor for streams at sampleRate.
func NewOto(sampleRate int, opts ...Option) (*Oto, error) {
	if sampleRate < 8000 || sampleRate > 384000 {
		return nil, fmt.Errorf("playback: sample rate must be in [8000, 384000]: %d", sampleRate)
	}

	o := &Oto{sampleRate: sampleRate}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// SampleRate returns the stream sample rate in Hz.
func (o *Oto) SampleRate() int { return o.sampleRate }

// Start begins pulling frames from r. A running stream is replaced.
func (o *Oto) Start(r io.Reader) error {
	ctx, err := sharedContext(o.sampleRate, o.bufferSize)
	if err != nil {
		return err
	}

	player := ctx.NewPlayer(r)

	o.mu.Lock()
	prev := o.player
	o.player = player
	o.mu.Unlock()

	if prev != nil {
		prev.Pause()
		_ = prev.Close()
	}

	player.Play()

	return nil
}

// Stop halts the running stream.
func (o *Oto) Stop() error {
	o.mu.Lock()
	player := o.player
	o.player = nil
	o.mu.Unlock()

	if player == nil {
		return errNotStarted
	}

	player.Pause()

	return player.Close()
}

// Playing reports whether a stream is still being pulled.
func (o *Oto) Playing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.player != nil && o.player.IsPlaying()
}
