package audiofile

import (
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/algo-lofi/dsp/resample"
)

// MaxInputSize is the largest accepted encoded input in bytes.
const MaxInputSize = 50 << 20

var (
	// ErrUnsupported reports input in a container or encoding that cannot be decoded.
	ErrUnsupported = errors.New("audiofile: unsupported format")
	// ErrTooLarge reports input larger than MaxInputSize.
	ErrTooLarge = errors.New("audiofile: input too large")
	// ErrEmpty reports input that decodes to no audio frames.
	ErrEmpty = errors.New("audiofile: no audio frames")
)

// Source is decoded audio as one float64 slice per channel, in [-1, 1].
// A Source is not modified after decoding.
type Source struct {
	SampleRate float64
	Channels   [][]float64
}

// Frames returns the number of sample frames.
func (s *Source) Frames() int {
	if len(s.Channels) == 0 {
		return 0
	}

	return len(s.Channels[0])
}

// NumChannels returns the channel count.
func (s *Source) NumChannels() int { return len(s.Channels) }

// Duration returns the playing time at the source sample rate.
func (s *Source) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}

	return time.Duration(float64(s.Frames()) / s.SampleRate * float64(time.Second))
}

// Stereo returns left and right channels. A mono source returns its single
// channel twice; extra channels are ignored.
func (s *Source) Stereo() (left, right []float64) {
	switch len(s.Channels) {
	case 0:
		return nil, nil
	case 1:
		return s.Channels[0], s.Channels[0]
	default:
		return s.Channels[0], s.Channels[1]
	}
}

// IsMono reports whether the source carries no stereo information: a single
// channel, or two identical ones.
func (s *Source) IsMono() bool {
	left, right := s.Stereo()
	if len(s.Channels) < 2 {
		return true
	}

	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}

	return true
}

// Resample returns a copy of s converted to rate. The source is returned
// unchanged when the rates already match.
func (s *Source) Resample(rate float64) (*Source, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("audiofile: target sample rate must be > 0: %f", rate)
	}

	if rate == s.SampleRate {
		return s, nil
	}

	out := &Source{SampleRate: rate, Channels: make([][]float64, len(s.Channels))}

	for ch, data := range s.Channels {
		converted, err := resample.Convert(data, s.SampleRate, rate, resample.WithQuality(resample.QualityBalanced))
		if err != nil {
			return nil, fmt.Errorf("audiofile: resample channel %d: %w", ch, err)
		}

		out.Channels[ch] = converted
	}

	return out, nil
}
