package lofi

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

// Monitor is a live output device. Start begins pulling interleaved stereo
// float32 little-endian frames at the engine rate from r; Stop silences it.
type Monitor interface {
	Start(r io.Reader) error
	Stop() error
}

// TransportListener receives transport events. It is never called with the
// processor lock held, so it may call back into the Processor.
type TransportListener func(TransportEvent)

// Option configures a Processor.
type Option func(*config) error

type config struct {
	engine    []core.EngineOption
	monitor   Monitor
	logger    logrus.FieldLogger
	noiseSeed uint64
	listener  TransportListener
}

// WithSampleRate sets the engine sample rate. Sources are resampled to it.
func WithSampleRate(rate float64) Option {
	return func(cfg *config) error {
		if rate < 8000 || rate > 384000 {
			return fmt.Errorf("lofi: sample rate must be in [8000, 384000]: %f", rate)
		}

		cfg.engine = append(cfg.engine, core.WithSampleRate(rate))

		return nil
	}
}

// WithBlockSize sets the processing block size in frames.
func WithBlockSize(frames int) Option {
	return func(cfg *config) error {
		if frames < 16 || frames > 16384 {
			return fmt.Errorf("lofi: block size must be in [16, 16384]: %d", frames)
		}

		cfg.engine = append(cfg.engine, core.WithBlockSize(frames))

		return nil
	}
}

// WithMonitor sets the live output device. Without one, Play and Stop only
// drive the transport state.
func WithMonitor(m Monitor) Option {
	return func(cfg *config) error {
		if m == nil {
			return errors.New("lofi: nil monitor")
		}

		cfg.monitor = m

		return nil
	}
}

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errors.New("lofi: nil logger")
		}

		cfg.logger = l

		return nil
	}
}

// WithNoiseSeed fixes the noise and dither sequences. Zero keeps them random.
func WithNoiseSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.noiseSeed = seed
		return nil
	}
}

// WithTransportListener registers a receiver for transport events.
func WithTransportListener(fn TransportListener) Option {
	return func(cfg *config) error {
		cfg.listener = fn
		return nil
	}
}
