package core

// EngineConfig is the rendering setup every stage of a chain shares.
type EngineConfig struct {
	SampleRate float64
	BlockSize  int
}

// EngineOption adjusts an EngineConfig. Out-of-range values leave the
// field untouched.
type EngineOption func(*EngineConfig)

// DefaultEngineConfig is 44.1 kHz with 512-frame blocks.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{SampleRate: 44100, BlockSize: 512}
}

// WithSampleRate sets the rendering rate in Hz.
func WithSampleRate(hz float64) EngineOption {
	return func(c *EngineConfig) {
		if hz > 0 {
			c.SampleRate = hz
		}
	}
}

// WithBlockSize sets the number of frames processed per block.
func WithBlockSize(frames int) EngineOption {
	return func(c *EngineConfig) {
		if frames > 0 {
			c.BlockSize = frames
		}
	}
}

// NewEngineConfig starts from the defaults and applies opts in order.
func NewEngineConfig(opts ...EngineOption) EngineConfig {
	c := DefaultEngineConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}
