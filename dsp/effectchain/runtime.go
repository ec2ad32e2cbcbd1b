package effectchain

// Runtime is the per-stage processing and configuration contract. Process
// transforms a stereo block in place.
type Runtime interface {
	Configure(ctx Context, params Params) error
	Process(left, right []float64)
}

// Source is implemented by runtimes that generate signal without input,
// such as the noise branches. Sources are silent until started.
type Source interface {
	Start()
	Stop()
	Running() bool
}

// Resetter is implemented by runtimes that hold processing state.
type Resetter interface {
	Reset()
}

// Latent is implemented by runtimes that delay their output by a fixed
// number of frames.
type Latent interface {
	Latency() int
}
