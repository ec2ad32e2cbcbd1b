package effectchain

// Context provides environmental information that stage runtimes need.
type Context struct {
	SampleRate float64
	BlockSize  int

	// NoiseSeed seeds the noise sources. Zero picks a random seed.
	NoiseSeed uint64
}
