package effectchain

import "testing"

// stubRuntime is a pass-through Runtime that records its calls.
type stubRuntime struct {
	configureErr   error
	configureCalls int
	processCalls   int
	resetCalls     int
	lastCtx        Context
	lastParams     Params
}

func (s *stubRuntime) Configure(ctx Context, params Params) error {
	s.configureCalls++
	s.lastCtx = ctx
	s.lastParams = params

	return s.configureErr
}

func (s *stubRuntime) Process(_, _ []float64) {
	s.processCalls++
}

func (s *stubRuntime) Reset() {
	s.resetCalls++
}

// constSource writes a constant to both channels while running.
type constSource struct {
	value   float64
	running bool
}

func (c *constSource) Configure(_ Context, _ Params) error { return nil }

func (c *constSource) Process(left, right []float64) {
	v := 0.0
	if c.running {
		v = c.value
	}

	for i := range left {
		left[i] = v
		right[i] = v
	}
}

func (c *constSource) Start()        { c.running = true }
func (c *constSource) Stop()         { c.running = false }
func (c *constSource) Running() bool { return c.running }

var allKinds = []string{
	KindVocalReducer, KindEQ3, KindLowPass, KindPitchShifter, KindPositioner,
	KindCompressor, KindBitCrusher, KindExciter, KindReverb, KindGain, KindNoise,
}

// stubRegistry registers a pass-through stub for every processing kind and
// a constSource emitting sourceValue for the noise kind.
func stubRegistry(sourceValue float64) *Registry {
	r := NewRegistry()

	for _, kind := range allKinds {
		if kind == KindNoise {
			r.MustRegister(kind, func(_ Context) (Runtime, error) {
				return &constSource{value: sourceValue}, nil
			})

			continue
		}

		r.MustRegister(kind, dummyFactory)
	}

	return r
}

func newStubChain(t *testing.T, s Settings) *Chain {
	t.Helper()

	c, err := New(Context{SampleRate: 48000, BlockSize: 128}, stubRegistry(0.25), s)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return c
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
