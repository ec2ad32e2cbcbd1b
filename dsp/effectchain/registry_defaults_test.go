package effectchain

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-lofi/internal/testutil"
)

const defaultTestRate = 48000.0

func newDefaultChain(t *testing.T, s Settings, seed uint64) *Chain {
	t.Helper()

	c, err := New(Context{SampleRate: defaultTestRate, BlockSize: 256, NoiseSeed: seed}, DefaultRegistry(), s)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return c
}

func processBlocks(c *Chain, left, right []float64) {
	const block = 256

	for start := 0; start < len(left); start += block {
		end := min(start+block, len(left))
		c.Process(left[start:end], right[start:end])
	}
}

func TestDefaultRegistryKinds(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	for _, kind := range allKinds {
		if r.Lookup(kind) == nil {
			t.Fatalf("kind %q not registered", kind)
		}
	}
}

func TestDefaultChainSilenceStaysSilent(t *testing.T) {
	t.Parallel()

	c := newDefaultChain(t, NeutralSettings(), 1)
	c.StartSources()

	left := make([]float64, 4096)
	right := make([]float64, 4096)
	processBlocks(c, left, right)

	if p := max(testutil.Peak(left), testutil.Peak(right)); p > 1e-12 {
		t.Fatalf("neutral chain produced peak %g from silence", p)
	}
}

func TestDefaultChainNeutralLevel(t *testing.T) {
	t.Parallel()

	c := newDefaultChain(t, NeutralSettings(), 1)

	left := testutil.DeterministicSine(1000, defaultTestRate, 0.5, 16384)
	right := append([]float64(nil), left...)
	inRMS := testutil.RMS(left[8192:])

	processBlocks(c, left, right)
	testutil.RequireFinite(t, left)

	want := OutputGain * inRMS
	if got := testutil.RMS(left[8192:]); math.Abs(got-want) > 0.1*want {
		t.Fatalf("neutral 1 kHz RMS=%g want about %g", got, want)
	}
}

func TestDefaultChainLatencyIndependentOfVocalDepth(t *testing.T) {
	t.Parallel()

	peakAt := func(depth float64) (int, int) {
		s := NeutralSettings()
		s.VocalReductionDepth = depth
		c := newDefaultChain(t, s, 1)

		left := testutil.Impulse(8192, 2000)
		right := make([]float64, len(left))
		processBlocks(c, left, right)

		best := 0
		for i, x := range left {
			if math.Abs(x) > math.Abs(left[best]) {
				best = i
			}
		}

		return best, c.Latency()
	}

	off, offLat := peakAt(0)
	on, onLat := peakAt(1)

	if offLat != 1024 || onLat != 1024 {
		t.Fatalf("Latency()=%d/%d want 1024", offLat, onLat)
	}

	if off != on {
		t.Fatalf("impulse peak at %d with reduction off, %d with it on", off, on)
	}

	if off < 2000+offLat || off > 2000+offLat+64 {
		t.Fatalf("impulse peak at %d, want just after %d", off, 2000+offLat)
	}
}

func TestDefaultChainNoiseSources(t *testing.T) {
	t.Parallel()

	s := NeutralSettings()
	s.CrackleGainDB = -20
	s.HissGainDB = -30

	t.Run("silent until started", func(t *testing.T) {
		t.Parallel()

		c := newDefaultChain(t, s, 7)

		left := make([]float64, 2048)
		right := make([]float64, 2048)
		processBlocks(c, left, right)

		if p := testutil.Peak(left); p != 0 {
			t.Fatalf("stopped sources produced peak %g", p)
		}
	})

	t.Run("audible once started", func(t *testing.T) {
		t.Parallel()

		c := newDefaultChain(t, s, 7)
		c.StartSources()

		left := make([]float64, 2048)
		right := make([]float64, 2048)
		processBlocks(c, left, right)

		if rms := testutil.RMS(left); rms < 1e-4 {
			t.Fatalf("started sources RMS %g", rms)
		}
	})

	t.Run("seeded renders repeat", func(t *testing.T) {
		t.Parallel()

		render := func() []float64 {
			c := newDefaultChain(t, s, 99)
			c.StartSources()

			left := make([]float64, 1024)
			right := make([]float64, 1024)
			processBlocks(c, left, right)

			return left
		}

		testutil.RequireSliceNearlyEqual(t, render(), render(), 0)
	})
}

func TestDefaultChainFullSettings(t *testing.T) {
	t.Parallel()

	s := Settings{
		CrackleGainDB:         -70,
		HissGainDB:            -80,
		BitDepth:              8,
		ReverbWet:             1,
		LowPassCutoffHz:       2600,
		PlaybackRate:          1,
		Background:            EQBands{LowDB: -12, MidDB: 6, HighDB: -8},
		Position:              Position{X: 0, Y: 0, Z: 0},
		CompressorThresholdDB: -34,
		CompressorRatio:       8.6,
		PitchSemitones:        0,
		VocalReductionDepth:   1,
		HarmonicsAmount:       0.5,
	}

	c := newDefaultChain(t, s, 3)
	c.StartSources()

	left := testutil.DeterministicNoise(5, 0.5, 8192)
	right := testutil.DeterministicNoise(6, 0.5, 8192)
	processBlocks(c, left, right)

	testutil.RequireFinite(t, left)
	testutil.RequireFinite(t, right)

	if testutil.RMS(left) == 0 {
		t.Fatal("full chain produced silence")
	}

	s.PitchSemitones = 12
	s.Position = Position{X: 5}

	tr, err := c.Apply(s)
	if err != nil || tr != ParameterOnlyUpdate {
		t.Fatalf("Apply()=(%v, %v)", tr, err)
	}

	processBlocks(c, left, right)
	testutil.RequireFinite(t, left)
}

func TestNoiseGainDBKeepsNegativeInfinity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		num  map[string]float64
		want float64
	}{
		{"missing", nil, math.Inf(-1)},
		{"minus inf", map[string]float64{"gainDB": math.Inf(-1)}, math.Inf(-1)},
		{"nan", map[string]float64{"gainDB": math.NaN()}, math.Inf(-1)},
		{"finite", map[string]float64{"gainDB": -12}, -12},
	}

	for _, tt := range tests {
		if got := noiseGainDB(Params{Num: tt.num}); got != tt.want {
			t.Fatalf("%s: noiseGainDB()=%g want %g", tt.name, got, tt.want)
		}
	}
}

func TestParseNoiseColor(t *testing.T) {
	t.Parallel()

	if _, err := parseNoiseColor("brown"); err == nil {
		t.Fatal("expected error for unknown color")
	}

	for _, name := range []string{"white", "pink"} {
		c, err := parseNoiseColor(name)
		if err != nil || c.String() != name {
			t.Fatalf("parseNoiseColor(%q)=(%v, %v)", name, c, err)
		}
	}
}
