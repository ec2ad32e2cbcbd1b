package lofi

import (
	"testing"

	"github.com/cwbudde/algo-lofi/internal/testutil"
)

func TestTransportUnitRateIsExact(t *testing.T) {
	left := testutil.DeterministicNoise(1, 0.5, 100)
	right := testutil.DeterministicNoise(2, 0.5, 100)
	tr := newTransport(left, right, 1)

	outL := make([]float64, 128)
	outR := make([]float64, 128)

	if n := tr.read(outL, outR); n != 100 {
		t.Fatalf("read produced %d frames, want 100", n)
	}

	testutil.RequireSliceNearlyEqual(t, outL[:100], left, 0)
	testutil.RequireSliceNearlyEqual(t, outR[:100], right, 0)
	testutil.RequireSliceNearlyEqual(t, outL[100:], make([]float64, 28), 0)

	if !tr.ended() {
		t.Fatal("transport not ended")
	}

	tr.rewind()

	if tr.ended() {
		t.Fatal("rewind did not reset the position")
	}
}

func TestTransportRateChangesLength(t *testing.T) {
	tests := []struct {
		rate float64
		want int
	}{
		{1, 1000},
		{0.5, 2000},
		{1.5, 667},
		{1.25, 800},
	}

	for _, tt := range tests {
		src := testutil.DC(0.25, 1000)
		tr := newTransport(src, src, tt.rate)

		buf := make([]float64, 4096)
		buf2 := make([]float64, 4096)

		if n := tr.read(buf, buf2); n != tt.want {
			t.Fatalf("rate %g produced %d frames want %d", tt.rate, n, tt.want)
		}

		if n := RenderFrames(1000, tt.rate); n != tt.want {
			t.Fatalf("RenderFrames(1000, %g)=%d want %d", tt.rate, n, tt.want)
		}
	}
}

func TestTransportInterpolatesBetweenSamples(t *testing.T) {
	ramp := make([]float64, 64)
	for i := range ramp {
		ramp[i] = float64(i)
	}

	tr := newTransport(ramp, ramp, 0.5)
	out := make([]float64, 40)
	tr.read(out, make([]float64, 40))

	// Hermite reproduces a linear ramp away from the edges.
	for i := 2; i < 40; i++ {
		if want := float64(i) * 0.5; out[i] < want-1e-9 || out[i] > want+1e-9 {
			t.Fatalf("out[%d]=%g want %g", i, out[i], want)
		}
	}
}
