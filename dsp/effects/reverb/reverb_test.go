package reverb

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-lofi/internal/testutil"
)

const testRate = 44100

func energy(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}

	return sum
}

func newWet(t *testing.T, opts ...Option) *Reverb {
	t.Helper()

	r, err := New(testRate, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := r.SetMix(1); err != nil {
		t.Fatalf("SetMix() error = %v", err)
	}

	return r
}

func TestDefaultMixIsDry(t *testing.T) {
	r, err := New(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if r.Mix() != 0 || r.RT60() != 1.5 {
		t.Fatalf("defaults mix=%g rt60=%g", r.Mix(), r.RT60())
	}

	left := testutil.DeterministicNoise(1, 0.5, 4096)
	right := testutil.DeterministicNoise(2, 0.5, 4096)
	wantL := append([]float64(nil), left...)
	wantR := append([]float64(nil), right...)

	r.ProcessStereo(left, right)

	testutil.RequireSliceNearlyEqual(t, left, wantL, 0)
	testutil.RequireSliceNearlyEqual(t, right, wantR, 0)
}

func TestHadamardMatchesMatrix(t *testing.T) {
	v := [lineCount]float64{1, 2, 3, 4, 5, 6, 7, 8}
	in := v
	hadamard(&v)

	for i := range lineCount {
		var want float64
		for j := range lineCount {
			sign := 1.0
			// Sylvester entry (-1)^popcount(i&j).
			for b := i & j; b != 0; b &= b - 1 {
				sign = -sign
			}

			want += sign * in[j]
		}

		if v[i] != want {
			t.Fatalf("row %d = %v, want %v", i, v[i], want)
		}
	}
}

func TestTailDecays(t *testing.T) {
	r := newWet(t)

	n := 2 * testRate
	left := testutil.Impulse(n, 0)
	right := testutil.Impulse(n, 0)
	r.ProcessStereo(left, right)

	testutil.RequireFinite(t, left)
	testutil.RequireFinite(t, right)

	early := energy(left[testRate/10 : 3*testRate/10])
	late := energy(left[12*testRate/10 : 14*testRate/10])

	if early == 0 {
		t.Fatal("no tail produced")
	}

	// 1.1 s apart at RT60 1.5 s is about 44 dB before damping.
	if late > early*1e-2 {
		t.Fatalf("tail did not decay: early %g late %g", early, late)
	}
}

func TestShorterRT60DecaysFaster(t *testing.T) {
	tail := func(rt60 float64) float64 {
		r := newWet(t, WithRT60(rt60))
		buf := testutil.Impulse(testRate, 0)
		r.ProcessInPlace(buf)

		return energy(buf[testRate/2:])
	}

	if short, long := tail(0.3), tail(3); !(short < long) {
		t.Fatalf("late energy RT60 0.3=%g, 3=%g", short, long)
	}
}

func TestStereoTailsDiffer(t *testing.T) {
	r := newWet(t)

	n := testRate / 2
	left := testutil.Impulse(n, 0)
	right := testutil.Impulse(n, 0)
	r.ProcessStereo(left, right)

	var dot float64
	for i := range left {
		dot += left[i] * right[i]
	}

	corr := dot / math.Sqrt(energy(left)*energy(right))
	if math.Abs(corr) > 0.9 {
		t.Fatalf("left/right correlation %g, want decorrelated tails", corr)
	}
}

func TestResetIsDeterministic(t *testing.T) {
	r := newWet(t, WithModulation(0.004, 0.5))

	first := testutil.DeterministicNoise(3, 0.5, 8192)
	second := append([]float64(nil), first...)

	r.ProcessInPlace(first)
	r.Reset()
	r.ProcessInPlace(second)

	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}

func TestPreDelayHoldsOffTail(t *testing.T) {
	r := newWet(t, WithPreDelay(0.1), WithModulation(0, 0))

	buf := testutil.Impulse(testRate/4, 0)
	r.ProcessInPlace(buf)

	// Nothing can arrive before the pre-delay plus the shortest line.
	if e := energy(buf[:testRate/10+1500]); e != 0 {
		t.Fatalf("energy before first arrival = %g", e)
	}

	if energy(buf) == 0 {
		t.Fatal("no tail after pre-delay")
	}
}

func TestValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("New(0) expected error")
	}

	for name, opt := range map[string]Option{
		"rt60 zero":          WithRT60(0),
		"damping above one":  WithDamping(1.5),
		"pre-delay too long": WithPreDelay(1),
		"mod depth too deep": WithModulation(0.5, 1),
		"negative mod rate":  WithModulation(0.001, -1),
	} {
		if _, err := New(testRate, opt); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	r, _ := New(testRate)
	for _, v := range []float64{-0.1, 1.1, math.NaN()} {
		if err := r.SetMix(v); err == nil {
			t.Fatalf("SetMix(%g) expected error", v)
		}
	}
}
