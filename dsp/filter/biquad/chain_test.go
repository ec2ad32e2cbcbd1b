package biquad

import (
	"math"
	"testing"
)

func twoSectionCoeffs() []Coefficients {
	return []Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
		{B0: 0.1, B1: 0.2, B2: 0.1, A1: -0.5, A2: 0.1},
	}
}

func TestChainMatchesManualCascade(t *testing.T) {
	coeffs := twoSectionCoeffs()
	s1 := NewSection(coeffs[0])
	s2 := NewSection(coeffs[1])
	chain := NewChain(coeffs)

	if chain.Order() != 4 {
		t.Fatalf("Order()=%d want 4", chain.Order())
	}

	buf := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}
	want := make([]float64, len(buf))

	for i, x := range buf {
		want[i] = s2.ProcessSample(s1.ProcessSample(x))
	}

	chain.ProcessBlock(buf)

	for i := range buf {
		if !almostEqual(buf[i], want[i], eps) {
			t.Fatalf("sample %d: chain=%.15f, ref=%.15f", i, buf[i], want[i])
		}
	}
}

func TestChainUpdateCoefficientsKeepsState(t *testing.T) {
	c := NewChain(twoSectionCoeffs())
	for range 16 {
		c.ProcessSample(1)
	}

	before := c.State()

	c.UpdateCoefficients([]Coefficients{{B0: 1}, {B0: 1}})

	after := c.State()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("section %d state changed: %v -> %v", i, before[i], after[i])
		}
	}

	if got := c.Coefficients(); got[0].B0 != 1 || got[1].B0 != 1 {
		t.Fatalf("coefficients not applied: %+v", got)
	}
}

func TestChainUpdateCoefficientsResize(t *testing.T) {
	c := NewChain(twoSectionCoeffs())
	c.ProcessSample(1)
	c.UpdateCoefficients([]Coefficients{{B0: 0.5}})

	if c.Order() != 2 {
		t.Fatalf("Order()=%d want 2", c.Order())
	}

	if c.State()[0] != [2]float64{} {
		t.Fatalf("expected fresh state, got %v", c.State()[0])
	}

	if got := c.ProcessSample(1); got != 0.5 {
		t.Fatalf("ProcessSample = %v, want 0.5", got)
	}
}

func TestChainResetClearsState(t *testing.T) {
	c := NewChain(twoSectionCoeffs())
	c.ProcessSample(1)
	c.Reset()

	for i, st := range c.State() {
		if st != [2]float64{} {
			t.Fatalf("section %d not cleared: %v", i, st)
		}
	}
}

func TestChainResponseIsProduct(t *testing.T) {
	coeffs := twoSectionCoeffs()
	c := NewChain(coeffs)

	for _, f := range []float64{0, 500, 5000, 15000} {
		want := coeffs[0].MagnitudeDB(f, 44100) + coeffs[1].MagnitudeDB(f, 44100)
		if got := c.MagnitudeDB(f, 44100); !almostEqual(got, want, 1e-9) {
			t.Fatalf("MagnitudeDB(%v)=%v want %v", f, got, want)
		}
	}
}

func TestChainStabilityLongRun(t *testing.T) {
	c := NewChain(twoSectionCoeffs())
	for i := range 100000 {
		y := c.ProcessSample(math.Sin(float64(i) * 0.01))
		if math.IsNaN(y) || math.IsInf(y, 0) {
			t.Fatalf("unstable output at %d: %v", i, y)
		}
	}
}
