package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual stops the test at the first sample where got and
// want are more than eps apart.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}

	if i := firstOutside(got, want, eps); i >= 0 {
		t.Fatalf("sample %d: got %v, want %v (|diff| %v > %v)",
			i, got[i], want[i], math.Abs(got[i]-want[i]), eps)
	}
}

// RequireFinite stops the test at the first NaN or infinite sample.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d is %v", i, v)
		}
	}
}

// MaxAbsDiff returns the largest per-sample distance between a and b.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("testutil: cannot compare %d samples with %d", len(a), len(b))
	}

	var worst float64
	for i, v := range a {
		worst = max(worst, math.Abs(v-b[i]))
	}

	return worst, nil
}

func firstOutside(got, want []float64, eps float64) int {
	for i, v := range got {
		if !(math.Abs(v-want[i]) <= eps) {
			return i
		}
	}

	return -1
}
