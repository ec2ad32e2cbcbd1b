package resample

import (
	"errors"
	"fmt"
	"math"
)

// polyphase holds a windowed-sinc prototype and its decomposition into
// up branches.
type polyphase struct {
	taps   []float64
	phases [][]float64
	span   int // longest branch
}

// designPolyphase builds the anti-aliasing lowpass for an up/down ratio.
// The cutoff sits at the lower of the two Nyquist limits, scaled by
// spec.cutoffScale. The taps are normalized to a DC gain of up.
func designPolyphase(up, down int, spec filterSpec) (polyphase, error) {
	if up <= 0 || down <= 0 {
		return polyphase{}, ErrInvalidRatio
	}

	if spec.tapsPerPhase <= 0 {
		return polyphase{}, errors.New("resample: taps per phase must be > 0")
	}

	n := spec.tapsPerPhase * up

	fc := 0.5 / float64(max(up, down)) * spec.cutoffScale
	if fc <= 0 || fc >= 0.5 {
		return polyphase{}, fmt.Errorf("resample: invalid cutoff %.6f", fc)
	}

	taps := make([]float64, n)
	center := 0.5 * float64(n-1)
	sum := 0.0

	for i := range taps {
		t := float64(i) - center
		taps[i] = 2 * fc * sinc(2*fc*t) * kaiser(i, n, spec.kaiserBeta)
		sum += taps[i]
	}

	if sum == 0 {
		return polyphase{}, errors.New("resample: designed zero-sum filter")
	}

	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}

	fir := polyphase{taps: taps, phases: make([][]float64, up)}

	for p := range up {
		branch := make([]float64, 0, (n-p+up-1)/up)
		for i := p; i < n; i += up {
			branch = append(branch, taps[i])
		}

		fir.phases[p] = branch
		fir.span = max(fir.span, len(branch))
	}

	return fir, nil
}

// approximateRatio returns the continued-fraction convergent of v with the
// largest denominator not above maxDen.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1, 1
	}

	pPrev, qPrev := 1.0, 0.0
	p, q := math.Floor(v), 1.0
	x := v

	for {
		frac := x - math.Floor(x)
		if frac == 0 {
			break
		}

		x = 1 / frac
		a := math.Floor(x)

		pNext, qNext := a*p+pPrev, a*q+qPrev
		if qNext > float64(maxDen) {
			break
		}

		pPrev, qPrev = p, q
		p, q = pNext, qNext
	}

	num, den = int(math.Round(p)), int(math.Round(q))
	if num <= 0 || den <= 0 {
		return 1, 1
	}

	g := gcd(num, den)

	return num / g, den / g
}

func gcd(a, b int) int {
	a, b = max(a, -a), max(b, -b)

	for b != 0 {
		a, b = b, a%b
	}

	return max(a, 1)
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	return math.Sin(math.Pi*x) / (math.Pi * x)
}

func kaiser(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1

	return besselI0(beta*math.Sqrt(math.Max(0, 1-t*t))) / besselI0(beta)
}

// besselI0 evaluates the modified Bessel function of order zero by its
// power series.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	q := x * x / 4

	for k := 1; k < 64; k++ {
		term *= q / float64(k*k)
		sum += term

		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
