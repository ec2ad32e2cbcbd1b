package testutil

import (
	"math"
	"math/rand/v2"
)

// DeterministicSine returns length samples of a sine starting at phase zero.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	w := 2 * math.Pi * freqHz / sampleRate

	return fill(length, func(i int) float64 {
		return amplitude * math.Sin(w*float64(i))
	})
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude).
// The same seed always yields the same samples.
func DeterministicNoise(seed uint64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	return fill(length, func(int) float64 {
		return amplitude * (2*rng.Float64() - 1)
	})
}

// Impulse returns a unit impulse at pos. An out-of-range pos gives silence.
func Impulse(length, pos int) []float64 {
	return fill(length, func(i int) float64 {
		if i == pos {
			return 1
		}

		return 0
	})
}

// DC returns a constant signal.
func DC(value float64, length int) []float64 {
	return fill(length, func(int) float64 { return value })
}

// RMS returns the root mean square of data; 0 when empty.
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	var energy float64
	for _, v := range data {
		energy += v * v
	}

	return math.Sqrt(energy / float64(len(data)))
}

// Peak returns the largest magnitude in data.
func Peak(data []float64) float64 {
	var peak float64
	for _, v := range data {
		peak = max(peak, math.Abs(v))
	}

	return peak
}

func fill(length int, gen func(i int) float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = gen(i)
	}

	return out
}
