package design

import (
	"math"

	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
)

// ButterworthLP designs a lowpass cascade of the given order. Odd orders
// end in a first-order section with B2 = A2 = 0; order 4 gives 24 dB/oct.
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	return butterworth(freq, order, sampleRate, Lowpass, func(k float64) biquad.Coefficients {
		return biquad.Coefficients{B0: k / (1 + k), B1: k / (1 + k), A1: (k - 1) / (1 + k)}
	})
}

// ButterworthHP designs the highpass counterpart of ButterworthLP.
func ButterworthHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	return butterworth(freq, order, sampleRate, Highpass, func(k float64) biquad.Coefficients {
		return biquad.Coefficients{B0: 1 / (1 + k), B1: -1 / (1 + k), A1: (k - 1) / (1 + k)}
	})
}

func butterworth(
	freq float64, order int, sampleRate float64,
	second func(freq, q, sampleRate float64) biquad.Coefficients,
	first func(k float64) biquad.Coefficients,
) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	if _, ok := newWarp(freq, 0, sampleRate); !ok {
		return nil
	}

	// Poles sit at angles (2i+1)pi/2n; each conjugate pair becomes one
	// section with Q = 1/(2 sin theta). Lowest Q first keeps the cascade's
	// internal peaks small.
	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		theta := math.Pi * float64(2*i+1) / float64(2*order)
		sections = append(sections, second(freq, 1/(2*math.Sin(theta)), sampleRate))
	}

	if order%2 == 1 {
		sections = append(sections, first(math.Tan(math.Pi*freq/sampleRate)))
	}

	return sections
}
