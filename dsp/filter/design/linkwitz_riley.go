package design

import "github.com/cwbudde/algo-lofi/dsp/filter/biquad"

// LinkwitzRileyLP designs a lowpass Linkwitz-Riley cascade of even order
// by squaring a Butterworth prototype of half the order. The response is
// -6.02 dB at freq. Returns nil for odd or non-positive orders.
func LinkwitzRileyLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || order%2 != 0 {
		return nil
	}

	bw := ButterworthLP(freq, order/2, sampleRate)
	if bw == nil {
		return nil
	}

	return append(bw, bw...)
}

// LinkwitzRileyHP designs the complementary highpass cascade. For orders
// ≡ 2 mod 4 the polarity is flipped so that LP + HP is allpass for every
// even order.
func LinkwitzRileyHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || order%2 != 0 {
		return nil
	}

	bw := ButterworthHP(freq, order/2, sampleRate)
	if bw == nil {
		return nil
	}

	sections := append(bw, bw...)
	if order%4 == 2 {
		sections[0].B0 = -sections[0].B0
		sections[0].B1 = -sections[0].B1
		sections[0].B2 = -sections[0].B2
	}

	return sections
}
