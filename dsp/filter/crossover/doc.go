// Package crossover provides Linkwitz-Riley crossover networks.
//
// [Crossover] is a two-way split whose bands sum to an allpass response.
// [ThreeBand] builds the low/mid/high split behind the chain's three-band
// equalizers, with phase alignment on the low band so that unity band gains
// reproduce the input magnitude.
//
//	xo, _ := crossover.NewThreeBand(200, 2600, 4, 44100)
//	lo, mid, hi := xo.ProcessSample(x)
package crossover
