// Package design computes IIR coefficients for the chain's filters.
//
// Lowpass and Highpass are RBJ cookbook sections. The Butterworth designers
// cascade them for steeper slopes and the Linkwitz-Riley designers square a
// Butterworth prototype for crossovers. Invalid frequencies yield zero
// coefficients or nil cascades.
package design
