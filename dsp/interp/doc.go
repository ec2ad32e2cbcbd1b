// Package interp holds the fractional-sample interpolator shared by the
// delay line and the tempo transport.
package interp
