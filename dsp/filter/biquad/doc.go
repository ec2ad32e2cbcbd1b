// Package biquad provides the second-order IIR runtime used by the lo-fi
// chain's filters and equalizers.
//
// A [Section] runs Direct Form II Transposed on a single set of
// [Coefficients]. A [Chain] cascades sections for steeper slopes and can
// swap coefficients in place while keeping its state, which lets a control
// surface sweep a cutoff without clicks. Coefficient design lives in
// dsp/filter/design.
package biquad
