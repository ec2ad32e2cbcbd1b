// Package dynamics provides the chain's dynamic-range processor.
//
// [Compressor] is a soft-knee compressor with a log2-domain gain computer.
// Its detector can be fed per channel or stereo-linked, and its automatic
// makeup gain follows the full-range gain of the curve, so raising the ratio
// or lowering the threshold levels the signal up instead of only down.
//
// Build with -tags fastmath to route the log2/exp2 gain computation through
// github.com/meko-christian/algo-approx.
package dynamics
