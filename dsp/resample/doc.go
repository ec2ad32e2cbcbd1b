// Package resample converts decoded sources to the engine sample rate with
// a rational polyphase FIR. [Convert] handles a whole signal at once and
// returns it time-aligned; [Resampler] keeps history for block-wise use.
package resample
