// Package dither requantizes rendered audio to integer PCM.
//
// A [Quantizer] scales to the target word length, adds rectangular or
// triangular noise and can feed each channel's error back into the next
// sample. Exports use the 16-bit TPDF default.
package dither
