// Package effects provides the stage kernels of the lo-fi chain.
//
// Subpackages:
//   - github.com/cwbudde/algo-lofi/dsp/effects/dynamics
//   - github.com/cwbudde/algo-lofi/dsp/effects/pitch
//   - github.com/cwbudde/algo-lofi/dsp/effects/reverb
//
// Effects in this package:
//   - BitCrusher: integer bit-depth quantizer with optional sample-and-hold.
//   - Noise: white and pink noise generators that are silent while stopped.
//   - EQ3: three-band equalizer on Linkwitz-Riley crossovers.
//   - Panner3D: listener-relative equal-power panning with distance gain.
//   - Exciter: high-band saturation added back to the dry signal.
//   - VocalReducer: STFT mask that removes center-panned energy in the voice band.
//
// Kernels never allocate while processing and accept parameter writes
// between any two blocks.
package effects
