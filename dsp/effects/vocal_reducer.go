package effects

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-lofi/dsp/delay"
	"github.com/cwbudde/algo-lofi/dsp/window"
)

const (
	vocalReducerFrameSize = 1024
	vocalReducerHopSize   = 256
	vocalReducerLowHz     = 200.0
	vocalReducerHighHz    = 5000.0
	vocalReducerPowerEps  = 1e-20
)

// VocalReducer attenuates center-panned content in the vocal range of a
// stereo signal. Each STFT bin between 200 Hz and 5 kHz gets a similarity
// score from the in-phase correlation of left and right; that fraction of
// the mid signal, scaled by the depth, is subtracted from both channels.
// Hard-panned and out-of-phase material passes through.
//
// Processing adds one frame of latency in every mode. Depth 0 and mono mode
// output the input delayed by that frame and otherwise untouched, so
// switching the reduction on or off never moves the timeline.
type VocalReducer struct {
	sampleRate float64
	depth      float64
	mono       bool

	plan     *algofft.Plan[complex128]
	win      []float64
	olaScale float64
	lowBin   int
	highBin  int

	in    [2][]float64
	out   [2][]float64
	accum [2][]float64
	fill  int
	dry   [2]*delay.Line

	frame    []float64
	spec     [2][]complex128
	time     []complex128
	re, im   []float64
	power    [2][]float64
	crossRe  []float64
	crossTmp []float64
}

// NewVocalReducer creates a reducer at full depth.
func NewVocalReducer(sampleRate float64) (*VocalReducer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("vocal reducer sample rate must be > 0 and finite: %f", sampleRate)
	}

	plan, err := algofft.NewPlan64(vocalReducerFrameSize)
	if err != nil {
		return nil, fmt.Errorf("vocal reducer: failed to create FFT plan: %w", err)
	}

	n := vocalReducerFrameSize
	bins := n/2 + 1

	vr := &VocalReducer{
		sampleRate: sampleRate,
		depth:      1,
		plan:       plan,
		win:        window.Generate(window.TypeHann, n, window.WithPeriodic()),
		frame:      make([]float64, n),
		time:       make([]complex128, n),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		crossRe:    make([]float64, bins),
		crossTmp:   make([]float64, bins),
	}

	vr.olaScale = 1 / window.OverlapAddGain(vr.win, vocalReducerHopSize)
	binHz := sampleRate / float64(n)
	vr.lowBin = int(math.Ceil(vocalReducerLowHz / binHz))
	vr.highBin = min(int(math.Floor(vocalReducerHighHz/binHz)), n/2)

	for ch := range 2 {
		vr.in[ch] = make([]float64, n)
		vr.out[ch] = make([]float64, vocalReducerHopSize)
		vr.accum[ch] = make([]float64, n)
		vr.spec[ch] = make([]complex128, n)
		vr.power[ch] = make([]float64, bins)

		if vr.dry[ch], err = delay.New(n); err != nil {
			return nil, fmt.Errorf("vocal reducer: %w", err)
		}
	}

	vr.Reset()

	return vr, nil
}

// SetDepth sets the fraction of center energy removed, in [0, 1].
func (vr *VocalReducer) SetDepth(depth float64) error {
	if depth < 0 || depth > 1 || math.IsNaN(depth) {
		return fmt.Errorf("vocal reducer depth must be in [0, 1]: %f", depth)
	}

	vr.depth = depth

	return nil
}

// Depth returns the reduction depth.
func (vr *VocalReducer) Depth() float64 { return vr.depth }

// SetMono marks the source as mono. A mono source has no side signal to
// keep, so the reducer passes it through.
func (vr *VocalReducer) SetMono(mono bool) { vr.mono = mono }

// Mono reports whether mono pass-through is active.
func (vr *VocalReducer) Mono() bool { return vr.mono }

// Latency returns the processing delay in samples.
func (vr *VocalReducer) Latency() int { return vocalReducerFrameSize }

// Band returns the processed frequency range in Hz, rounded to FFT bins.
func (vr *VocalReducer) Band() (lowHz, highHz float64) {
	binHz := vr.sampleRate / vocalReducerFrameSize
	return float64(vr.lowBin) * binHz, float64(vr.highBin) * binHz
}

// Reset clears all STFT buffers.
func (vr *VocalReducer) Reset() {
	for ch := range 2 {
		clear(vr.in[ch])
		clear(vr.out[ch])
		clear(vr.accum[ch])
		vr.dry[ch].Reset()
	}

	vr.fill = vocalReducerFrameSize - vocalReducerHopSize
}

// ProcessStereo reduces center content of left and right in place.
func (vr *VocalReducer) ProcessStereo(left, right []float64) error {
	n := min(len(left), len(right))
	bypass := vr.depth == 0 || vr.mono
	hopStart := vocalReducerFrameSize - vocalReducerHopSize

	for i := range n {
		x, y := left[i], right[i]
		vr.in[0][vr.fill] = x
		vr.in[1][vr.fill] = y

		if bypass {
			left[i] = vr.dry[0].Read(vocalReducerFrameSize)
			right[i] = vr.dry[1].Read(vocalReducerFrameSize)
		} else {
			left[i] = vr.out[0][vr.fill-hopStart]
			right[i] = vr.out[1][vr.fill-hopStart]
		}

		vr.dry[0].Write(x)
		vr.dry[1].Write(y)

		vr.fill++
		if vr.fill < vocalReducerFrameSize {
			continue
		}

		// Frames keep running in bypass so the overlap-add output is
		// already settled when the reduction is switched on.
		if err := vr.processFrame(!bypass); err != nil {
			return err
		}

		vr.fill = hopStart
	}

	return nil
}

func (vr *VocalReducer) processFrame(mask bool) error {
	for ch := range 2 {
		if err := window.ApplyTo(vr.frame, vr.in[ch], vr.win); err != nil {
			return fmt.Errorf("vocal reducer: %w", err)
		}

		spec := vr.spec[ch]
		for i, x := range vr.frame {
			spec[i] = complex(x, 0)
		}

		if err := vr.plan.Forward(spec, spec); err != nil {
			return fmt.Errorf("vocal reducer: forward FFT failed: %w", err)
		}

		if mask {
			vr.splitBins(spec)
			vecmath.Power(vr.power[ch], vr.re, vr.im)
		}
	}

	if mask {
		vr.crossSpectrum()
		vr.applyMask()
	}

	for ch := range 2 {
		if err := vr.plan.Inverse(vr.time, vr.spec[ch]); err != nil {
			return fmt.Errorf("vocal reducer: inverse FFT failed: %w", err)
		}

		for i, c := range vr.time {
			vr.frame[i] = real(c)
		}

		vecmath.MulBlockInPlace(vr.frame, vr.win)

		acc := vr.accum[ch]
		for i, x := range vr.frame {
			acc[i] += x
		}

		for i := range vocalReducerHopSize {
			vr.out[ch][i] = acc[i] * vr.olaScale
		}

		copy(acc, acc[vocalReducerHopSize:])
		clear(acc[vocalReducerFrameSize-vocalReducerHopSize:])
	}

	vr.shiftInput()

	return nil
}

// crossSpectrum stores Re(L * conj(R)) per bin in crossRe.
func (vr *VocalReducer) crossSpectrum() {
	l, r := vr.spec[0], vr.spec[1]

	vr.splitBins(l)
	for k := range vr.crossRe {
		vr.crossRe[k] = real(r[k])
		vr.crossTmp[k] = imag(r[k])
	}

	// re(L)*re(R) + im(L)*im(R)
	vecmath.MulBlockInPlace(vr.crossRe, vr.re)
	vecmath.MulBlockInPlace(vr.crossTmp, vr.im)

	for k := range vr.crossRe {
		vr.crossRe[k] += vr.crossTmp[k]
	}
}

func (vr *VocalReducer) applyMask() {
	n := vocalReducerFrameSize
	l, r := vr.spec[0], vr.spec[1]

	for k := vr.lowBin; k <= vr.highBin; k++ {
		total := vr.power[0][k] + vr.power[1][k]
		if total < vocalReducerPowerEps {
			continue
		}

		similarity := 2 * math.Max(vr.crossRe[k], 0) / total
		amount := complex(vr.depth*similarity*0.5, 0)
		mid := (l[k] + r[k]) * amount

		l[k] -= mid
		r[k] -= mid

		if k > 0 && k < n/2 {
			l[n-k] = complex(real(l[k]), -imag(l[k]))
			r[n-k] = complex(real(r[k]), -imag(r[k]))
		}
	}
}

func (vr *VocalReducer) splitBins(spec []complex128) {
	for k := range vr.re {
		vr.re[k] = real(spec[k])
		vr.im[k] = imag(spec[k])
	}
}

func (vr *VocalReducer) shiftInput() {
	for ch := range 2 {
		copy(vr.in[ch], vr.in[ch][vocalReducerHopSize:])
	}
}
