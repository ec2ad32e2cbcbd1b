package resample

import (
	"errors"
	"math"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality selects the anti-aliasing filter.
type Quality int

const (
	// QualityFast uses 16 taps per phase, about 55 dB stopband.
	QualityFast Quality = iota
	// QualityBalanced uses 32 taps per phase, about 75 dB stopband.
	QualityBalanced
	// QualityBest uses 64 taps per phase, about 90 dB stopband.
	QualityBest
)

// filterSpec is the prototype lowpass of one quality mode.
type filterSpec struct {
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

func specFor(q Quality) filterSpec {
	switch q {
	case QualityFast:
		return filterSpec{tapsPerPhase: 16, cutoffScale: 0.88, kaiserBeta: 5.0}
	case QualityBest:
		return filterSpec{tapsPerPhase: 64, cutoffScale: 0.96, kaiserBeta: 9.0}
	default:
		return filterSpec{tapsPerPhase: 32, cutoffScale: 0.92, kaiserBeta: 7.5}
	}
}

// maxDenominator bounds the rational approximation of a rate ratio.
const maxDenominator = 4096

type config struct {
	quality Quality
}

// Option configures a Resampler.
type Option func(*config)

// WithQuality selects the anti-aliasing quality. The default is
// QualityBalanced.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// Resampler converts between two sample rates with a polyphase FIR. It keeps
// history between Process calls, so a signal may be fed in blocks.
type Resampler struct {
	up, down int
	quality  Quality
	fir      polyphase

	phase   int
	next    int // absolute index of the input sample under the filter
	seen    int // input samples consumed so far
	history []float64
}

// NewForRates creates a resampler from inRate to outRate. The rate ratio is
// approximated by a fraction with a denominator of at most 4096.
func NewForRates(inRate, outRate float64, opts ...Option) (*Resampler, error) {
	if inRate <= 0 || outRate <= 0 || math.IsNaN(inRate) || math.IsNaN(outRate) ||
		math.IsInf(inRate, 0) || math.IsInf(outRate, 0) {
		return nil, ErrInvalidRate
	}

	cfg := config{quality: QualityBalanced}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	up, down := approximateRatio(outRate/inRate, maxDenominator)

	return newRational(up, down, cfg.quality)
}

func newRational(up, down int, q Quality) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	g := gcd(up, down)
	up /= g
	down /= g

	fir, err := designPolyphase(up, down, specFor(q))
	if err != nil {
		return nil, err
	}

	return &Resampler{
		up:      up,
		down:    down,
		quality: q,
		fir:     fir,
		history: make([]float64, 0, max(0, fir.span-1)),
	}, nil
}

// Convert resamples a complete signal from inRate to outRate. The filter
// latency is removed and the tail flushed, so the result is time-aligned
// with the input and holds round(len(input)*outRate/inRate) samples. Equal
// rates return a copy.
func Convert(input []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	if inRate == outRate && inRate > 0 {
		out := make([]float64, len(input))
		copy(out, input)

		return out, nil
	}

	r, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}

	want := int(math.Round(float64(len(input)) * float64(r.up) / float64(r.down)))
	if want == 0 {
		return []float64{}, nil
	}

	lead := min(int(math.Round(r.Latency())), want)
	flush := int(math.Ceil(float64(len(r.fir.taps))/float64(r.up))) + 1

	out := r.Process(input)
	out = append(out, r.Process(make([]float64, flush))...)
	out = out[min(lead, len(out)):]

	if len(out) >= want {
		return out[:want], nil
	}

	return append(out, make([]float64, want-len(out))...), nil
}

// Latency returns the filter delay in output samples.
func (r *Resampler) Latency() float64 {
	return 0.5 * float64(len(r.fir.taps)-1) / float64(r.down)
}

// Ratio returns the reduced up/down conversion factors.
func (r *Resampler) Ratio() (up, down int) { return r.up, r.down }

// Quality returns the configured quality mode.
func (r *Resampler) Quality() Quality { return r.quality }

// Reset clears the filter history.
func (r *Resampler) Reset() {
	r.phase = 0
	r.next = 0
	r.seen = 0
	r.history = r.history[:0]
}

// Process converts one block of input and returns the output samples it
// completes.
func (r *Resampler) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}

	out := make([]float64, 0, r.outputLen(len(input)))

	work := make([]float64, len(r.history)+len(input))
	copy(work, r.history)
	copy(work[len(r.history):], input)

	first := r.seen - len(r.history)
	last := r.seen + len(input) - 1

	for r.next <= last {
		var y float64

		for k, c := range r.fir.phases[r.phase] {
			idx := r.next - k
			if idx < first {
				break
			}

			if idx <= last {
				y += c * work[idx-first]
			}
		}

		out = append(out, y)

		r.phase += r.down
		r.next += r.phase / r.up
		r.phase %= r.up
	}

	r.seen += len(input)

	keep := min(max(0, r.fir.span-1), len(work))
	r.history = append(r.history[:0], work[len(work)-keep:]...)

	return out
}

// outputLen counts the samples the next Process call of inputLen produces.
func (r *Resampler) outputLen(inputLen int) int {
	last := r.seen + inputLen - 1
	next, phase := r.next, r.phase

	n := 0
	for next <= last {
		n++
		phase += r.down
		next += phase / r.up
		phase %= r.up
	}

	return n
}
