package webdemo

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/window"
)

// SpectrumParams configures the output analyzer.
type SpectrumParams struct {
	FFTSize   int     `json:"fftSize"`
	Overlap   float64 `json:"overlap"`
	Smoothing float64 `json:"smoothing"`
	Window    string  `json:"window"`
}

// DefaultSpectrumParams returns the analyzer settings used by NewSession.
func DefaultSpectrumParams() SpectrumParams {
	return SpectrumParams{
		FFTSize:   defaultFFTSize,
		Overlap:   0.5,
		Smoothing: 0.8,
		Window:    defaultSpectrumWindow,
	}
}

// Analyzer tracks a smoothed magnitude spectrum of the monitored output.
type Analyzer struct {
	sampleRate float64
	params     SpectrumParams

	win     []float64
	winGain float64
	plan    *algofft.Plan[complex128]
	in      []complex128
	out     []complex128

	ring        []float64
	write       int
	filled      int
	samplesToGo int
	hop         int

	db    []float64
	ready bool
}

// NewAnalyzer creates an analyzer for a stream at sampleRate.
func NewAnalyzer(sampleRate float64, p SpectrumParams) (*Analyzer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("spectrum sample rate must be > 0 and finite: %f", sampleRate)
	}

	a := &Analyzer{sampleRate: sampleRate}
	if err := a.SetParams(p); err != nil {
		return nil, err
	}

	return a, nil
}

// SetParams reconfigures the analyzer and discards the current spectrum.
func (a *Analyzer) SetParams(p SpectrumParams) error {
	cfg := sanitizeSpectrumParams(p)

	winType, err := spectrumWindowType(cfg.Window)
	if err != nil {
		return err
	}

	win := window.Generate(winType, cfg.FFTSize, window.WithPeriodic())

	sum := 0.0
	for _, w := range win {
		sum += w
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return fmt.Errorf("spectrum init fft plan: %w", err)
	}

	a.params = cfg
	a.win = win
	a.winGain = sum / float64(cfg.FFTSize)
	a.plan = plan
	a.in = make([]complex128, cfg.FFTSize)
	a.out = make([]complex128, cfg.FFTSize)
	a.ring = make([]float64, cfg.FFTSize)
	a.hop = max(int(math.Round(float64(cfg.FFTSize)*(1-cfg.Overlap))), 1)
	a.Reset()

	return nil
}

// Params returns the sanitized analyzer settings.
func (a *Analyzer) Params() SpectrumParams { return a.params }

// Reset clears the history and the spectrum.
func (a *Analyzer) Reset() {
	clear(a.ring)
	a.write = 0
	a.filled = 0
	a.samplesToGo = 0

	a.db = make([]float64, a.params.FFTSize/2+1)
	for i := range a.db {
		a.db[i] = spectrumFloorDB
	}

	a.ready = false
}

// Push feeds samples of the analyzed signal.
func (a *Analyzer) Push(samples []float64) {
	for _, x := range samples {
		a.push(x)
	}
}

func (a *Analyzer) push(x float64) {
	n := len(a.ring)

	a.ring[a.write] = x

	a.write++
	if a.write >= n {
		a.write = 0
	}

	if a.filled < n {
		a.filled++
	}

	a.samplesToGo++
	if a.filled < n || a.samplesToGo < a.hop {
		return
	}

	a.samplesToGo = 0
	a.updateFrame()
}

func (a *Analyzer) updateFrame() {
	const eps = 1e-12

	n := len(a.ring)

	read := a.write
	for i := range n {
		a.in[i] = complex(a.ring[read]*a.win[i], 0)

		read++
		if read >= n {
			read = 0
		}
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return
	}

	norm := float64(n) * math.Max(a.winGain, eps)

	last := len(a.db) - 1
	for k := 0; k <= last; k++ {
		mag := cmplx.Abs(a.out[k]) / norm
		if k > 0 && k < last {
			mag *= 2
		}

		valDB := math.Max(20*math.Log10(math.Max(eps, mag)), spectrumFloorDB)

		if !a.ready {
			a.db[k] = valDB
			continue
		}

		smooth := a.params.Smoothing
		a.db[k] = smooth*a.db[k] + (1-smooth)*valDB
	}

	a.ready = true
}

// CurveDB returns the spectrum in dBFS at freqs, interpolating between
// bins. Before the first full frame every point is at the floor.
func (a *Analyzer) CurveDB(freqs []float64) []float64 {
	out := make([]float64, len(freqs))
	if !a.ready {
		for i := range out {
			out[i] = spectrumFloorDB
		}

		return out
	}

	binHz := a.sampleRate / float64(a.params.FFTSize)
	last := len(a.db) - 1

	for i, f := range freqs {
		bin := core.Clamp(f, 0, a.sampleRate*0.5) / binHz

		switch {
		case bin <= 0 || math.IsNaN(bin):
			out[i] = a.db[0]
		case bin >= float64(last):
			out[i] = a.db[last]
		default:
			base := int(bin)
			frac := bin - float64(base)
			out[i] = a.db[base] + frac*(a.db[base+1]-a.db[base])
		}
	}

	return out
}

func sanitizeSpectrumParams(p SpectrumParams) SpectrumParams {
	cfg := p
	switch cfg.FFTSize {
	case 256, 512, 1024, 2048, 4096, 8192:
	default:
		cfg.FFTSize = defaultFFTSize
	}

	def := DefaultSpectrumParams()
	if math.IsNaN(cfg.Overlap) {
		cfg.Overlap = def.Overlap
	}

	if math.IsNaN(cfg.Smoothing) {
		cfg.Smoothing = def.Smoothing
	}

	cfg.Overlap = core.Clamp(cfg.Overlap, 0.25, 0.95)
	cfg.Smoothing = core.Clamp(cfg.Smoothing, 0, 0.95)

	cfg.Window = strings.ToLower(strings.TrimSpace(cfg.Window))
	if cfg.Window == "" {
		cfg.Window = defaultSpectrumWindow
	}

	return cfg
}

func spectrumWindowType(name string) (window.Type, error) {
	switch name {
	case spectrumWindowHann:
		return window.TypeHann, nil
	case spectrumWindowHamming:
		return window.TypeHamming, nil
	case spectrumWindowBlackman:
		return window.TypeBlackman, nil
	default:
		return 0, fmt.Errorf("unsupported spectrum window: %s", name)
	}
}
