// Package webdemo adapts the lo-fi processor to a browser host: the host
// pulls rendered frames, pushes controls as JSON and receives exports as
// bytes.
package webdemo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-lofi/dsp/effectchain"
	"github.com/cwbudde/algo-lofi/internal/lofi"
)

// State is a JSON snapshot of a session.
type State struct {
	Loaded     bool              `json:"loaded"`
	Playing    bool              `json:"playing"`
	Render     string            `json:"render"`
	Transition string            `json:"transition"`
	Parameters lofi.ParameterSet `json:"parameters"`
	Topology   []string          `json:"topology"`
	Source     *SourceState      `json:"source,omitempty"`
}

// SourceState describes the loaded file.
type SourceState struct {
	Name            string  `json:"name"`
	SampleRate      float64 `json:"sampleRate"`
	Channels        int     `json:"channels"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// ExportFile is a rendered file ready for download.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Session owns one processor and the analyzer on its monitored output.
type Session struct {
	proc *lofi.Processor
	mon  *pullMonitor

	mu       sync.Mutex
	analyzer *Analyzer
	mix      []float64

	exportMu   sync.Mutex
	exportNext uint64
	exports    map[uint64]context.CancelFunc
}

// NewSession creates a session at sampleRate. opts are passed to the
// processor; the monitor is supplied by the session.
func NewSession(sampleRate float64, opts ...lofi.Option) (*Session, error) {
	mon := &pullMonitor{}

	all := append([]lofi.Option{lofi.WithSampleRate(sampleRate)}, opts...)
	all = append(all, lofi.WithMonitor(mon))

	proc, err := lofi.New(all...)
	if err != nil {
		return nil, err
	}

	analyzer, err := NewAnalyzer(sampleRate, DefaultSpectrumParams())
	if err != nil {
		return nil, err
	}

	return &Session{
		proc:     proc,
		mon:      mon,
		analyzer: analyzer,
		exports:  map[uint64]context.CancelFunc{},
	}, nil
}

// Processor returns the underlying processor.
func (s *Session) Processor() *lofi.Processor { return s.proc }

// Load replaces the source.
func (s *Session) Load(name string, data []byte) error {
	if err := s.proc.Load(name, data); err != nil {
		return err
	}

	s.mu.Lock()
	s.analyzer.Reset()
	s.mu.Unlock()

	return nil
}

// ApplyJSON applies a JSON object of controls. With partial set, missing
// keys keep their current value; otherwise they return to the default.
func (s *Session) ApplyJSON(data []byte, partial bool) (effectchain.Transition, error) {
	var u lofi.ParameterUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return effectchain.ParameterOnlyUpdate, fmt.Errorf("webdemo: parameters: %w", err)
	}

	if partial {
		return s.proc.Update(u), nil
	}

	return s.proc.ApplyParameters(u.Apply(lofi.DefaultParameters())), nil
}

// Play starts monitoring.
func (s *Session) Play() error { return s.proc.Play() }

// Stop ends monitoring.
func (s *Session) Stop() error { return s.proc.Stop() }

// Render fills dst with interleaved stereo frames of the monitored output
// and returns how many frames came from the processor. Without active
// monitoring dst is silent.
func (s *Session) Render(dst []float32) int {
	n := s.mon.pull(dst)

	s.mu.Lock()
	defer s.mu.Unlock()

	if cap(s.mix) < n {
		s.mix = make([]float64, n)
	}

	mix := s.mix[:n]
	for i := range mix {
		mix[i] = 0.5 * (float64(dst[2*i]) + float64(dst[2*i+1]))
	}

	s.analyzer.Push(mix)

	return n
}

// SetSpectrum reconfigures the output analyzer.
func (s *Session) SetSpectrum(p SpectrumParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.analyzer.SetParams(p)
}

// SetSpectrumJSON overlays a JSON object of analyzer settings on the
// current ones. Missing keys keep their value.
func (s *Session) SetSpectrumJSON(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.analyzer.Params()
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("webdemo: spectrum: %w", err)
	}

	return s.analyzer.SetParams(p)
}

// SpectrumCurveDB returns the output spectrum in dBFS at freqs.
func (s *Session) SpectrumCurveDB(freqs []float64) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.analyzer.CurveDB(freqs)
}

// Peaks returns waveform points of the loaded source.
func (s *Session) Peaks(buckets int) []float64 { return s.proc.Peaks(buckets) }

// Export renders the source offline and names the result after it. The
// render can be stopped through ctx or CancelExport.
func (s *Session) Export(ctx context.Context) (ExportFile, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	id := s.trackExport(cancel)
	defer s.untrackExport(id)

	res, err := s.proc.Export(ctx)
	if err != nil {
		return ExportFile{}, err
	}

	info, _ := s.proc.Source()

	return ExportFile{
		Name:        lofi.DownloadName(info.Name, res.Extension),
		ContentType: res.ContentType,
		Data:        res.Data,
	}, nil
}

// CancelExport stops every export in flight. Calls rejected as busy hold no
// render, so cancelling them as well is harmless.
func (s *Session) CancelExport() {
	s.exportMu.Lock()
	defer s.exportMu.Unlock()

	for _, cancel := range s.exports {
		cancel()
	}
}

func (s *Session) trackExport(cancel context.CancelFunc) uint64 {
	s.exportMu.Lock()
	defer s.exportMu.Unlock()

	s.exportNext++
	s.exports[s.exportNext] = cancel

	return s.exportNext
}

func (s *Session) untrackExport(id uint64) {
	s.exportMu.Lock()
	defer s.exportMu.Unlock()

	delete(s.exports, id)
}

// State returns a snapshot for the host UI.
func (s *Session) State() State {
	st := State{
		Playing:    s.proc.Playing(),
		Render:     s.proc.RenderState().String(),
		Transition: s.proc.Transition().String(),
		Parameters: s.proc.Parameters(),
		Topology:   s.proc.Topology(),
	}

	if info, ok := s.proc.Source(); ok {
		st.Loaded = true
		st.Source = &SourceState{
			Name:            info.Name,
			SampleRate:      info.SampleRate,
			Channels:        info.Channels,
			DurationSeconds: info.Duration.Seconds(),
		}
	}

	return st
}

// Close releases the processor.
func (s *Session) Close() error { return s.proc.Close() }
