package lofi

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/effectchain"
	"github.com/cwbudde/algo-lofi/internal/audiofile"
)

// SourceInfo describes the loaded source.
type SourceInfo struct {
	Name       string
	SampleRate float64
	Channels   int
	Frames     int
	Duration   time.Duration
	Mono       bool
}

// Processor loads one source at a time, applies parameter snapshots to its
// effect chain, monitors it live and renders it offline.
//
// All methods are safe for concurrent use. One mutex guards the live chain,
// the transport and the parameter snapshot; the monitor pulls one block at
// a time under it. Export renders through its own chain outside the lock.
type Processor struct {
	mu sync.Mutex

	engine    core.EngineConfig
	registry  *effectchain.Registry
	monitor   Monitor
	log       logrus.FieldLogger
	noiseSeed uint64
	listener  TransportListener

	params     ParameterSet
	settings   effectchain.Settings
	transition effectchain.Transition

	source    *audiofile.Source
	info      SourceInfo
	chain     *effectchain.Chain
	transport *transport

	playing bool
	ended   bool
	closed  bool
	stream  *stream

	blockL, blockR []float64

	renderState atomic.Int32
}

// New creates a processor with default parameters and no source.
func New(opts ...Option) (*Processor, error) {
	var cfg config

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.logger == nil {
		cfg.logger = logrus.StandardLogger()
	}

	p := &Processor{
		engine:    core.NewEngineConfig(cfg.engine...),
		registry:  effectchain.DefaultRegistry(),
		monitor:   cfg.monitor,
		log:       cfg.logger,
		noiseSeed: cfg.noiseSeed,
		listener:  cfg.listener,
		params:    DefaultParameters(),
	}

	p.settings = Map(p.params)
	p.blockL = make([]float64, p.engine.BlockSize)
	p.blockR = make([]float64, p.engine.BlockSize)

	return p, nil
}

// SampleRate returns the engine sample rate.
func (p *Processor) SampleRate() float64 { return p.engine.SampleRate }

func (p *Processor) chainContext() effectchain.Context {
	return effectchain.Context{
		SampleRate: p.engine.SampleRate,
		BlockSize:  p.engine.BlockSize,
		NoiseSeed:  p.noiseSeed,
	}
}

// Load decodes data and makes it the current source with a fresh effect
// chain. Live monitoring of the previous source stops. On failure the
// previous source stays active and the error matches ErrDecode.
func (p *Processor) Load(name string, data []byte) error {
	src, err := audiofile.Decode(data)
	if err != nil {
		p.log.WithFields(logrus.Fields{"name": name, "bytes": len(data)}).WithError(err).Warn("decode failed")
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return p.install(name, src)
}

// LoadReader is Load reading from r.
func (p *Processor) LoadReader(name string, r io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(r, audiofile.MaxInputSize+1))
	if err != nil {
		return fmt.Errorf("%w: read: %w", ErrDecode, err)
	}

	return p.Load(name, data)
}

func (p *Processor) install(name string, src *audiofile.Source) error {
	resampled, err := src.Resample(p.engine.SampleRate)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	mono := src.IsMono()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}

	params := p.params
	p.mu.Unlock()

	settings := Map(params)
	settings.MonoSource = mono

	chain, err := effectchain.New(p.chainContext(), p.registry, settings)
	if err != nil {
		return fmt.Errorf("%w: build chain: %w", ErrDecode, err)
	}

	left, right := resampled.Stereo()
	tr := newTransport(left, right, settings.PlaybackRate)

	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}

	wasPlaying := p.stopLocked()

	p.source = resampled
	p.chain = chain
	p.transport = tr
	p.ended = false
	p.info = SourceInfo{
		Name:       name,
		SampleRate: src.SampleRate,
		Channels:   src.NumChannels(),
		Frames:     src.Frames(),
		Duration:   src.Duration(),
		Mono:       mono,
	}

	// Parameters may have moved while the chain was built.
	p.settings = settings
	if p.params != params {
		p.applyLocked(p.params)
	}

	info := p.info
	p.mu.Unlock()

	if wasPlaying {
		p.stopMonitor()
	}

	p.log.WithFields(logrus.Fields{
		"name":        info.Name,
		"sample_rate": info.SampleRate,
		"channels":    info.Channels,
		"duration":    info.Duration.String(),
		"mono":        info.Mono,
	}).Info("source loaded")

	return nil
}

// ApplyParameters clamps ps, maps it to stage settings and writes them into
// the live chain. It reports whether the chain was updated in place or
// rebuilt. Parameters applied before a source is loaded are used when one
// arrives.
func (p *Processor) ApplyParameters(ps ParameterSet) effectchain.Transition {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.applyLocked(ps)
}

// Update applies a partial parameter change.
func (p *Processor) Update(u ParameterUpdate) effectchain.Transition {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.applyLocked(u.Apply(p.params))
}

func (p *Processor) applyLocked(ps ParameterSet) effectchain.Transition {
	p.params = ps.Clamped()

	settings := Map(p.params)
	settings.MonoSource = p.info.Mono

	tr := effectchain.Plan(p.settings, settings)

	if p.chain != nil {
		applied, err := p.chain.Apply(settings)
		if err != nil {
			// Stage runtimes clamp their inputs, so this is a broken registry.
			p.log.WithError(err).Error("apply parameters")
			return tr
		}

		tr = applied
		p.transport.setRate(settings.PlaybackRate)
	}

	p.settings = settings
	p.transition = tr

	p.log.WithFields(logrus.Fields{
		"transition": tr.String(),
		"settings":   settings.String(),
	}).Debug("parameters applied")

	return tr
}

// Parameters returns the current (clamped) parameter set.
func (p *Processor) Parameters() ParameterSet {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.params
}

// Settings returns the stage settings derived from the current parameters.
func (p *Processor) Settings() effectchain.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.settings
}

// Transition returns the kind of the last parameter application.
func (p *Processor) Transition() effectchain.Transition {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.transition
}

// Topology returns the active stage order, or nil without a source.
func (p *Processor) Topology() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.chain == nil {
		return nil
	}

	return p.chain.Topology()
}

// Source describes the loaded source. ok is false before the first load.
func (p *Processor) Source() (info SourceInfo, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.info, p.source != nil
}

// Peaks returns waveform points of the loaded source.
func (p *Processor) Peaks(buckets int) []float64 {
	p.mu.Lock()
	src := p.source
	p.mu.Unlock()

	if src == nil {
		return nil
	}

	return audiofile.Peaks(src, buckets)
}

// Playing reports whether live monitoring is active.
func (p *Processor) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.playing
}

// Play starts live monitoring from the beginning of the source together
// with the noise sources. Playing while already playing does nothing.
func (p *Processor) Play() error {
	p.mu.Lock()

	switch {
	case p.closed:
		p.mu.Unlock()
		return ErrClosed
	case p.source == nil:
		p.mu.Unlock()
		return ErrNotLoaded
	case p.playing:
		p.mu.Unlock()
		return nil
	}

	p.transport.rewind()
	p.chain.StartSources()
	p.playing = true
	p.ended = false

	s := &stream{p: p}
	p.stream = s
	p.mu.Unlock()

	if p.monitor != nil {
		if err := p.monitor.Start(s); err != nil {
			p.mu.Lock()
			if p.stream == s {
				p.stopLocked()
			}
			p.mu.Unlock()

			return fmt.Errorf("lofi: start monitor: %w", err)
		}
	}

	p.log.Info("playback started")
	p.emit(TransportPlaying)

	return nil
}

// Stop ends live monitoring and silences the noise sources. Stopping while
// stopped does nothing. Stop never affects an export.
func (p *Processor) Stop() error {
	p.mu.Lock()
	wasPlaying := p.stopLocked()
	p.mu.Unlock()

	if !wasPlaying {
		return nil
	}

	return p.stopMonitor()
}

func (p *Processor) stopLocked() bool {
	if !p.playing {
		return false
	}

	p.playing = false
	p.stream = nil

	if p.chain != nil {
		p.chain.StopSources()
	}

	return true
}

func (p *Processor) stopMonitor() error {
	var err error
	if p.monitor != nil {
		if err = p.monitor.Stop(); err != nil {
			err = fmt.Errorf("lofi: stop monitor: %w", err)
		}
	}

	p.log.Info("playback stopped")
	p.emit(TransportStopped)

	return err
}

// Reset restores the default parameters and clears all processing state
// of the live chain.
func (p *Processor) Reset() effectchain.Transition {
	p.mu.Lock()
	defer p.mu.Unlock()

	tr := p.applyLocked(DefaultParameters())
	if p.chain != nil {
		p.chain.Reset()
	}

	return tr
}

// Close stops monitoring and releases the source. Further calls return
// ErrClosed.
func (p *Processor) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}

	wasPlaying := p.stopLocked()
	p.closed = true
	p.source = nil
	p.chain = nil
	p.transport = nil
	p.mu.Unlock()

	if wasPlaying {
		return p.stopMonitor()
	}

	return nil
}

func (p *Processor) emit(ev TransportEvent) {
	if p.listener != nil {
		p.listener(ev)
	}
}

// stream is the reader handed to the Monitor. It renders the live chain on
// demand and reports io.EOF once monitoring stopped or moved on.
type stream struct {
	p   *Processor
	out bytes.Buffer
}

const bytesPerFrame = 8

func (s *stream) Read(dst []byte) (int, error) {
	frames := len(dst) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}

	p := s.p
	p.mu.Lock()

	if p.stream != s {
		p.mu.Unlock()
		return 0, io.EOF
	}

	endedNow := false
	s.out.Reset()

	for done := 0; done < frames; {
		n := min(frames-done, len(p.blockL))
		l, r := p.blockL[:n], p.blockR[:n]

		wasEnded := p.transport.ended()
		p.transport.read(l, r)
		p.chain.Process(l, r)

		if !wasEnded && p.transport.ended() && !p.ended {
			p.ended = true
			endedNow = true
		}

		writeFloat32Frames(&s.out, l, r)
		done += n
	}

	p.mu.Unlock()

	if endedNow {
		p.log.Info("source ended")
		p.emit(TransportEnded)
	}

	return copy(dst, s.out.Bytes()), nil
}

func writeFloat32Frames(w *bytes.Buffer, left, right []float64) {
	var b [bytesPerFrame]byte

	for i := range left {
		binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(left[i])))
		binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(right[i])))
		w.Write(b[:])
	}
}
