package lofi

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-lofi/dsp/effectchain"
	"github.com/cwbudde/algo-lofi/internal/audiofile"
)

// RenderState is the offline renderer state.
type RenderState int32

const (
	// RenderIdle is the state before the first export.
	RenderIdle RenderState = iota
	// RenderRendering rejects new exports with ErrBusy.
	RenderRendering
	// RenderCompleted and RenderFailed report how the last export ended.
	// They are kept until the next export starts and, like RenderIdle,
	// accept it.
	RenderCompleted
	RenderFailed
)

// String returns the state name.
func (s RenderState) String() string {
	switch s {
	case RenderIdle:
		return "idle"
	case RenderRendering:
		return "rendering"
	case RenderCompleted:
		return "completed"
	case RenderFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RenderResult is an encoded offline render.
type RenderResult struct {
	Data        []byte
	ContentType string
	Extension   string
	SampleRate  int
	Frames      int
}

// RenderState returns the current export state.
func (p *Processor) RenderState() RenderState {
	return RenderState(p.renderState.Load())
}

// Export renders the whole source at the current tempo through a chain
// built from the current settings and encodes it as 16-bit stereo WAV. The
// live chain and monitoring are untouched.
//
// Only one export runs at a time; a second call fails with ErrBusy. ctx
// cancels the render between blocks. Failures match ErrExport.
func (p *Processor) Export(ctx context.Context) (RenderResult, error) {
	if !p.beginRender() {
		return RenderResult{}, ErrBusy
	}

	res, err := p.export(ctx)

	if err != nil {
		p.renderState.Store(int32(RenderFailed))
	} else {
		p.renderState.Store(int32(RenderCompleted))
	}

	return res, err
}

// beginRender moves the renderer to RenderRendering unless an export is
// already running.
func (p *Processor) beginRender() bool {
	for {
		cur := p.renderState.Load()
		if RenderState(cur) == RenderRendering {
			return false
		}

		if p.renderState.CompareAndSwap(cur, int32(RenderRendering)) {
			return true
		}
	}
}

func (p *Processor) export(ctx context.Context) (RenderResult, error) {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		return RenderResult{}, fmt.Errorf("%w: %w", ErrExport, ErrClosed)
	}

	if p.source == nil {
		p.mu.Unlock()
		return RenderResult{}, fmt.Errorf("%w: %w", ErrExport, ErrNotLoaded)
	}

	src := p.source
	settings := p.settings
	name := p.info.Name
	p.mu.Unlock()

	log := p.log.WithFields(logrus.Fields{"name": name, "tempo": settings.PlaybackRate})
	log.Info("export started")

	left, right, err := renderOffline(ctx, p.registry, p.chainContext(), src, settings)
	if err != nil {
		log.WithError(err).Warn("export failed")
		return RenderResult{}, fmt.Errorf("%w: %w", ErrExport, err)
	}

	var opts []audiofile.EncodeOption
	if p.noiseSeed != 0 {
		opts = append(opts, audiofile.WithDitherSeed(p.noiseSeed))
	}

	rate := int(math.Round(p.engine.SampleRate))

	data, err := audiofile.EncodeWAVBytes(rate, left, right, opts...)
	if err != nil {
		log.WithError(err).Warn("export encode failed")
		return RenderResult{}, fmt.Errorf("%w: %w", ErrExport, err)
	}

	log.WithFields(logrus.Fields{"frames": len(left), "bytes": len(data)}).Info("export finished")

	return RenderResult{
		Data:        data,
		ContentType: audiofile.WAVContentType,
		Extension:   audiofile.WAVExtension,
		SampleRate:  rate,
		Frames:      len(left),
	}, nil
}

// RenderFrames returns the output length for frames source frames played
// at rate.
func RenderFrames(frames int, rate float64) int {
	if frames <= 0 || rate <= 0 {
		return 0
	}

	return int(math.Ceil(float64(frames) / rate))
}

// renderOffline runs src through a fresh chain from t = 0. The chain's
// latency is rendered past the end and trimmed from the start, so the
// output lines up with the source. The noise sources start with the render
// and are stopped when the source duration has elapsed.
func renderOffline(
	ctx context.Context,
	registry *effectchain.Registry,
	cctx effectchain.Context,
	src *audiofile.Source,
	settings effectchain.Settings,
) ([]float64, []float64, error) {
	chain, err := effectchain.New(cctx, registry, settings)
	if err != nil {
		return nil, nil, err
	}

	srcL, srcR := src.Stereo()
	tr := newTransport(srcL, srcR, settings.PlaybackRate)

	total := RenderFrames(src.Frames(), settings.PlaybackRate)
	lat := chain.Latency()
	outL := make([]float64, total+lat)
	outR := make([]float64, total+lat)

	block := max(cctx.BlockSize, 1)

	chain.StartSources()
	defer chain.StopSources()

	for start := 0; start < len(outL); start += block {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		end := min(start+block, len(outL))
		l, r := outL[start:end], outR[start:end]

		tr.read(l, r)
		chain.Process(l, r)
	}

	return outL[lat:], outR[lat:], nil
}
