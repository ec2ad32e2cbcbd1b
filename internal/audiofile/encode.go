package audiofile

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-lofi/dsp/dither"
)

const (
	// WAVContentType is the MIME type of EncodeWAV output.
	WAVContentType = "audio/wav"
	// WAVExtension is the file extension of EncodeWAV output.
	WAVExtension = "wav"

	wavBitDepth = 16
)

// EncodeOption configures EncodeWAV.
type EncodeOption func(*encodeConfig)

type encodeConfig struct {
	seed    uint64
	seeded  bool
	dithers bool
}

// WithDitherSeed makes the TPDF dither sequence reproducible.
func WithDitherSeed(seed uint64) EncodeOption {
	return func(cfg *encodeConfig) {
		cfg.seed = seed
		cfg.seeded = true
	}
}

// WithoutDither rounds to the nearest code instead of dithering.
func WithoutDither() EncodeOption {
	return func(cfg *encodeConfig) { cfg.dithers = false }
}

// EncodeWAV writes left and right as a 16-bit stereo PCM WAV file. Samples
// are TPDF-dithered and clipped to the 16-bit range.
func EncodeWAV(w io.WriteSeeker, sampleRate int, left, right []float64, opts ...EncodeOption) error {
	if sampleRate <= 0 {
		return fmt.Errorf("audiofile: sample rate must be > 0: %d", sampleRate)
	}

	if len(left) != len(right) {
		return fmt.Errorf("audiofile: channel length mismatch: %d != %d", len(left), len(right))
	}

	cfg := encodeConfig{dithers: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	qopts := []dither.Option{dither.WithBitDepth(wavBitDepth)}
	if !cfg.dithers {
		qopts = append(qopts, dither.WithType(dither.None))
	}

	if cfg.seeded {
		qopts = append(qopts, dither.WithRNG(rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15))))
	}

	quant, err := dither.NewQuantizer(qopts...)
	if err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}

	data := make([]int, 2*len(left))
	quant.QuantizeInterleaved(data, left, right)

	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, 2, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audiofile: wav write: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: wav close: %w", err)
	}

	return nil
}

// EncodeWAVBytes is EncodeWAV into memory.
func EncodeWAVBytes(sampleRate int, left, right []float64, opts ...EncodeOption) ([]byte, error) {
	var ws WriteSeeker
	if err := EncodeWAV(&ws, sampleRate, left, right, opts...); err != nil {
		return nil, err
	}

	return ws.Bytes(), nil
}

// WriteSeeker is an in-memory io.WriteSeeker. The WAV encoder seeks back
// to patch chunk sizes once the data is written.
type WriteSeeker struct {
	buf []byte
	pos int
}

var errNegativeOffset = errors.New("audiofile: negative seek offset")

// Write writes p at the current position, growing the buffer as needed.
func (ws *WriteSeeker) Write(p []byte) (int, error) {
	end := ws.pos + len(p)
	if end > len(ws.buf) {
		if end > cap(ws.buf) {
			grown := make([]byte, end, max(end, 2*cap(ws.buf)))
			copy(grown, ws.buf)
			ws.buf = grown
		} else {
			ws.buf = ws.buf[:end]
		}
	}

	copy(ws.buf[ws.pos:], p)
	ws.pos = end

	return len(p), nil
}

// Seek sets the position for the next Write.
func (ws *WriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var base int64

	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(ws.pos)
	case io.SeekEnd:
		base = int64(len(ws.buf))
	default:
		return 0, fmt.Errorf("audiofile: invalid whence %d", whence)
	}

	next := base + offset
	if next < 0 {
		return 0, errNegativeOffset
	}

	ws.pos = int(next)

	return next, nil
}

// Bytes returns the written data.
func (ws *WriteSeeker) Bytes() []byte { return ws.buf }
