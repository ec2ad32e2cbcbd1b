package audiofile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// Format identifies an encoded container.
type Format int

const (
	// FormatUnknown is any input Sniff does not recognize.
	FormatUnknown Format = iota
	// FormatWAV is RIFF/WAVE.
	FormatWAV
	// FormatMP3 is MPEG audio, with or without an ID3v2 tag.
	FormatMP3
)

// String returns the lower-case format name.
func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatMP3:
		return "mp3"
	default:
		return "unknown"
	}
}

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// Sniff detects the container of data from its leading bytes.
func Sniff(data []byte) Format {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return FormatWAV
	case len(data) >= 3 && string(data[0:3]) == "ID3":
		return FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3
	default:
		return FormatUnknown
	}
}

// Decode decodes a complete WAV or MP3 file.
func Decode(data []byte) (*Source, error) {
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), MaxInputSize)
	}

	var (
		src *Source
		err error
	)

	switch Sniff(data) {
	case FormatWAV:
		src, err = decodeWAV(data)
	case FormatMP3:
		src, err = decodeMP3(data)
	default:
		return nil, ErrUnsupported
	}

	if err != nil {
		return nil, err
	}

	if src.Frames() == 0 {
		return nil, ErrEmpty
	}

	return src, nil
}

// DecodeReader reads r up to MaxInputSize bytes and decodes it.
func DecodeReader(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("audiofile: read: %w", err)
	}

	return Decode(data)
}

func decodeWAV(data []byte) (*Source, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid wav header", ErrUnsupported)
	}

	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("%w: wav audio format %d", ErrUnsupported, dec.WavAudioFormat)
	}

	bits := int(dec.BitDepth)
	if bits != 8 && bits != 16 && bits != 24 && bits != 32 {
		return nil, fmt.Errorf("%w: wav bit depth %d", ErrUnsupported, bits)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: wav: %w", err)
	}

	numCh := buf.Format.NumChannels
	if numCh <= 0 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: wav format %d ch @ %d Hz", ErrUnsupported, numCh, buf.Format.SampleRate)
	}

	// 8-bit WAV is unsigned; wider depths are signed.
	offset := 0
	if bits == 8 {
		offset = 128
	}

	scale := 1 / float64(int64(1)<<(bits-1))
	frames := len(buf.Data) / numCh

	src := &Source{SampleRate: float64(buf.Format.SampleRate), Channels: make([][]float64, numCh)}
	for ch := range src.Channels {
		src.Channels[ch] = make([]float64, frames)
	}

	for i := range frames {
		for ch := range numCh {
			src.Channels[ch][i] = float64(buf.Data[i*numCh+ch]-offset) * scale
		}
	}

	return src, nil
}

func decodeMP3(data []byte) (*Source, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %v", ErrUnsupported, err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("audiofile: mp3: %w", err)
	}

	// go-mp3 always emits interleaved 16-bit little-endian stereo.
	const frameBytes = 4

	frames := len(pcm) / frameBytes
	left := make([]float64, frames)
	right := make([]float64, frames)

	for i := range frames {
		l := int16(binary.LittleEndian.Uint16(pcm[i*frameBytes:]))
		r := int16(binary.LittleEndian.Uint16(pcm[i*frameBytes+2:]))
		left[i] = float64(l) / 32768
		right[i] = float64(r) / 32768
	}

	return &Source{SampleRate: float64(dec.SampleRate()), Channels: [][]float64{left, right}}, nil
}
