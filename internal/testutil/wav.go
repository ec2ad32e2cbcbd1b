package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVBytes encodes channels as a 16-bit PCM WAV file and returns its bytes.
// All channels must have the same length.
func WAVBytes(t testing.TB, sampleRate int, channels ...[]float64) []byte {
	t.Helper()

	if len(channels) == 0 {
		t.Fatal("WAVBytes: no channels")
	}

	frames := len(channels[0])
	data := make([]int, 0, frames*len(channels))

	for i := range frames {
		for _, ch := range channels {
			v := max(-1, min(1, ch[i]))
			data = append(data, int(v*32767))
		}
	}

	path := filepath.Join(t.TempDir(), "fixture.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("WAVBytes: %v", err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, len(channels), 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: len(channels), SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		t.Fatalf("WAVBytes: write: %v", err)
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("WAVBytes: close: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("WAVBytes: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("WAVBytes: %v", err)
	}

	return out
}
