package webdemo

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
)

const bytesPerFrame = 8

// pullMonitor hands the processor stream to a caller that pulls frames on
// its own clock, such as a browser audio worklet.
type pullMonitor struct {
	mu  sync.Mutex
	r   io.Reader
	buf []byte
}

func (m *pullMonitor) Start(r io.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.r = r

	return nil
}

func (m *pullMonitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.r = nil

	return nil
}

// pull fills dst with interleaved stereo frames and returns the number of
// frames taken from the stream. The rest of dst is zeroed.
func (m *pullMonitor) pull(dst []float32) int {
	frames := len(dst) / 2

	m.mu.Lock()
	r := m.r
	m.mu.Unlock()

	got := 0

	if r != nil && frames > 0 {
		if cap(m.buf) < frames*bytesPerFrame {
			m.buf = make([]byte, frames*bytesPerFrame)
		}

		buf := m.buf[:frames*bytesPerFrame]

		n, err := io.ReadFull(r, buf)
		got = n / bytesPerFrame

		for i := range got * 2 {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		}

		if err != nil {
			m.mu.Lock()
			if m.r == r {
				m.r = nil
			}
			m.mu.Unlock()
		}
	}

	clear(dst[got*2:])

	return got
}
