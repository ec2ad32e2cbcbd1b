package webdemo

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/cwbudde/algo-lofi/dsp/effectchain"
	"github.com/cwbudde/algo-lofi/internal/lofi"
	"github.com/cwbudde/algo-lofi/internal/testutil"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()

	logger, _ := test.NewNullLogger()

	s, err := NewSession(44100, lofi.WithLogger(logger), lofi.WithNoiseSeed(7), lofi.WithBlockSize(128))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func loadSine(t *testing.T, s *Session, frames int) {
	t.Helper()

	sig := testutil.DeterministicSine(440, 44100, 0.5, frames)
	if err := s.Load("tone.wav", testutil.WAVBytes(t, 44100, sig, sig)); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestSessionRenderFollowsTransport(t *testing.T) {
	s := newTestSession(t)
	loadSine(t, s, 44100)

	buf := make([]float32, 2*512)
	buf[0] = 1

	if n := s.Render(buf); n != 0 || buf[0] != 0 {
		t.Fatalf("Render before Play: n=%d first=%f", n, buf[0])
	}

	if err := s.Play(); err != nil {
		t.Fatal(err)
	}

	if n := s.Render(buf); n != 512 {
		t.Fatalf("Render while playing: n=%d", n)
	}

	peak := float32(0)
	for _, v := range buf {
		peak = max(peak, v, -v)
	}

	if peak == 0 {
		t.Fatal("monitored output is silent")
	}

	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}

	if n := s.Render(buf); n != 0 {
		t.Fatalf("Render after Stop: n=%d", n)
	}
}

func TestSessionApplyJSON(t *testing.T) {
	s := newTestSession(t)
	loadSine(t, s, 4096)

	if _, err := s.ApplyJSON([]byte(`{"reverb":0.2,"tempo":0.75}`), true); err != nil {
		t.Fatal(err)
	}

	ps := s.State().Parameters
	if ps.Reverb != 0.2 || ps.Tempo != 0.75 || ps.BitCrush != 1 {
		t.Fatalf("partial update: %+v", ps)
	}

	tr, err := s.ApplyJSON([]byte(`{"backgroundReduction":0}`), false)
	if err != nil {
		t.Fatal(err)
	}

	if tr != effectchain.StructuralRebuild {
		t.Fatalf("transition %v", tr)
	}

	ps = s.State().Parameters
	want := lofi.DefaultParameters()
	want.BackgroundReduction = 0

	if ps != want {
		t.Fatalf("full apply: %+v", ps)
	}

	if _, err := s.ApplyJSON([]byte(`{"reverb":`), true); err == nil {
		t.Fatal("expected error for broken JSON")
	}
}

func TestSessionExportAndState(t *testing.T) {
	s := newTestSession(t)

	if st := s.State(); st.Loaded || st.Source != nil || st.Render != "idle" {
		t.Fatalf("initial state %+v", st)
	}

	if _, err := s.Export(context.Background()); !errors.Is(err, lofi.ErrNotLoaded) {
		t.Fatalf("Export before load: %v", err)
	}

	loadSine(t, s, 4410)

	f, err := s.Export(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if f.Name != "lofi-tone.wav" || f.ContentType != "audio/wav" || len(f.Data) == 0 {
		t.Fatalf("export file %q %q %d bytes", f.Name, f.ContentType, len(f.Data))
	}

	st := s.State()
	if !st.Loaded || st.Source == nil || st.Source.Name != "tone.wav" || len(st.Topology) == 0 {
		t.Fatalf("state after load %+v", st)
	}
}

func TestSessionCancelExportReachesRunningRender(t *testing.T) {
	s := newTestSession(t)

	// Stand in for an export that is still rendering.
	running, cancel := context.WithCancel(context.Background())
	id := s.trackExport(cancel)

	// A call that fails straight away must not take over cancellation.
	if _, err := s.Export(context.Background()); !errors.Is(err, lofi.ErrNotLoaded) {
		t.Fatalf("Export before load: %v", err)
	}

	if running.Err() != nil {
		t.Fatal("rejected export cancelled the running one")
	}

	s.CancelExport()

	if !errors.Is(running.Err(), context.Canceled) {
		t.Fatalf("running export context err = %v", running.Err())
	}

	s.untrackExport(id)

	if n := len(s.exports); n != 0 {
		t.Fatalf("%d exports still tracked", n)
	}
}

func TestSessionCancelExportStopsRender(t *testing.T) {
	s := newTestSession(t)
	loadSine(t, s, 44100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// CancelExport with nothing running is a no-op.
	s.CancelExport()

	if _, err := s.Export(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Export with cancelled parent: %v", err)
	}

	if _, err := s.Export(context.Background()); err != nil {
		t.Fatalf("Export after cancel: %v", err)
	}
}

func TestSessionSetSpectrumJSON(t *testing.T) {
	s := newTestSession(t)

	if err := s.SetSpectrumJSON([]byte(`{"smoothing":0.25}`)); err != nil {
		t.Fatalf("SetSpectrumJSON: %v", err)
	}

	got := s.analyzer.Params()
	want := DefaultSpectrumParams()
	want.Smoothing = 0.25

	if got != want {
		t.Fatalf("params %+v want %+v", got, want)
	}

	if err := s.SetSpectrumJSON([]byte(`{}`)); err != nil {
		t.Fatalf("empty object: %v", err)
	}

	if err := s.SetSpectrumJSON([]byte(`{"fftSize":"big"}`)); err == nil {
		t.Fatal("expected error for malformed fftSize")
	}

	if s.analyzer.Params() != want {
		t.Fatal("failed update changed the analyzer")
	}
}

func TestSessionSpectrum(t *testing.T) {
	s := newTestSession(t)
	loadSine(t, s, 44100)

	if err := s.SetSpectrum(SpectrumParams{FFTSize: 1024, Overlap: 0.5, Window: "hann"}); err != nil {
		t.Fatal(err)
	}

	if err := s.Play(); err != nil {
		t.Fatal(err)
	}

	buf := make([]float32, 2*4096)
	s.Render(buf)

	if got := s.SpectrumCurveDB([]float64{440})[0]; got <= spectrumFloorDB {
		t.Fatalf("spectrum at 440 Hz = %f", got)
	}
}

type shortReader struct{ left int }

func (r *shortReader) Read(p []byte) (int, error) {
	if r.left == 0 {
		return 0, io.EOF
	}

	n := min(len(p), r.left)
	clear(p[:n])
	r.left -= n

	return n, nil
}

func TestPullMonitorEndOfStream(t *testing.T) {
	var m pullMonitor

	_ = m.Start(&shortReader{left: 3 * bytesPerFrame})

	dst := make([]float32, 8)
	for i := range dst {
		dst[i] = 1
	}

	if n := m.pull(dst); n != 3 {
		t.Fatalf("pull()=%d want 3", n)
	}

	for i, v := range dst {
		if v != 0 {
			t.Fatalf("dst[%d]=%f want 0", i, v)
		}
	}

	if m.r != nil {
		t.Fatal("reader kept after end of stream")
	}
}
