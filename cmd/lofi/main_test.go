package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-lofi/internal/lofi"
)

func TestLoadParams(t *testing.T) {
	dir := t.TempDir()
	preset := filepath.Join(dir, "dusty.json")

	if err := os.WriteFile(preset, []byte(`{"bitCrush":0.2,"tempo":0.8}`), 0o644); err != nil {
		t.Fatal(err)
	}

	ps, err := loadParams(preset, []string{"tempo=1.2", "reverb=0"})
	if err != nil {
		t.Fatalf("loadParams() error = %v", err)
	}

	want := lofi.DefaultParameters()
	want.BitCrush = 0.2
	want.Tempo = 1.2
	want.Reverb = 0

	if ps != want {
		t.Fatalf("loadParams()=%+v\nwant %+v", ps, want)
	}
}

func TestLoadParamsErrors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")

	if err := os.WriteFile(broken, []byte(`{"bitCrush":`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		preset string
		sets   []string
	}{
		{name: "missing preset", preset: filepath.Join(dir, "none.json")},
		{name: "broken preset", preset: broken},
		{name: "unknown control", sets: []string{"wobble=1"}},
		{name: "bad number", sets: []string{"reverb=lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadParams(tt.preset, tt.sets); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSetFlags(t *testing.T) {
	var s setFlags

	if err := s.Set("reverb=0.5"); err != nil {
		t.Fatal(err)
	}

	if err := s.Set("reverb"); err == nil {
		t.Fatal("expected error without value")
	}

	if err := s.Set("nope=1"); err == nil {
		t.Fatal("expected error for unknown control")
	}

	if s.String() != "reverb=0.5" {
		t.Fatalf("String()=%q", s.String())
	}
}
