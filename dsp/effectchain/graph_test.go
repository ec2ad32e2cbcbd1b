package effectchain

import (
	"errors"
	"testing"
)

func TestStageLayoutOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		background EQBands
		want       []string
	}{
		{
			name: "background off",
			want: []string{
				InputNodeID, StageVinylCrackle, StageTapeHiss,
				StageVocalReducer, StageLowPass, StagePitchShifter, StagePositioner,
				StageCompressor, StageBitCrusher, StageToneEQ, StageExciter, StageReverb,
				StageOutputGain, OutputNodeID,
			},
		},
		{
			name:       "background on",
			background: EQBands{LowDB: -6},
			want: []string{
				InputNodeID, StageVinylCrackle, StageTapeHiss,
				StageVocalReducer, StageBackgroundEQ, StageLowPass, StagePitchShifter, StagePositioner,
				StageCompressor, StageBitCrusher, StageToneEQ, StageExciter, StageReverb,
				StageOutputGain, OutputNodeID,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NeutralSettings()
			s.Background = tt.background

			g, err := buildGraph(s)
			if err != nil {
				t.Fatalf("buildGraph() error = %v", err)
			}

			if !equalIDs(g.Order, tt.want) {
				t.Fatalf("Order=%v\nwant %v", g.Order, tt.want)
			}
		})
	}
}

func TestStageLayoutNoiseFeedsOutputGain(t *testing.T) {
	t.Parallel()

	g, err := buildGraph(NeutralSettings())
	if err != nil {
		t.Fatalf("buildGraph() error = %v", err)
	}

	want := []string{StageReverb, StageVinylCrackle, StageTapeHiss}
	if got := g.Incoming[StageOutputGain]; !equalIDs(got, want) {
		t.Fatalf("output-gain parents=%v want %v", got, want)
	}

	if got := g.Incoming[StageVinylCrackle]; len(got) != 0 {
		t.Fatalf("noise source has parents %v", got)
	}
}

func TestCompileGraphCycle(t *testing.T) {
	t.Parallel()

	nodes := []graphNode{{"a", "gain"}, {"b", "gain"}}
	conns := []graphConnection{{"a", "b"}, {"b", "a"}}

	if _, err := compileGraph(nodes, conns); !errors.Is(err, errGraphCycle) {
		t.Fatalf("compileGraph() error = %v, want errGraphCycle", err)
	}
}

func TestCompileGraphIgnoresDanglingConnections(t *testing.T) {
	t.Parallel()

	nodes := []graphNode{{"a", "gain"}, {"b", "gain"}}
	conns := []graphConnection{{"a", "b"}, {"a", "missing"}, {"b", "b"}}

	g, err := compileGraph(nodes, conns)
	if err != nil {
		t.Fatalf("compileGraph() error = %v", err)
	}

	if !equalIDs(g.Order, []string{"a", "b"}) {
		t.Fatalf("Order=%v", g.Order)
	}
}
