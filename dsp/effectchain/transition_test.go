package effectchain

import "testing"

func TestPlan(t *testing.T) {
	t.Parallel()

	base := NeutralSettings()

	withBackground := base
	withBackground.Background = EQBands{LowDB: -12, MidDB: 6, HighDB: -8}

	otherBackground := withBackground
	otherBackground.Background.LowDB = -3

	louder := base
	louder.ReverbWet = 0.7
	louder.BitDepth = 4
	louder.PitchSemitones = -5

	tests := []struct {
		name       string
		prev, next Settings
		want       Transition
	}{
		{"identical", base, base, ParameterOnlyUpdate},
		{"scalar changes", base, louder, ParameterOnlyUpdate},
		{"enable background", base, withBackground, StructuralRebuild},
		{"disable background", withBackground, base, StructuralRebuild},
		{"retune background", withBackground, otherBackground, ParameterOnlyUpdate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Plan(tt.prev, tt.next); got != tt.want {
				t.Fatalf("Plan()=%v want %v", got, tt.want)
			}
		})
	}
}

func TestTransitionString(t *testing.T) {
	t.Parallel()

	if ParameterOnlyUpdate.String() != "parameter-only" || StructuralRebuild.String() != "structural" {
		t.Fatal("unexpected transition names")
	}

	if Transition(9).String() != "unknown" {
		t.Fatal("out-of-range transition should be unknown")
	}
}
