package effectchain

// Transition classifies how a settings change reaches a running chain.
type Transition int

const (
	// ParameterOnlyUpdate writes new values into the existing stages.
	// Processing state such as filter memory and reverb tails survives.
	ParameterOnlyUpdate Transition = iota
	// StructuralRebuild changes which stages are wired into the chain.
	StructuralRebuild
)

// String returns the transition name.
func (t Transition) String() string {
	switch t {
	case ParameterOnlyUpdate:
		return "parameter-only"
	case StructuralRebuild:
		return "structural"
	default:
		return "unknown"
	}
}

// Plan decides how moving from prev to next must be applied. Only
// switching the background EQ on or off changes the topology; every other
// change, including new background band gains, is written in place.
func Plan(prev, next Settings) Transition {
	if prev.BackgroundEnabled() != next.BackgroundEnabled() {
		return StructuralRebuild
	}

	return ParameterOnlyUpdate
}
