package pitch_test

import (
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/effects/pitch"
)

func ExamplePitchShifter() {
	p, err := pitch.NewPitchShifter(48000)
	if err != nil {
		panic(err)
	}

	if err := p.SetPitchSemitones(7); err != nil {
		panic(err)
	}

	fmt.Printf("ratio %.3f, window %.1f s\n", p.PitchRatio(), p.WindowSeconds())
	// Output: ratio 1.498, window 0.1 s
}
