package effects_test

import (
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/effects"
)

func ExampleBitCrusher_ProcessInPlace() {
	bc, err := effects.NewBitCrusher(44100, effects.WithBitCrusherBitDepth(3))
	if err != nil {
		fmt.Println(err)
		return
	}

	buf := []float64{0.1, 0.3, 0.6, -0.9}
	bc.ProcessInPlace(buf)
	fmt.Println(buf)

	// Output:
	// [0 0.25 0.5 -1]
}
