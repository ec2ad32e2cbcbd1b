package resample_test

import (
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/resample"
)

func ExampleConvert() {
	in := make([]float64, 22050)
	out, _ := resample.Convert(in, 22050, 44100)
	fmt.Printf("in=%d out=%d\n", len(in), len(out))
	// Output:
	// in=22050 out=44100
}

func ExampleNewForRates() {
	r, _ := resample.NewForRates(48000, 44100, resample.WithQuality(resample.QualityBest))
	up, down := r.Ratio()
	fmt.Printf("ratio=%d/%d\n", up, down)
	// Output:
	// ratio=147/160
}
