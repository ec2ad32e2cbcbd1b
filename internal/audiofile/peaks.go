package audiofile

import "math"

// Peaks reduces the source to buckets waveform points. Each point is the
// largest absolute sample of any channel within its slice of frames.
func Peaks(src *Source, buckets int) []float64 {
	frames := src.Frames()
	if buckets <= 0 || frames == 0 {
		return nil
	}

	buckets = min(buckets, frames)
	out := make([]float64, buckets)

	for b := range out {
		start := b * frames / buckets
		end := (b + 1) * frames / buckets

		peak := 0.0
		for _, ch := range src.Channels {
			for _, v := range ch[start:end] {
				peak = math.Max(peak, math.Abs(v))
			}
		}

		out[b] = peak
	}

	return out
}
