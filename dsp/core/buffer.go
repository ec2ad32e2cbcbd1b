package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}

	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	n := min(len(dst), len(src))
	copy(dst[:n], src[:n])

	return n
}

// AddInto accumulates src into dst over their common length.
func AddInto(dst, src []float64) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] += src[i]
	}
}

// Scale multiplies every value in buf by gain.
func Scale(buf []float64, gain float64) {
	for i := range buf {
		buf[i] *= gain
	}
}

// Interleave writes the stereo pair (l, r) into dst as L R L R ... frames.
// It returns the number of frames written.
func Interleave(dst, l, r []float64) int {
	n := min(len(l), len(r), len(dst)/2)
	for i := range n {
		dst[2*i] = l[i]
		dst[2*i+1] = r[i]
	}

	return n
}

// Deinterleave splits interleaved stereo frames from src into l and r.
// It returns the number of frames read.
func Deinterleave(l, r, src []float64) int {
	n := min(len(l), len(r), len(src)/2)
	for i := range n {
		l[i] = src[2*i]
		r[i] = src[2*i+1]
	}

	return n
}
