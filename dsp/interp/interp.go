package interp

// Hermite4 evaluates the Catmull-Rom cubic through four equally spaced
// samples at fraction t of the way from y0 to y1. ym1 and y2 only shape
// the tangents.
func Hermite4(t, ym1, y0, y1, y2 float64) float64 {
	slope0 := (y1 - ym1) / 2
	slope1 := (y2 - y0) / 2
	diff := y1 - y0

	a := slope0 + slope1 - 2*diff
	b := 3*diff - 2*slope0 - slope1

	return y0 + t*(slope0+t*(b+t*a))
}
