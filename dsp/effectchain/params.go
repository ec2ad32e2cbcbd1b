package effectchain

import "math"

// Params holds the per-stage parameters derived from Settings.
type Params struct {
	ID   string
	Kind string
	Num  map[string]float64
	Str  map[string]string
}

// GetNum safely extracts a numeric parameter, returning def if missing or
// not finite.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// GetStr returns a string parameter, or def if missing.
func (p Params) GetStr(key, def string) string {
	if v, ok := p.Str[key]; ok {
		return v
	}

	return def
}
