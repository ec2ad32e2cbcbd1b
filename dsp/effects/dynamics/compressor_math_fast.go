//go:build fastmath

package dynamics

import (
	"math"

	approx "github.com/meko-christian/algo-approx"
)

// The detector evaluates these per sample, so the fastmath build trades
// a little accuracy for the approximated natural log and exponential.

func log2(x float64) float64 { return approx.FastLog(x) / math.Ln2 }

func exp2(x float64) float64 { return approx.FastExp(x * math.Ln2) }
