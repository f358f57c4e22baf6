package adaptloop

import (
	"math"

	"github.com/cwbudde/algo-auditory/dsp/core"
)

// The overshoot limiter is a logistic curve
//
//	f(y) = factor/(1+exp(expfac*(y-1))) - offset,  y > 1
//
// with factor = 2m, expfac = -2/m and offset = m-1 for m = ceiling-1. It meets
// the identity at y = 1 with slope 1, is strictly increasing, never exceeds
// y, and approaches ceiling as y grows. With [LimiterEquilibrium] y is the
// loop output divided by the loop's equilibrium output, so the curve acts on
// the overshoot ratio.

func limiterCoefficients(ceiling float64) (factor, expfac, offset float64) {
	m := ceiling - 1
	return 2 * m, -2 / m, m - 1
}

func compress[F core.Float](y, factor, expfac, offset F) F {
	return factor/(1+F(math.Exp(float64(expfac*(y-1))))) - offset
}

// OvershootCurve applies the loop limiter with the given ceiling to y.
// Values at or below 1 and ceilings at or below 1 pass y unchanged.
func OvershootCurve(y, ceiling float64) float64 {
	if y <= 1 || ceiling <= 1 {
		return y
	}

	factor, expfac, offset := limiterCoefficients(ceiling)

	return compress(y, factor, expfac, offset)
}

// loopCeiling returns the curve ceiling of a loop with the given rest level.
func loopCeiling(mode LimiterMode, limit, rest float64) float64 {
	if mode == LimiterMuenkner {
		return (1 - rest*rest) * limit
	}
	return limit
}
