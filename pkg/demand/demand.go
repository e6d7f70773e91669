// Package demand estimates probable peak water demand from aggregated
// fixture units, following the Hunter probabilistic sizing method used by
// plumbing codes. Fixture units are dimensionless load factors; the curve
// maps their sum to a design flow rate.
package demand

import "gonum.org/v1/gonum/interp"

// Hunter curve sample points for flush-tank systems, converted to
// liters/minute. Intermediate loads are interpolated piecewise-linearly.
var (
	curveFixtureUnits = []float64{0, 5, 10, 20, 40, 80, 160, 320}
	curveFlowLPM      = []float64{0, 30, 60, 95, 150, 230, 360, 560}
)

var curve interp.PiecewiseLinear

func init() {
	if err := curve.Fit(curveFixtureUnits, curveFlowLPM); err != nil {
		panic("demand: invalid Hunter curve data: " + err.Error())
	}
}

// ProbableFlowLPM returns the probable peak demand in liters/minute for a
// total fixture-unit load. Negative loads yield zero; loads beyond the last
// curve point are clamped to its value.
func ProbableFlowLPM(totalFixtureUnits float64) float64 {
	if totalFixtureUnits <= 0 {
		return 0
	}
	last := len(curveFixtureUnits) - 1
	if totalFixtureUnits >= curveFixtureUnits[last] {
		return curveFlowLPM[last]
	}
	return curve.Predict(totalFixtureUnits)
}
