package zvalue

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Quantile computes the standard normal inverse CDF. Probabilities outside
// (0, 1) return NaN instead of panicking.
func Quantile(p float64) float64 {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return math.NaN()
	}
	return distuv.UnitNormal.Quantile(p)
}

// CDF computes the standard normal cumulative distribution function.
func CDF(z float64) float64 {
	return distuv.UnitNormal.CDF(z)
}
