package statistics

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// WilsonInterval computes the Wilson score confidence interval for a
// binomial proportion. It is the closed-form companion to the bootstrap
// interval for binary correctness samples, and behaves better than the
// normal approximation at small n. Bounds are clamped to [0, 1];
// zero trials yields (0, 0).
func WilsonInterval(successes, trials int, confidence float64) (lower, upper float64) {
	if trials <= 0 {
		return 0, 0
	}

	z := distuv.UnitNormal.Quantile((1 + confidence) / 2)
	p := float64(successes) / float64(trials)
	n := float64(trials)

	denominator := 1 + z*z/n
	center := (p + z*z/(2*n)) / denominator
	spread := (z / denominator) * math.Sqrt(p*(1-p)/n+z*z/(4*n*n))

	lower = math.Max(0, center-spread)
	upper = math.Min(1, center+spread)
	return lower, upper
}
