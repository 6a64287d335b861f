package statistics

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// MinJackknifeSamples is the smallest sample size for which the jackknife
// correction terms are computed. Below it BiasAcceleration returns the
// neutral (0, 0), which degrades the BCa interval to an uncorrected
// percentile-style one instead of failing.
const MinJackknifeSamples = 5

// BiasAcceleration computes the two BCa correction parameters from the
// original sample: the bias correction z0 and the acceleration a.
//
// z0 measures how far the statistic's jackknife distribution sits from the
// full-sample estimate, in standard-normal-quantile units. a estimates the
// rate of change of the statistic's standard error, via the skewness of the
// jackknife replicates. Both outputs are always finite.
func BiasAcceleration(data []float64, statistic StatisticFunc) (z0, a float64) {
	n := len(data)
	if n < MinJackknifeSamples {
		return 0, 0
	}

	thetaHat := statistic(data)

	// Leave-one-out replicates. scratch holds data with index i removed.
	replicates := make([]float64, n)
	scratch := make([]float64, n-1)
	for i := range data {
		copy(scratch, data[:i])
		copy(scratch[i:], data[i+1:])
		replicates[i] = statistic(scratch)
	}
	thetaDot := Mean(replicates)

	below := 0
	for _, r := range replicates {
		if r < thetaHat {
			below++
		}
	}
	z0 = distuv.UnitNormal.Quantile(clampProbability(float64(below) / float64(n)))

	var sumSq, sumCube float64
	for _, r := range replicates {
		d := thetaDot - r
		sumSq += d * d
		sumCube += d * d * d
	}
	// A constant statistic makes every replicate identical; leave a at 0
	// rather than dividing by a vanishing denominator.
	denom := 6 * math.Pow(sumSq, 1.5)
	if math.Abs(denom) > degenerateEpsilon {
		a = sumCube / denom
	}
	return z0, a
}
