// Package analysis batches the BCa bootstrap estimator over named groups of
// per-item correctness observations and assembles the statistical report the
// paper pipeline persists.
package analysis

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/llm-untangle/llm-untangle/statistics"
)

// Group is one named sample, e.g. the 0/1 correctness flags collected for a
// single server type.
type Group struct {
	Name         string
	Observations []float64
}

// GroupResult carries the interval analysis for one group. A skipped group
// has a nil Interval and a non-empty SkipReason.
type GroupResult struct {
	Name         string                  `json:"name"`
	SampleSize   int                     `json:"sample_size"`
	SuccessCount int                     `json:"success_count"`
	FailureCount int                     `json:"failure_count"`
	SuccessRate  float64                 `json:"success_rate"`
	Interval     *statistics.BCaInterval `json:"interval,omitempty"`
	WilsonLower  float64                 `json:"wilson_lower"`
	WilsonUpper  float64                 `json:"wilson_upper"`
	Width        float64                 `json:"confidence_interval_width"`
	SkipReason   string                  `json:"skip_reason,omitempty"`
}

// Skipped reports whether the group was excluded from analysis.
func (g *GroupResult) Skipped() bool {
	return g.SkipReason != ""
}

// Report is the full batch result, shaped for JSON serialization by the
// surrounding reporting scripts.
type Report struct {
	Timestamp       time.Time     `json:"timestamp"`
	Method          string        `json:"method"`
	ConfidenceLevel float64       `json:"confidence_level"`
	Groups          []GroupResult `json:"groups"`
}

// Analyze runs the BCa estimator over every group with the mean statistic.
// A group whose sample is too small is recorded as skipped and never aborts
// the rest of the batch. Invalid options abort the whole batch: they are
// programmer errors, not data errors.
func Analyze(groups []Group, opts statistics.BCaOptions) (*Report, error) {
	alpha := opts.Alpha
	if alpha == 0 {
		alpha = statistics.DefaultAlpha
	}

	report := &Report{
		Timestamp:       time.Now().UTC(),
		Method:          "BCa Bootstrap",
		ConfidenceLevel: 1 - alpha,
		Groups:          make([]GroupResult, 0, len(groups)),
	}

	for _, g := range groups {
		res := GroupResult{Name: g.Name, SampleSize: len(g.Observations)}

		ci, err := statistics.BCaCIWithOptions(g.Observations, statistics.Mean, opts)
		var tooSmall *statistics.InsufficientSampleError
		switch {
		case errors.As(err, &tooSmall):
			res.SkipReason = tooSmall.Error()
			slog.Warn("skipping group with insufficient sample",
				"group", g.Name, "n", tooSmall.N, "min", tooSmall.Min)
		case err != nil:
			return nil, fmt.Errorf("analyzing group %q: %w", g.Name, err)
		default:
			res.Interval = ci
			res.Width = ci.Width()
			res.SuccessRate = ci.OriginalEstimate
			res.SuccessCount, res.FailureCount = countBinary(g.Observations)
			res.WilsonLower, res.WilsonUpper = statistics.WilsonInterval(
				res.SuccessCount, res.SampleSize, report.ConfidenceLevel)
			slog.Debug("group analyzed",
				"group", g.Name,
				"estimate", ci.OriginalEstimate,
				"lower", ci.Lower,
				"upper", ci.Upper,
				"fallback", ci.PercentileFallback)
		}

		report.Groups = append(report.Groups, res)
	}

	return report, nil
}

// countBinary mirrors the pipeline's tally for 0/1 correctness samples:
// observations equal to 1 are successes, everything else a failure.
// Only meaningful for binary samples.
func countBinary(obs []float64) (successes, failures int) {
	for _, v := range obs {
		if v == 1 {
			successes++
		}
	}
	return successes, len(obs) - successes
}
