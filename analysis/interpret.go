package analysis

import (
	"fmt"
	"strings"
)

// WidthLabel classifies a confidence-interval width the way the paper
// summarizes it.
func WidthLabel(width float64) string {
	switch {
	case width < 0.2:
		return "narrow"
	case width < 0.4:
		return "moderate"
	default:
		return "wide"
	}
}

// SignificantAbove reports whether the interval's lower bound clears the
// given threshold, e.g. 0.5 for better-than-chance accuracy.
func SignificantAbove(lower, threshold float64) bool {
	return lower > threshold
}

// FormatReport renders a plain-language summary of the report.
func FormatReport(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s (%.0f%% confidence) ===\n\n", r.Method, r.ConfidenceLevel*100)

	for _, g := range r.Groups {
		if g.Skipped() {
			fmt.Fprintf(&b, "%s: skipped (%s)\n", g.Name, g.SkipReason)
			continue
		}
		ci := g.Interval
		fmt.Fprintf(&b, "%s: %.3f [%.3f, %.3f], %s interval, width %.3f\n",
			g.Name, ci.OriginalEstimate, ci.Lower, ci.Upper, WidthLabel(g.Width), g.Width)
		fmt.Fprintf(&b, "  bootstrap %.3f +/- %.3f, z0=%.4f, a=%.4f\n",
			ci.BootstrapMean, ci.BootstrapStd, ci.BiasCorrection, ci.Acceleration)
		fmt.Fprintf(&b, "  wilson check [%.3f, %.3f]\n", g.WilsonLower, g.WilsonUpper)
		if ci.PercentileFallback {
			b.WriteString("  note: percentile fallback used, acceleration correction was degenerate\n")
		}
		if SignificantAbove(ci.Lower, 0.5) {
			b.WriteString("  above chance at this confidence level\n")
		}
	}

	return b.String()
}
