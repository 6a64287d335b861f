package statistics

import "testing"

func TestWilsonInterval_ZeroTrials(t *testing.T) {
	lower, upper := WilsonInterval(0, 0, 0.95)
	if lower != 0 || upper != 0 {
		t.Errorf("expected (0, 0) for zero trials, got (%f, %f)", lower, upper)
	}
}

func TestWilsonInterval_KnownProportion(t *testing.T) {
	// 15 of 20 at 95%: roughly [0.53, 0.89].
	lower, upper := WilsonInterval(15, 20, 0.95)
	if lower < 0.48 || lower > 0.58 {
		t.Errorf("lower bound %f outside the expected range", lower)
	}
	if upper < 0.85 || upper > 0.92 {
		t.Errorf("upper bound %f outside the expected range", upper)
	}
	if !(lower < 0.75 && 0.75 < upper) {
		t.Errorf("interval [%f, %f] should contain the point estimate 0.75", lower, upper)
	}
}

func TestWilsonInterval_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		successes int
		trials    int
	}{
		{"all_successes", 20, 20},
		{"no_successes", 0, 20},
		{"single_trial", 1, 1},
		{"half", 50, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lower, upper := WilsonInterval(tt.successes, tt.trials, 0.95)
			if lower < 0 || upper > 1 || lower > upper {
				t.Errorf("invalid interval [%f, %f]", lower, upper)
			}
			// Extreme proportions land on the clamped bound up to rounding.
			p := float64(tt.successes) / float64(tt.trials)
			if p < lower-1e-9 || p > upper+1e-9 {
				t.Errorf("interval [%f, %f] should contain p=%f", lower, upper, p)
			}
		})
	}
}

func TestWilsonInterval_NarrowsWithTrials(t *testing.T) {
	l20, u20 := WilsonInterval(15, 20, 0.95)
	l200, u200 := WilsonInterval(150, 200, 0.95)
	if (u200 - l200) >= (u20 - l20) {
		t.Errorf("more trials should narrow the interval: n=20 width %f, n=200 width %f",
			u20-l20, u200-l200)
	}
}
