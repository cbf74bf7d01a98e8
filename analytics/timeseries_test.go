package analytics

import (
	"math"
	"testing"
	"time"
)

// seriesFromPrices builds a valid daily series starting 2025-01-06 (a Monday).
func seriesFromPrices(prices []float64) []PricePoint {
	base := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	series := make([]PricePoint, len(prices))
	for i, p := range prices {
		series[i] = PricePoint{Date: base.AddDate(0, 0, i), Price: p}
	}
	return series
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name     string
		prices   []float64
		window   int
		expected []float64
	}{
		{
			name:     "documented scenario window 3",
			prices:   []float64{100, 102, 101, 105, 103},
			window:   3,
			expected: []float64{101.0, 102.67, 103.0},
		},
		{
			name:     "window equals length",
			prices:   []float64{10, 20, 30},
			window:   3,
			expected: []float64{20},
		},
		{
			name:     "window 1 is identity",
			prices:   []float64{5, 6, 7},
			window:   1,
			expected: []float64{5, 6, 7},
		},
		{
			name:     "series shorter than window",
			prices:   []float64{100, 102},
			window:   3,
			expected: nil,
		},
		{
			name:     "invalid window",
			prices:   []float64{100, 102},
			window:   0,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SMA(tt.prices, tt.window)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d values, got %d", len(tt.expected), len(result))
			}
			for i, want := range tt.expected {
				if !almostEqual(result[i], want, 0.005) {
					t.Errorf("index %d: expected %.2f, got %.4f", i, want, result[i])
				}
			}
		})
	}
}

func TestSMAWithinWindowBounds(t *testing.T) {
	prices := []float64{100, 102, 101, 105, 103, 98, 107, 104}
	window := 3
	result := SMA(prices, window)

	if len(result) != len(prices)-window+1 {
		t.Fatalf("expected length %d, got %d", len(prices)-window+1, len(result))
	}

	for i, v := range result {
		lo, hi := prices[i], prices[i]
		for _, p := range prices[i : i+window] {
			if p < lo {
				lo = p
			}
			if p > hi {
				hi = p
			}
		}
		if v < lo || v > hi {
			t.Errorf("value %.4f at index %d outside window bounds [%.2f, %.2f]", v, i, lo, hi)
		}
	}
}

func TestStdDevUsesSampleConvention(t *testing.T) {
	// Sample (n-1) stddev of this set is sqrt(32/7); population would be 2.0.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	want := math.Sqrt(32.0 / 7.0)

	got := StdDev(values)
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("expected sample stddev %.6f, got %.6f", want, got)
	}
	if almostEqual(got, 2.0, 1e-9) {
		t.Error("stddev matches population convention, expected sample (n-1)")
	}
}

func TestStdDevShortSeries(t *testing.T) {
	if got := StdDev([]float64{5}); got != 0 {
		t.Errorf("expected 0 for single value, got %f", got)
	}
	if got := StdDev(nil); got != 0 {
		t.Errorf("expected 0 for empty slice, got %f", got)
	}
}

func TestZScore(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}

	if z := ZScore(Mean(values), values); !almostEqual(z, 0, 1e-12) {
		t.Errorf("z-score of the mean should be 0, got %f", z)
	}

	flat := []float64{10, 10, 10, 10}
	if z := ZScore(10, flat); z != 0 {
		t.Errorf("z-score on a flat series should be 0, got %f", z)
	}
	if z := ZScore(99, flat); z != 0 {
		t.Errorf("divide-by-zero guard failed, got %f", z)
	}
}

func TestLinearRegressionExactFit(t *testing.T) {
	// y = 10 + 2x recovered exactly, with maximal goodness of fit.
	values := []float64{10, 12, 14, 16, 18}
	reg := LinearRegression(values)

	if !almostEqual(reg.Slope, 2, 1e-9) {
		t.Errorf("expected slope 2, got %f", reg.Slope)
	}
	if !almostEqual(reg.Intercept, 10, 1e-9) {
		t.Errorf("expected intercept 10, got %f", reg.Intercept)
	}
	if !almostEqual(reg.R2, 1, 1e-9) {
		t.Errorf("expected R2 1 for perfect fit, got %f", reg.R2)
	}
	if got := reg.Predict(5); !almostEqual(got, 20, 1e-9) {
		t.Errorf("expected prediction 20 at x=5, got %f", got)
	}
}

func TestLinearRegressionDegraded(t *testing.T) {
	if reg := LinearRegression([]float64{42}); reg != (Regression{}) {
		t.Errorf("expected zero-valued fit for single point, got %+v", reg)
	}

	// Constant series: zero slope, zero variance to explain.
	reg := LinearRegression([]float64{7, 7, 7, 7})
	if reg.Slope != 0 || reg.R2 != 0 {
		t.Errorf("expected slope 0 and R2 0 for constant series, got %+v", reg)
	}
}

func TestReturns(t *testing.T) {
	returns := Returns([]float64{100, 110, 99})
	if len(returns) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(returns))
	}
	if !almostEqual(returns[0], 0.10, 1e-9) {
		t.Errorf("expected 0.10, got %f", returns[0])
	}
	if !almostEqual(returns[1], -0.10, 1e-9) {
		t.Errorf("expected -0.10, got %f", returns[1])
	}

	if Returns([]float64{100}) != nil {
		t.Error("expected nil for single point")
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{50, 5.5},
		{100, 10},
		{25, 3.25},
	}
	for _, tt := range tests {
		if got := Percentile(values, tt.p); !almostEqual(got, tt.want, 1e-9) {
			t.Errorf("percentile %.0f: expected %f, got %f", tt.p, tt.want, got)
		}
	}

	if got := Percentile(nil, 50); got != 0 {
		t.Errorf("expected 0 for empty slice, got %f", got)
	}
}

func TestValidateSeries(t *testing.T) {
	valid := seriesFromPrices([]float64{100, 101, 102})
	if err := ValidateSeries(valid); err != nil {
		t.Errorf("expected valid series, got %v", err)
	}

	dup := seriesFromPrices([]float64{100, 101})
	dup[1].Date = dup[0].Date
	if err := ValidateSeries(dup); err == nil {
		t.Error("expected error for duplicate dates")
	}

	negative := seriesFromPrices([]float64{100, 101})
	negative[1].Price = -5
	if err := ValidateSeries(negative); err == nil {
		t.Error("expected error for non-positive price")
	}
}
