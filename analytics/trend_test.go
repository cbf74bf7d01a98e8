package analytics

import "testing"

func TestAnalyzeTrend(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	rising := make([]float64, 30)
	falling := make([]float64, 30)
	flat := make([]float64, 30)
	for i := range rising {
		rising[i] = 100 + float64(i)*2
		falling[i] = 200 - float64(i)*2
		flat[i] = 100
	}

	tests := []struct {
		name     string
		prices   []float64
		expected TrendDirection
	}{
		{"steady rise", rising, TrendUp},
		{"steady fall", falling, TrendDown},
		{"flat series", flat, TrendSideways},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := a.AnalyzeTrend(seriesFromPrices(tt.prices))
			if trend == nil {
				t.Fatal("expected trend, got nil")
			}
			if trend.Direction != tt.expected {
				t.Errorf("expected direction %s, got %s", tt.expected, trend.Direction)
			}
			if trend.Strength < 0 || trend.Strength > 10 {
				t.Errorf("strength out of range: %f", trend.Strength)
			}
			if trend.Confidence < 0 || trend.Confidence > 100 {
				t.Errorf("confidence out of range: %f", trend.Confidence)
			}
		})
	}
}

func TestAnalyzeTrendPerfectLineMaxConfidence(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 50 + float64(i)
	}

	trend := a.AnalyzeTrend(seriesFromPrices(prices))
	if trend == nil {
		t.Fatal("expected trend, got nil")
	}
	if !almostEqual(trend.Confidence, 100, 1e-6) {
		t.Errorf("perfectly linear series should have confidence 100, got %f", trend.Confidence)
	}
}

func TestAnalyzeTrendShortSeries(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	if trend := a.AnalyzeTrend(seriesFromPrices([]float64{100})); trend != nil {
		t.Errorf("expected nil for single point, got %+v", trend)
	}
	if trend := a.AnalyzeTrend(nil); trend != nil {
		t.Errorf("expected nil for empty series, got %+v", trend)
	}
}
