package analytics

import (
	"testing"
	"time"
)

func TestPredictPricesLinearSeries(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Perfect line: residuals are 0, so every interval collapses to the
	// predicted point and the extrapolation continues the line exactly.
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i)*2
	}
	series := seriesFromPrices(prices)

	predictions := a.PredictPrices(series)
	if len(predictions) != DefaultConfig().PredictionHorizon {
		t.Fatalf("expected %d predictions, got %d", DefaultConfig().PredictionHorizon, len(predictions))
	}

	for step, p := range predictions {
		want := 100 + float64(len(prices)-1+step+1)*2
		if !almostEqual(p.PredictedPrice, want, 1e-6) {
			t.Errorf("step %d: expected %.2f, got %.4f", step+1, want, p.PredictedPrice)
		}
		if !almostEqual(p.Interval.Lower, p.PredictedPrice, 1e-6) || !almostEqual(p.Interval.Upper, p.PredictedPrice, 1e-6) {
			t.Errorf("step %d: zero-residual interval should collapse, got [%f, %f]", step+1, p.Interval.Lower, p.Interval.Upper)
		}
	}
}

func TestPredictPricesIntervalWidensAndConfidenceDecays(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Noisy series so residuals are non-zero.
	prices := []float64{100, 104, 101, 107, 103, 109, 105, 112, 108, 114, 110, 117, 112, 119, 115}
	predictions := a.PredictPrices(seriesFromPrices(prices))
	if len(predictions) < 2 {
		t.Fatal("expected full prediction horizon")
	}

	for i := 1; i < len(predictions); i++ {
		prevWidth := predictions[i-1].Interval.Upper - predictions[i-1].Interval.Lower
		width := predictions[i].Interval.Upper - predictions[i].Interval.Lower
		if width <= prevWidth {
			t.Errorf("step %d: interval width %.4f did not widen past %.4f", i+1, width, prevWidth)
		}
		if predictions[i].Confidence > predictions[i-1].Confidence {
			t.Errorf("step %d: confidence %.2f increased past %.2f", i+1, predictions[i].Confidence, predictions[i-1].Confidence)
		}
	}

	for _, p := range predictions {
		if p.Confidence < 10 || p.Confidence > 100 {
			t.Errorf("confidence out of range: %f", p.Confidence)
		}
	}
}

func TestPredictPricesSkipsWeekends(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Series ending on a Friday: the first prediction lands on Monday.
	friday := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	series := []PricePoint{
		{Date: friday.AddDate(0, 0, -1), Price: 100},
		{Date: friday, Price: 102},
	}

	predictions := a.PredictPrices(series)
	if len(predictions) == 0 {
		t.Fatal("expected predictions")
	}
	for i, p := range predictions {
		if wd := p.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("prediction %d lands on %s", i, wd)
		}
	}
	if !predictions[0].Date.Equal(time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected first prediction on Monday 2025-01-13, got %s", predictions[0].Date)
	}
}

func TestPredictPricesFloorsAtZero(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Steep decline would extrapolate below zero without the floor.
	prices := []float64{100, 80, 60, 40, 20, 10, 5, 2}
	predictions := a.PredictPrices(seriesFromPrices(prices))
	for i, p := range predictions {
		if p.PredictedPrice < 0 || p.Interval.Lower < 0 {
			t.Errorf("prediction %d went negative: %+v", i, p)
		}
	}
}

func TestPredictPricesShortSeries(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	if p := a.PredictPrices(seriesFromPrices([]float64{100})); p != nil {
		t.Errorf("expected nil for single point, got %+v", p)
	}
}
