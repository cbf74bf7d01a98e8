package analytics

import "testing"

func TestDetectAnomalies(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	t.Run("single extreme point is flagged", func(t *testing.T) {
		series := seriesFromPrices([]float64{10, 10, 10, 10, 50})
		anomalies := a.DetectAnomalies(series)
		if len(anomalies) != 1 {
			t.Fatalf("expected 1 anomaly, got %d (%+v)", len(anomalies), anomalies)
		}

		anom := anomalies[0]
		if !anom.Date.Equal(series[4].Date) {
			t.Errorf("expected the last point flagged, got %s", anom.Date)
		}
		if anom.Price != 50 {
			t.Errorf("expected price 50, got %f", anom.Price)
		}
		if anom.ZScore <= a.Config().AnomalyZThreshold {
			t.Errorf("expected z-score past threshold, got %f", anom.ZScore)
		}
		if anom.Severity != SeveritySevere {
			t.Errorf("expected severe, got %s", anom.Severity)
		}
	})

	t.Run("flat series flags nothing", func(t *testing.T) {
		series := seriesFromPrices([]float64{10, 10, 10, 10, 10})
		if anomalies := a.DetectAnomalies(series); len(anomalies) != 0 {
			t.Errorf("expected no anomalies, got %+v", anomalies)
		}
	})

	t.Run("gently varying series flags nothing", func(t *testing.T) {
		series := seriesFromPrices([]float64{100, 101, 99, 102, 98, 101, 100, 99, 102})
		if anomalies := a.DetectAnomalies(series); len(anomalies) != 0 {
			t.Errorf("expected no anomalies, got %+v", anomalies)
		}
	})

	t.Run("too short series degrades to nil", func(t *testing.T) {
		if anomalies := a.DetectAnomalies(seriesFromPrices([]float64{10, 50})); anomalies != nil {
			t.Errorf("expected nil below 3 points, got %+v", anomalies)
		}
	})
}

func TestDetectAnomaliesDownwardSpike(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	series := seriesFromPrices([]float64{100, 100, 100, 100, 100, 100, 20})

	anomalies := a.DetectAnomalies(series)
	if len(anomalies) != 1 {
		t.Fatalf("expected 1 anomaly, got %d", len(anomalies))
	}
	if anomalies[0].ZScore >= 0 {
		t.Errorf("downward spike should have negative z-score, got %f", anomalies[0].ZScore)
	}
}

func TestSeverityGrading(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	tests := []struct {
		absZ float64
		want AnomalySeverity
	}{
		{2.6, SeverityMinor},
		{2.99, SeverityMinor},
		{3.0, SeverityModerate},
		{3.9, SeverityModerate},
		{4.0, SeveritySevere},
		{10, SeveritySevere},
	}
	for _, tt := range tests {
		if got := a.severity(tt.absZ); got != tt.want {
			t.Errorf("|z|=%.2f: expected %s, got %s", tt.absZ, tt.want, got)
		}
	}
}

func TestDetectAnomaliesIdempotent(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	series := seriesFromPrices([]float64{10, 11, 10, 12, 10, 11, 60, 10, 11})

	first := a.DetectAnomalies(series)
	second := a.DetectAnomalies(series)
	if len(first) != len(second) {
		t.Fatalf("expected identical results, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("anomaly %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
