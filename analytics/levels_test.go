package analytics

import "testing"

func TestFindSupportResistance(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// One clear valley at 90 and one clear peak at 112, ending at 96.
	prices := []float64{100, 97, 94, 90, 94, 97, 100, 104, 108, 112, 108, 104, 100, 98, 96}
	levels := a.FindSupportResistance(seriesFromPrices(prices))
	if levels == nil {
		t.Fatal("expected levels, got nil")
	}

	if levels.CurrentPrice != 96 {
		t.Errorf("expected current price 96, got %f", levels.CurrentPrice)
	}
	if len(levels.Support) != 1 || !almostEqual(levels.Support[0], 90, 1e-9) {
		t.Errorf("expected support [90], got %v", levels.Support)
	}
	if len(levels.Resistance) != 1 || !almostEqual(levels.Resistance[0], 112, 1e-9) {
		t.Errorf("expected resistance [112], got %v", levels.Resistance)
	}
}

func TestFindSupportResistanceOrdering(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Two valleys (60, 80) and two peaks (130, 150) around a close of 100.
	prices := []float64{
		100, 90, 80, 90, 100, 110, 130, 110, 100, 80, 60, 80,
		100, 120, 150, 120, 100, 95, 90, 95, 100,
	}
	levels := a.FindSupportResistance(seriesFromPrices(prices))
	if levels == nil {
		t.Fatal("expected levels, got nil")
	}

	for i := 1; i < len(levels.Support); i++ {
		if levels.Support[i] > levels.Support[i-1] {
			t.Errorf("support must be ordered nearest-first (descending), got %v", levels.Support)
		}
	}
	for i := 1; i < len(levels.Resistance); i++ {
		if levels.Resistance[i] < levels.Resistance[i-1] {
			t.Errorf("resistance must be ordered nearest-first (ascending), got %v", levels.Resistance)
		}
	}
	for _, s := range levels.Support {
		if s >= levels.CurrentPrice {
			t.Errorf("support level %f not below current price %f", s, levels.CurrentPrice)
		}
	}
	for _, r := range levels.Resistance {
		if r <= levels.CurrentPrice {
			t.Errorf("resistance level %f not above current price %f", r, levels.CurrentPrice)
		}
	}
}

func TestClusterLevels(t *testing.T) {
	// 100 and 101 sit within the 1.5% band and merge; 120 stays separate.
	levels := clusterLevels([]float64{100, 101, 120}, 1.5)
	if len(levels) != 2 {
		t.Fatalf("expected 2 clustered levels, got %v", levels)
	}
	if !almostEqual(levels[0], 100.5, 1e-9) {
		t.Errorf("expected merged level 100.5, got %f", levels[0])
	}
	if !almostEqual(levels[1], 120, 1e-9) {
		t.Errorf("expected level 120, got %f", levels[1])
	}
}

func TestFindSupportResistanceShortSeries(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	levels := a.FindSupportResistance(seriesFromPrices([]float64{100, 101, 102}))
	if levels == nil {
		t.Fatal("short series should still report current price")
	}
	if len(levels.Support) != 0 || len(levels.Resistance) != 0 {
		t.Errorf("short series should have no levels, got %+v", levels)
	}
	if levels.CurrentPrice != 102 {
		t.Errorf("expected current price 102, got %f", levels.CurrentPrice)
	}

	if a.FindSupportResistance(nil) != nil {
		t.Error("expected nil for empty series")
	}
}
