package analytics

import (
	"testing"
)

func TestMovingAverageCross(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	rising := make([]float64, 40)
	falling := make([]float64, 40)
	flat := make([]float64, 40)
	for i := range rising {
		rising[i] = 100 + float64(i)
		falling[i] = 140 - float64(i)
		flat[i] = 100
	}

	tests := []struct {
		name     string
		prices   []float64
		expected Signal
	}{
		{"rising series short above long", rising, SignalBuy},
		{"falling series short below long", falling, SignalSell},
		{"flat series inside epsilon band", flat, SignalHold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ind := a.MovingAverageCross(seriesFromPrices(tt.prices))
			if ind == nil {
				t.Fatal("expected indicator, got nil")
			}
			if ind.Signal != tt.expected {
				t.Errorf("expected signal %s, got %s (value %.4f)", tt.expected, ind.Signal, ind.Value)
			}
		})
	}
}

func TestMovingAverageCrossEpsilonBoundary(t *testing.T) {
	// Short SMA exactly at long*(1+epsilon) must still be hold; the signal
	// requires a strict crossing of the band edge.
	a := NewAnalyzer(DefaultConfig())
	cfg := a.Config()

	flat := make([]float64, 40)
	for i := range flat {
		flat[i] = 100
	}
	series := seriesFromPrices(flat)

	ind := a.MovingAverageCross(series)
	if ind == nil || ind.Signal != SignalHold {
		t.Fatalf("flat series: expected hold, got %+v", ind)
	}
	if cfg.CrossEpsilon <= 0 {
		t.Fatal("epsilon must be positive")
	}
}

func TestMovingAverageCrossShortSeries(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	series := seriesFromPrices([]float64{100, 101, 102})
	if ind := a.MovingAverageCross(series); ind != nil {
		t.Errorf("expected nil below long window, got %+v", ind)
	}
}

func TestMomentumIndicator(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Small alternating noise followed by ten strong up days.
	breakout := make([]float64, 0, 30)
	price := 100.0
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			price *= 1.001
		} else {
			price *= 0.999
		}
		breakout = append(breakout, price)
	}
	for i := 0; i < 10; i++ {
		price *= 1.01
		breakout = append(breakout, price)
	}

	ind := a.MomentumIndicator(seriesFromPrices(breakout))
	if ind == nil {
		t.Fatal("expected indicator, got nil")
	}
	if ind.Signal != SignalBuy {
		t.Errorf("expected buy on strong upside momentum, got %s (value %.2f)", ind.Signal, ind.Value)
	}
	if ind.Value <= 1.0 {
		t.Errorf("expected normalized momentum above buy threshold, got %.2f", ind.Value)
	}

	// Flat series: zero volatility guard gives 0 and hold.
	flat := make([]float64, 15)
	for i := range flat {
		flat[i] = 50
	}
	ind = a.MomentumIndicator(seriesFromPrices(flat))
	if ind == nil {
		t.Fatal("expected indicator for flat series")
	}
	if ind.Signal != SignalHold || ind.Value != 0 {
		t.Errorf("flat series: expected hold with value 0, got %s %.4f", ind.Signal, ind.Value)
	}
}

func TestMomentumIndicatorShortSeries(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	if ind := a.MomentumIndicator(seriesFromPrices([]float64{100, 101})); ind != nil {
		t.Errorf("expected nil below momentum window, got %+v", ind)
	}
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		period int
		want   float64
		ok     bool
	}{
		{
			name:   "all gains saturate at 100",
			prices: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
			period: 14,
			want:   100,
			ok:     true,
		},
		{
			name:   "all losses saturate at 0",
			prices: []float64{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
			period: 14,
			want:   0,
			ok:     true,
		},
		{
			name:   "flat window is neutral 50",
			prices: []float64{5, 5, 5, 5, 5},
			period: 4,
			want:   50,
			ok:     true,
		},
		{
			name:   "too short",
			prices: []float64{1, 2, 3},
			period: 14,
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RSI(tt.prices, tt.period)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("expected RSI %.1f, got %.4f", tt.want, got)
			}
		})
	}
}

func TestRSIBounded(t *testing.T) {
	prices := []float64{44, 44.5, 43.9, 44.2, 45.1, 44.8, 45.6, 46.0, 45.4, 46.2, 46.9, 46.5, 47.1, 47.8, 47.2, 48.0}
	rsi, ok := RSI(prices, 14)
	if !ok {
		t.Fatal("expected RSI to compute")
	}
	if rsi < 0 || rsi > 100 {
		t.Errorf("RSI out of bounds: %f", rsi)
	}
}

func TestIndicatorsIdempotent(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i%7) + float64(i)*0.3
	}
	series := seriesFromPrices(prices)

	first := a.Indicators(series)
	second := a.Indicators(series)
	if len(first) != len(second) {
		t.Fatalf("expected identical output lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("indicator %d differs between calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}
