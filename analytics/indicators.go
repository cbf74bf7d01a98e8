package analytics

import (
	"fmt"
	"math"
)

// Signal is a categorical buy/sell/hold recommendation.
type Signal string

const (
	SignalBuy  Signal = "buy"
	SignalSell Signal = "sell"
	SignalHold Signal = "hold"
)

// TechnicalIndicator is a named derived value with its recommendation.
// Indicators are recomputed on every call and never persisted.
type TechnicalIndicator struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
	Signal      Signal  `json:"signal"`
}

// Indicators computes the indicator suite. Indicators whose minimum window
// is not met are skipped, so the result may be shorter than the full set.
func (a *Analyzer) Indicators(series []PricePoint) []TechnicalIndicator {
	indicators := make([]TechnicalIndicator, 0, 3)
	if ind := a.MovingAverageCross(series); ind != nil {
		indicators = append(indicators, *ind)
	}
	if ind := a.MomentumIndicator(series); ind != nil {
		indicators = append(indicators, *ind)
	}
	if ind := a.RSIIndicator(series); ind != nil {
		indicators = append(indicators, *ind)
	}
	return indicators
}

// MovingAverageCross compares the short and long SMA of the series.
// Signal is buy when short > long*(1+epsilon), sell when short < long*(1-epsilon),
// and hold inside the epsilon band. Value is the short/long ratio minus 1,
// in percent. Requires at least LongWindow points; nil below that.
func (a *Analyzer) MovingAverageCross(series []PricePoint) *TechnicalIndicator {
	prices := Closes(series)
	if len(prices) < a.cfg.LongWindow {
		return nil
	}

	shortMA := SMA(prices, a.cfg.ShortWindow)
	longMA := SMA(prices, a.cfg.LongWindow)
	short := shortMA[len(shortMA)-1]
	long := longMA[len(longMA)-1]
	if long == 0 {
		return nil
	}

	signal := SignalHold
	switch {
	case short > long*(1+a.cfg.CrossEpsilon):
		signal = SignalBuy
	case short < long*(1-a.cfg.CrossEpsilon):
		signal = SignalSell
	}

	gapPct := (short/long - 1) * 100
	return &TechnicalIndicator{
		Name:        "ma_cross",
		Description: fmt.Sprintf("SMA%d %.2f vs SMA%d %.2f", a.cfg.ShortWindow, short, a.cfg.LongWindow, long),
		Value:       gapPct,
		Signal:      signal,
	}
}

// MomentumIndicator measures the return over the momentum window normalized
// by the volatility expected over the same horizon (daily return stddev
// scaled by sqrt(window)). Signal is buy above +1.0 normalized units, sell
// below -1.0, hold between. Requires MomentumWindow+1 points; nil below.
func (a *Analyzer) MomentumIndicator(series []PricePoint) *TechnicalIndicator {
	prices := Closes(series)
	w := a.cfg.MomentumWindow
	if len(prices) < w+1 {
		return nil
	}

	base := prices[len(prices)-1-w]
	if base == 0 {
		return nil
	}
	periodReturn := prices[len(prices)-1]/base - 1

	sd := StdDev(Returns(prices))
	normalized := 0.0
	if sd > 0 {
		normalized = periodReturn / (sd * math.Sqrt(float64(w)))
	}

	signal := SignalHold
	switch {
	case normalized > 1.0:
		signal = SignalBuy
	case normalized < -1.0:
		signal = SignalSell
	}

	return &TechnicalIndicator{
		Name:        "momentum",
		Description: fmt.Sprintf("%d-day return %.2f%% (%.2f volatility units)", w, periodReturn*100, normalized),
		Value:       normalized,
		Signal:      signal,
	}
}

// RSIIndicator computes the relative strength index over RSIPeriod.
// Signal is sell above the overbought cutoff, buy below the oversold
// cutoff, hold between. Requires RSIPeriod+1 points; nil below.
func (a *Analyzer) RSIIndicator(series []PricePoint) *TechnicalIndicator {
	rsi, ok := RSI(Closes(series), a.cfg.RSIPeriod)
	if !ok {
		return nil
	}

	signal := SignalHold
	switch {
	case rsi > a.cfg.Overbought:
		signal = SignalSell
	case rsi < a.cfg.Oversold:
		signal = SignalBuy
	}

	return &TechnicalIndicator{
		Name:        "rsi",
		Description: fmt.Sprintf("RSI(%d) %.1f", a.cfg.RSIPeriod, rsi),
		Value:       rsi,
		Signal:      signal,
	}
}

// RSI computes the relative strength index over the last period gains and
// losses (simple averages). Returns (value, true) when the series has at
// least period+1 points. An all-gain window returns 100, all-loss 0, and a
// flat window 50.
func RSI(prices []float64, period int) (float64, bool) {
	if period < 1 || len(prices) < period+1 {
		return 0, false
	}

	var gains, losses float64
	for i := len(prices) - period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	if gains+losses == 0 {
		return 50, true
	}
	if losses == 0 {
		return 100, true
	}

	rs := gains / losses
	return 100 - 100/(1+rs), true
}
