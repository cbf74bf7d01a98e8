package analytics

import (
	"fmt"
	"math"
)

// MarketSignal is one actionable market condition. Multiple signals may
// coexist; they are returned in generation order with no dedupe.
type MarketSignal struct {
	Type        string  `json:"type"`
	Signal      Signal  `json:"signal"`
	Strength    float64 `json:"strength"` // 0-10
	Description string  `json:"description"`
}

// GenerateSignals scans the series for actionable conditions: a
// moving-average cross, an RSI overbought/oversold reading, and a
// volatility breakout. Conditions whose window is not met are skipped.
func (a *Analyzer) GenerateSignals(series []PricePoint) []MarketSignal {
	signals := make([]MarketSignal, 0, 3)
	prices := Closes(series)

	if s := a.maCrossSignal(series); s != nil {
		signals = append(signals, *s)
	}
	if s := a.rsiSignal(prices); s != nil {
		signals = append(signals, *s)
	}
	if s := a.volatilityBreakoutSignal(prices); s != nil {
		signals = append(signals, *s)
	}
	return signals
}

// maCrossSignal fires whenever the short SMA sits outside the epsilon band
// around the long SMA. Strength scales with the gap: 0.5% gap maps to 1,
// capped at 10.
func (a *Analyzer) maCrossSignal(series []PricePoint) *MarketSignal {
	ind := a.MovingAverageCross(series)
	if ind == nil || ind.Signal == SignalHold {
		return nil
	}

	strength := math.Min(10, math.Abs(ind.Value)*2)
	return &MarketSignal{
		Type:        "ma_cross",
		Signal:      ind.Signal,
		Strength:    strength,
		Description: ind.Description,
	}
}

// rsiSignal fires on overbought/oversold RSI readings. Strength scales
// with the distance from the neutral 50 mark: each 5 RSI points add 1.
func (a *Analyzer) rsiSignal(prices []float64) *MarketSignal {
	rsi, ok := RSI(prices, a.cfg.RSIPeriod)
	if !ok {
		return nil
	}

	var signal Signal
	var condition string
	switch {
	case rsi > a.cfg.Overbought:
		signal = SignalSell
		condition = "overbought"
	case rsi < a.cfg.Oversold:
		signal = SignalBuy
		condition = "oversold"
	default:
		return nil
	}

	strength := math.Min(10, math.Abs(rsi-50)/5)
	return &MarketSignal{
		Type:        "rsi",
		Signal:      signal,
		Strength:    strength,
		Description: fmt.Sprintf("RSI(%d) %.1f is %s", a.cfg.RSIPeriod, rsi, condition),
	}
}

// volatilityBreakoutSignal fires when the recent return volatility exceeds
// BreakoutRatio times the trailing volatility of the earlier window. The
// signal direction follows the sign of the recent return. Strength scales
// with the ratio past the cutoff, one point per 0.5x, capped at 10.
func (a *Analyzer) volatilityBreakoutSignal(prices []float64) *MarketSignal {
	w := a.cfg.BreakoutWindow
	// Need a recent window plus enough history to measure trailing volatility.
	if len(prices) < 3*w {
		return nil
	}

	returns := Returns(prices)
	recent := returns[len(returns)-w:]
	trailing := returns[:len(returns)-w]

	trailingSD := StdDev(trailing)
	if trailingSD == 0 {
		return nil
	}
	ratio := StdDev(recent) / trailingSD
	if ratio <= a.cfg.BreakoutRatio {
		return nil
	}

	signal := SignalSell
	if Mean(recent) > 0 {
		signal = SignalBuy
	}

	strength := math.Min(10, (ratio-a.cfg.BreakoutRatio)*2)
	return &MarketSignal{
		Type:        "volatility_breakout",
		Signal:      signal,
		Strength:    strength,
		Description: fmt.Sprintf("%d-day volatility %.1fx trailing", w, ratio),
	}
}
