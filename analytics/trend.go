package analytics

import (
	"fmt"
	"math"
)

// TrendDirection classifies the regression slope of a series.
type TrendDirection string

const (
	TrendUp       TrendDirection = "up"
	TrendDown     TrendDirection = "down"
	TrendSideways TrendDirection = "sideways"
)

// TrendAnalysis is the trend verdict over the full price window.
//
// Strength and confidence are derived deterministically:
//   - slopePct = regression slope / mean price * 100 (percent per day)
//   - direction: up when slopePct > SidewaysSlopePct, down when below the
//     negative cutoff, sideways between
//   - strength = min(10, |slopePct| * 20)
//   - confidence = R² * 100
type TrendAnalysis struct {
	Direction   TrendDirection `json:"direction"`
	Strength    float64        `json:"strength"`   // 0-10
	Confidence  float64        `json:"confidence"` // 0-100
	Description string         `json:"description"`
}

// AnalyzeTrend computes the trend verdict. Requires at least 2 points;
// nil below that.
func (a *Analyzer) AnalyzeTrend(series []PricePoint) *TrendAnalysis {
	prices := Closes(series)
	if len(prices) < 2 {
		return nil
	}

	reg := LinearRegression(prices)
	mean := Mean(prices)
	if mean == 0 {
		return nil
	}
	slopePct := reg.Slope / mean * 100

	direction := TrendSideways
	switch {
	case slopePct > a.cfg.SidewaysSlopePct:
		direction = TrendUp
	case slopePct < -a.cfg.SidewaysSlopePct:
		direction = TrendDown
	}

	strength := math.Min(10, math.Abs(slopePct)*20)
	confidence := reg.R2 * 100

	return &TrendAnalysis{
		Direction:   direction,
		Strength:    strength,
		Confidence:  confidence,
		Description: fmt.Sprintf("%s trend, %.3f%%/day over %d days", direction, slopePct, len(prices)),
	}
}
