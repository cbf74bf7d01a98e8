package analytics

import (
	"math"
	"time"
)

// AnomalySeverity grades how far past the z-score threshold a point lies.
type AnomalySeverity string

const (
	SeverityMinor    AnomalySeverity = "minor"
	SeverityModerate AnomalySeverity = "moderate"
	SeveritySevere   AnomalySeverity = "severe"
)

// anomalyZCap bounds the reported z-score when the rest of the series is
// flat (zero deviation would otherwise make the score unbounded).
const anomalyZCap = 10.0

// Anomaly flags a price point whose deviation from the rest of the series
// exceeds the configured z-score threshold.
type Anomaly struct {
	Date     time.Time       `json:"date"`
	Price    float64         `json:"price"`
	ZScore   float64         `json:"z_score"`
	Severity AnomalySeverity `json:"severity"`
}

// DetectAnomalies flags points with |z| > AnomalyZThreshold. Each point is
// scored against the rest of the series (leave-one-out), so a single
// extreme print cannot mask itself by inflating the series deviation. When
// the remaining points are flat, a point equal to them scores 0 and a
// deviating point is capped at ±10.
//
// Severity: minor within 0.5 past the threshold, moderate within 1.5,
// severe beyond. Requires at least 3 points; nil below. A flat series
// flags nothing.
func (a *Analyzer) DetectAnomalies(series []PricePoint) []Anomaly {
	if len(series) < 3 {
		return nil
	}

	prices := Closes(series)
	rest := make([]float64, 0, len(prices)-1)

	var anomalies []Anomaly
	for i, p := range series {
		rest = rest[:0]
		rest = append(rest, prices[:i]...)
		rest = append(rest, prices[i+1:]...)

		z := leaveOneOutZ(p.Price, rest)
		if math.Abs(z) <= a.cfg.AnomalyZThreshold {
			continue
		}

		anomalies = append(anomalies, Anomaly{
			Date:     p.Date,
			Price:    p.Price,
			ZScore:   z,
			Severity: a.severity(math.Abs(z)),
		})
	}
	return anomalies
}

// leaveOneOutZ scores value against the remaining points. A flat remainder
// gives 0 when value matches it and a capped score when it deviates.
func leaveOneOutZ(value float64, rest []float64) float64 {
	sd := StdDev(rest)
	mean := Mean(rest)
	if sd == 0 {
		if value == mean {
			return 0
		}
		if value > mean {
			return anomalyZCap
		}
		return -anomalyZCap
	}

	z := (value - mean) / sd
	if z > anomalyZCap {
		return anomalyZCap
	}
	if z < -anomalyZCap {
		return -anomalyZCap
	}
	return z
}

func (a *Analyzer) severity(absZ float64) AnomalySeverity {
	excess := absZ - a.cfg.AnomalyZThreshold
	switch {
	case excess < 0.5:
		return SeverityMinor
	case excess < 1.5:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}
