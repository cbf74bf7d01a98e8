package analytics

import (
	"math"
	"time"
)

// ConfidenceInterval brackets a predicted price.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// PricePrediction is one extrapolated future point. PredictedPrice is an
// absolute price in the series currency, never a percent change.
type PricePrediction struct {
	Date           time.Time          `json:"date"`
	PredictedPrice float64            `json:"predicted_price"`
	Confidence     float64            `json:"confidence"` // 0-100
	Interval       ConfidenceInterval `json:"confidence_interval"`
}

// PredictPrices extrapolates the series regression over PredictionHorizon
// trading days (weekends are skipped when stepping dates).
//
// The interval at step s is ±1.96 * residualStdDev * sqrt(s), so bands
// widen monotonically with the horizon. Per-point confidence is
// max(10, R²*100 - 5*s), monotonically decreasing. Predicted prices are
// floored at 0. Requires at least 2 points; nil below.
func (a *Analyzer) PredictPrices(series []PricePoint) []PricePrediction {
	prices := Closes(series)
	if len(prices) < 2 {
		return nil
	}

	reg := LinearRegression(prices)
	residualSD := residualStdDev(prices, reg)

	predictions := make([]PricePrediction, 0, a.cfg.PredictionHorizon)
	date := series[len(series)-1].Date
	for step := 1; step <= a.cfg.PredictionHorizon; step++ {
		date = nextTradingDay(date)

		predicted := math.Max(0, reg.Predict(float64(len(prices)-1+step)))
		margin := 1.96 * residualSD * math.Sqrt(float64(step))
		confidence := math.Max(10, reg.R2*100-5*float64(step))

		predictions = append(predictions, PricePrediction{
			Date:           date,
			PredictedPrice: predicted,
			Confidence:     confidence,
			Interval: ConfidenceInterval{
				Lower: math.Max(0, predicted-margin),
				Upper: predicted + margin,
			},
		})
	}
	return predictions
}

// residualStdDev is the sample stddev of regression residuals.
func residualStdDev(prices []float64, reg Regression) float64 {
	if len(prices) < 2 {
		return 0
	}
	residuals := make([]float64, len(prices))
	for i, p := range prices {
		residuals[i] = p - reg.Predict(float64(i))
	}
	return StdDev(residuals)
}

// nextTradingDay advances one day, skipping Saturday and Sunday.
func nextTradingDay(d time.Time) time.Time {
	d = d.AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
