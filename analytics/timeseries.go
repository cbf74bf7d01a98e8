// Package analytics computes technical analysis over daily price series.
//
// Every function in this package is pure: it receives an ordered series of
// price points and returns freshly computed values, with no internal state
// and no I/O. Series that are too short for a given calculation degrade to
// nil/zero results instead of returning errors, since dashboard callers
// render whatever subset of indicators is available.
//
// Statistical convention: all standard deviations use the sample (n-1)
// denominator. Divide-by-zero cases (flat series, zero volatility) are
// guarded and produce 0, never NaN or Inf.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// PricePoint is a single daily observation. Volume is 0 when unknown.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Price  float64   `json:"price"`
	Volume float64   `json:"volume,omitempty"`
}

// ValidateSeries checks the series invariants: strictly increasing dates,
// no duplicates, and positive prices. Analytics functions assume a valid
// series; callers feeding external data should validate first.
func ValidateSeries(series []PricePoint) error {
	for i, p := range series {
		if p.Price <= 0 {
			return fmt.Errorf("series point %d: price must be positive, got %f", i, p.Price)
		}
		if i > 0 && !series[i-1].Date.Before(p.Date) {
			return fmt.Errorf("series point %d: dates must be strictly increasing", i)
		}
	}
	return nil
}

// Closes extracts the price column from a series.
func Closes(series []PricePoint) []float64 {
	prices := make([]float64, len(series))
	for i, p := range series {
		prices[i] = p.Price
	}
	return prices
}

// Volumes extracts the volume column from a series.
func Volumes(series []PricePoint) []float64 {
	volumes := make([]float64, len(series))
	for i, p := range series {
		volumes[i] = p.Volume
	}
	return volumes
}

// SMA computes the simple moving average with the given window.
// The result has length len(prices)-window+1; the value at index i is the
// mean of prices[i:i+window]. Returns nil when the series is shorter than
// the window or the window is invalid.
func SMA(prices []float64, window int) []float64 {
	if window < 1 || len(prices) < window {
		return nil
	}

	result := make([]float64, 0, len(prices)-window+1)
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= window {
			sum -= prices[i-window]
		}
		if i >= window-1 {
			result = append(result, sum/float64(window))
		}
	}
	return result
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample (n-1) standard deviation.
// Returns 0 for fewer than 2 values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// ZScore returns how many sample standard deviations value lies from the
// mean of values. Returns 0 when the deviation is 0 (flat series guard).
func ZScore(value float64, values []float64) float64 {
	sd := StdDev(values)
	if sd == 0 {
		return 0
	}
	return (value - Mean(values)) / sd
}

// Returns computes day-over-day fractional returns: result[i] =
// prices[i+1]/prices[i] - 1. Length is len(prices)-1; nil below 2 points.
// Zero prices (invalid per series invariant) contribute a 0 return.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	result := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			result[i-1] = 0
			continue
		}
		result[i-1] = prices[i]/prices[i-1] - 1
	}
	return result
}

// Regression holds a least-squares fit of values against their indices.
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
}

// LinearRegression fits values against indices 0..n-1. Requires at least
// 2 points; below that it returns a zero-valued fit. R2 is 0 for a
// constant series (zero total variance).
func LinearRegression(values []float64) Regression {
	n := len(values)
	if n < 2 {
		return Regression{}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return Regression{}
	}

	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn

	meanY := sumY / fn
	var ssRes, ssTot float64
	for i, v := range values {
		fit := intercept + slope*float64(i)
		ssRes += (v - fit) * (v - fit)
		ssTot += (v - meanY) * (v - meanY)
	}

	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
		if r2 < 0 {
			r2 = 0
		}
	}

	return Regression{Slope: slope, Intercept: intercept, R2: r2}
}

// Predict evaluates the fitted line at index x.
func (r Regression) Predict(x float64) float64 {
	return r.Intercept + r.Slope*x
}

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation between closest ranks. Returns 0 for an empty slice.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
