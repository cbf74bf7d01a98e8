package analytics

import (
	"math"
	"sort"
)

// SupportResistance holds clustered price levels around the current price.
// Support is below the current price, resistance above; both lists are
// ordered by proximity to the current price (nearest first).
type SupportResistance struct {
	Support      []float64 `json:"support"`
	Resistance   []float64 `json:"resistance"`
	CurrentPrice float64   `json:"current_price"`
}

// FindSupportResistance scans for local extrema using a symmetric window of
// ExtremaWindow neighbors on each side, merges extrema within
// ClusterTolerancePct of each other into averaged levels, and keeps the
// MaxLevels closest levels on each side of the current price.
//
// Returns nil for an empty series. A series shorter than 2*ExtremaWindow+1
// yields empty level lists with the current price still set.
func (a *Analyzer) FindSupportResistance(series []PricePoint) *SupportResistance {
	if len(series) == 0 {
		return nil
	}

	prices := Closes(series)
	current := prices[len(prices)-1]
	w := a.cfg.ExtremaWindow

	var extrema []float64
	for i := w; i < len(prices)-w; i++ {
		if isLocalExtreme(prices, i, w, true) || isLocalExtreme(prices, i, w, false) {
			extrema = append(extrema, prices[i])
		}
	}

	levels := clusterLevels(extrema, a.cfg.ClusterTolerancePct)

	var support, resistance []float64
	for _, level := range levels {
		if level < current {
			support = append(support, level)
		} else if level > current {
			resistance = append(resistance, level)
		}
	}

	// Nearest levels first, trimmed to MaxLevels per side.
	sort.Sort(sort.Reverse(sort.Float64Slice(support)))
	sort.Float64s(resistance)
	if len(support) > a.cfg.MaxLevels {
		support = support[:a.cfg.MaxLevels]
	}
	if len(resistance) > a.cfg.MaxLevels {
		resistance = resistance[:a.cfg.MaxLevels]
	}

	return &SupportResistance{
		Support:      support,
		Resistance:   resistance,
		CurrentPrice: current,
	}
}

// isLocalExtreme reports whether prices[i] is a strict local maximum
// (max=true) or minimum (max=false) against w neighbors on each side.
func isLocalExtreme(prices []float64, i, w int, max bool) bool {
	for j := i - w; j <= i+w; j++ {
		if j == i {
			continue
		}
		if max && prices[j] >= prices[i] {
			return false
		}
		if !max && prices[j] <= prices[i] {
			return false
		}
	}
	return true
}

// clusterLevels merges sorted extrema lying within tolerancePct of the
// running cluster mean into single averaged levels.
func clusterLevels(extrema []float64, tolerancePct float64) []float64 {
	if len(extrema) == 0 {
		return nil
	}

	sorted := make([]float64, len(extrema))
	copy(sorted, extrema)
	sort.Float64s(sorted)

	var levels []float64
	clusterSum := sorted[0]
	clusterCount := 1
	for _, v := range sorted[1:] {
		mean := clusterSum / float64(clusterCount)
		if math.Abs(v-mean) <= mean*tolerancePct/100 {
			clusterSum += v
			clusterCount++
			continue
		}
		levels = append(levels, mean)
		clusterSum = v
		clusterCount = 1
	}
	levels = append(levels, clusterSum/float64(clusterCount))
	return levels
}
