package analytics

import "math"

// RiskLevel classifies annualized volatility.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// tradingDaysPerYear annualizes daily statistics (volatility scales by its
// square root, mean return linearly).
const tradingDaysPerYear = 252

// RiskMetrics is the risk profile of a price series.
//
// Conventions:
//   - Volatility: sample stddev of daily returns * sqrt(252), in percent
//   - SharpeRatio: annualized mean daily return / annualized volatility,
//     0 when volatility is 0 (no risk-free adjustment)
//   - MaxDrawdown: largest peak-to-trough decline, in percent (<= 0)
//   - ValueAtRisk: 5th percentile of daily returns, in percent
//   - Beta: return covariance vs benchmark / benchmark variance; 1.0 when
//     no usable benchmark is supplied
type RiskMetrics struct {
	RiskLevel   RiskLevel `json:"risk_level"`
	Volatility  float64   `json:"volatility"`
	SharpeRatio float64   `json:"sharpe_ratio"`
	MaxDrawdown float64   `json:"max_drawdown"`
	ValueAtRisk float64   `json:"value_at_risk"`
	Beta        float64   `json:"beta"`
}

// AssessRisk computes the risk profile. The benchmark series is optional;
// without one beta defaults to 1.0. Requires at least 2 points; nil below.
func (a *Analyzer) AssessRisk(series, benchmark []PricePoint) *RiskMetrics {
	prices := Closes(series)
	returns := Returns(prices)
	if returns == nil {
		return nil
	}

	volatility := StdDev(returns) * math.Sqrt(tradingDaysPerYear) * 100

	sharpe := 0.0
	if volatility > 0 {
		sharpe = Mean(returns) * tradingDaysPerYear / (volatility / 100)
	}

	level := RiskMedium
	switch {
	case volatility < a.cfg.LowVolatilityPct:
		level = RiskLow
	case volatility > a.cfg.HighVolatilityPct:
		level = RiskHigh
	}

	return &RiskMetrics{
		RiskLevel:   level,
		Volatility:  volatility,
		SharpeRatio: sharpe,
		MaxDrawdown: MaxDrawdown(prices),
		ValueAtRisk: Percentile(returns, 5) * 100,
		Beta:        beta(returns, benchmark),
	}
}

// MaxDrawdown returns the largest peak-to-trough decline in percent.
// Always <= 0; exactly 0 for a monotonically non-decreasing series.
func MaxDrawdown(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}

	peak := prices[0]
	maxDD := 0.0
	for _, p := range prices[1:] {
		if p > peak {
			peak = p
			continue
		}
		if peak > 0 {
			dd := (p - peak) / peak * 100
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// beta computes return covariance against the benchmark divided by the
// benchmark's return variance, aligned on the trailing overlap. Falls back
// to 1.0 when the benchmark is missing, too short, or flat.
func beta(returns []float64, benchmark []PricePoint) float64 {
	benchReturns := Returns(Closes(benchmark))
	n := len(returns)
	if len(benchReturns) < n {
		n = len(benchReturns)
	}
	if n < 2 {
		return 1.0
	}

	r := returns[len(returns)-n:]
	b := benchReturns[len(benchReturns)-n:]

	meanR := Mean(r)
	meanB := Mean(b)
	var cov, varB float64
	for i := 0; i < n; i++ {
		cov += (r[i] - meanR) * (b[i] - meanB)
		varB += (b[i] - meanB) * (b[i] - meanB)
	}
	if varB == 0 {
		return 1.0
	}
	return cov / varB
}
