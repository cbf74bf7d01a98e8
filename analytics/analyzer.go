package analytics

import "time"

// Config holds the threshold constants used across the analytics engine.
// The values are deliberately explicit configuration rather than package
// globals so callers (and tests) can pin down one canonical set.
type Config struct {
	// Moving-average cross indicator
	ShortWindow  int     // short SMA window, default 10
	LongWindow   int     // long SMA window, default 30
	CrossEpsilon float64 // relative band treated as "near-equal", default 0.001

	// Momentum / RSI
	MomentumWindow int     // lookback for momentum return, default 10
	RSIPeriod      int     // RSI smoothing period, default 14
	Overbought     float64 // RSI overbought cutoff, default 70
	Oversold       float64 // RSI oversold cutoff, default 30

	// Trend classification (regression slope as % of mean price per day)
	SidewaysSlopePct float64 // |slope| below this is sideways, default 0.05

	// Risk classification (annualized volatility, percent)
	LowVolatilityPct  float64 // below this is low risk, default 20
	HighVolatilityPct float64 // above this is high risk, default 40

	// Volatility breakout signal
	BreakoutWindow int     // recent window compared against the rest, default 10
	BreakoutRatio  float64 // recent/trailing volatility ratio to fire, default 2.0

	// Prediction
	PredictionHorizon int // trading days to extrapolate, default 10

	// Support/resistance
	ExtremaWindow       int     // neighbors on each side for local extrema, default 3
	ClusterTolerancePct float64 // levels within this % merge, default 1.5
	MaxLevels           int     // levels kept per side, default 3

	// Anomaly detection
	AnomalyZThreshold float64 // |z| above this is anomalous, default 2.5
}

// DefaultConfig returns the canonical constant set. These are the documented
// values the test suite pins down.
func DefaultConfig() Config {
	return Config{
		ShortWindow:         10,
		LongWindow:          30,
		CrossEpsilon:        0.001,
		MomentumWindow:      10,
		RSIPeriod:           14,
		Overbought:          70,
		Oversold:            30,
		SidewaysSlopePct:    0.05,
		LowVolatilityPct:    20,
		HighVolatilityPct:   40,
		BreakoutWindow:      10,
		BreakoutRatio:       2.0,
		PredictionHorizon:   10,
		ExtremaWindow:       3,
		ClusterTolerancePct: 1.5,
		MaxLevels:           3,
		AnomalyZThreshold:   2.5,
	}
}

// Analyzer runs the analytics engine with a fixed Config. It carries no
// mutable state; one instance can serve concurrent callers.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates an analyzer. Zero-valued config fields fall back to
// the defaults so partial overrides stay safe.
func NewAnalyzer(cfg Config) *Analyzer {
	def := DefaultConfig()
	if cfg.ShortWindow <= 0 {
		cfg.ShortWindow = def.ShortWindow
	}
	if cfg.LongWindow <= 0 {
		cfg.LongWindow = def.LongWindow
	}
	if cfg.CrossEpsilon <= 0 {
		cfg.CrossEpsilon = def.CrossEpsilon
	}
	if cfg.MomentumWindow <= 0 {
		cfg.MomentumWindow = def.MomentumWindow
	}
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = def.RSIPeriod
	}
	if cfg.Overbought <= 0 {
		cfg.Overbought = def.Overbought
	}
	if cfg.Oversold <= 0 {
		cfg.Oversold = def.Oversold
	}
	if cfg.SidewaysSlopePct <= 0 {
		cfg.SidewaysSlopePct = def.SidewaysSlopePct
	}
	if cfg.LowVolatilityPct <= 0 {
		cfg.LowVolatilityPct = def.LowVolatilityPct
	}
	if cfg.HighVolatilityPct <= 0 {
		cfg.HighVolatilityPct = def.HighVolatilityPct
	}
	if cfg.BreakoutWindow <= 0 {
		cfg.BreakoutWindow = def.BreakoutWindow
	}
	if cfg.BreakoutRatio <= 0 {
		cfg.BreakoutRatio = def.BreakoutRatio
	}
	if cfg.PredictionHorizon <= 0 {
		cfg.PredictionHorizon = def.PredictionHorizon
	}
	if cfg.ExtremaWindow <= 0 {
		cfg.ExtremaWindow = def.ExtremaWindow
	}
	if cfg.ClusterTolerancePct <= 0 {
		cfg.ClusterTolerancePct = def.ClusterTolerancePct
	}
	if cfg.MaxLevels <= 0 {
		cfg.MaxLevels = def.MaxLevels
	}
	if cfg.AnomalyZThreshold <= 0 {
		cfg.AnomalyZThreshold = def.AnomalyZThreshold
	}
	return &Analyzer{cfg: cfg}
}

// Config returns the effective configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// MarketAnalysis aggregates every analytics output for one symbol.
// Nil/empty fields mean the series was too short for that calculation.
type MarketAnalysis struct {
	Symbol      string               `json:"symbol"`
	ComputedAt  time.Time            `json:"computed_at"`
	Trend       *TrendAnalysis       `json:"trend,omitempty"`
	Risk        *RiskMetrics         `json:"risk,omitempty"`
	Indicators  []TechnicalIndicator `json:"indicators"`
	Signals     []MarketSignal       `json:"signals"`
	Predictions []PricePrediction    `json:"predictions"`
	Levels      *SupportResistance   `json:"levels,omitempty"`
	Anomalies   []Anomaly            `json:"anomalies"`
}

// Analyze runs the full engine over a series. The benchmark series is
// optional and only affects the beta calculation.
func (a *Analyzer) Analyze(symbol string, series, benchmark []PricePoint) *MarketAnalysis {
	return &MarketAnalysis{
		Symbol:      symbol,
		ComputedAt:  time.Now().UTC(),
		Trend:       a.AnalyzeTrend(series),
		Risk:        a.AssessRisk(series, benchmark),
		Indicators:  a.Indicators(series),
		Signals:     a.GenerateSignals(series),
		Predictions: a.PredictPrices(series),
		Levels:      a.FindSupportResistance(series),
		Anomalies:   a.DetectAnomalies(series),
	}
}
