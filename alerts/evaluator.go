package alerts

import (
	"time"

	models "borsapulse/database/models_pkg"

	"github.com/shopspring/decimal"
)

// MetricSample is a snapshot of the market metrics an alert may reference,
// assembled by the caller from the latest quote and candle history.
// Zero-valued reference fields mark metrics that cannot be evaluated from
// this sample (no previous close, no volume history, no volatility).
type MetricSample struct {
	Price      float64   // latest trade price
	PrevClose  float64   // previous daily close, 0 when unknown
	Volume     float64   // latest daily volume
	AvgVolume  float64   // trailing average daily volume, 0 when unknown
	Volatility float64   // annualized volatility percent, 0 when unknown
	At         time.Time // sample time, stamped onto triggers
}

// Evaluator applies alert definitions to metric samples. Re-fires of a
// sustained breach are debounced: an alert that triggered within the
// cooldown window is skipped, without requiring the condition to clear
// first. Evaluation itself is pure; the caller persists the returned
// trigger and the LastTriggered update.
type Evaluator struct {
	cooldown time.Duration
}

// NewEvaluator creates an evaluator with the given re-trigger cooldown.
// A zero cooldown disables debouncing.
func NewEvaluator(cooldown time.Duration) *Evaluator {
	return &Evaluator{cooldown: cooldown}
}

// Metric resolves the metric value an alert compares against. Returns
// ok=false when the sample cannot support the alert's metric (missing
// reference data), in which case the alert is skipped for this tick.
func (e *Evaluator) Metric(alert *models.UserAlert, sample MetricSample) (float64, bool) {
	switch alert.AlertType {
	case TypePriceTarget:
		return sample.Price, sample.Price > 0
	case TypePercentageChange:
		if sample.PrevClose == 0 {
			return 0, false
		}
		return (sample.Price - sample.PrevClose) / sample.PrevClose * 100, true
	case TypeVolumeSpike:
		if sample.AvgVolume == 0 {
			return 0, false
		}
		return sample.Volume / sample.AvgVolume, true
	case TypeVolatility:
		return sample.Volatility, sample.Volatility > 0
	default:
		return 0, false
	}
}

// Evaluate decides trigger/no-trigger for one alert against one sample.
// The comparison is strict: a metric exactly equal to the threshold does
// not trigger in either direction. Returns nil when the alert is
// inactive, in cooldown, not evaluable, or simply not breached.
func (e *Evaluator) Evaluate(alert *models.UserAlert, sample MetricSample) *models.AlertTrigger {
	if !alert.IsActive {
		return nil
	}
	if e.inCooldown(alert, sample.At) {
		return nil
	}

	metric, ok := e.Metric(alert, sample)
	if !ok {
		return nil
	}

	metricDec := decimal.NewFromFloat(metric)
	breached := false
	switch alert.Condition {
	case ConditionAbove:
		breached = metricDec.GreaterThan(alert.Threshold)
	case ConditionBelow:
		breached = metricDec.LessThan(alert.Threshold)
	}
	if !breached {
		return nil
	}

	return &models.AlertTrigger{
		AlertID:      alert.ID,
		Symbol:       alert.Symbol,
		TriggerValue: alert.Threshold,
		CurrentPrice: decimal.NewFromFloat(sample.Price),
		MetricValue:  metricDec,
		TriggeredAt:  sample.At,
	}
}

func (e *Evaluator) inCooldown(alert *models.UserAlert, now time.Time) bool {
	if e.cooldown <= 0 || alert.LastTriggered == nil {
		return false
	}
	return now.Sub(*alert.LastTriggered) < e.cooldown
}
