package alerts

import (
	"testing"
	"time"

	models "borsapulse/database/models_pkg"

	"github.com/shopspring/decimal"
)

func makeAlert(alertType, condition string, threshold float64) *models.UserAlert {
	return &models.UserAlert{
		ID:        1,
		UserID:    "user-1",
		Symbol:    "THYAO",
		AlertType: alertType,
		Condition: condition,
		Threshold: decimal.NewFromFloat(threshold),
		IsActive:  true,
	}
}

func TestEvaluatePriceTarget(t *testing.T) {
	e := NewEvaluator(0)
	now := time.Now()

	tests := []struct {
		name      string
		condition string
		threshold float64
		price     float64
		triggers  bool
	}{
		{"above breached", "above", 150, 155, true},
		{"above not breached", "above", 150, 149, false},
		{"above boundary equality does not trigger", "above", 150, 150, false},
		{"below breached", "below", 150, 149, true},
		{"below not breached", "below", 150, 155, false},
		{"below boundary equality does not trigger", "below", 150, 150, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := makeAlert(TypePriceTarget, tt.condition, tt.threshold)
			trigger := e.Evaluate(alert, MetricSample{Price: tt.price, At: now})

			if tt.triggers && trigger == nil {
				t.Fatal("expected trigger, got nil")
			}
			if !tt.triggers && trigger != nil {
				t.Fatalf("expected no trigger, got %+v", trigger)
			}
		})
	}
}

func TestEvaluateTriggerRecord(t *testing.T) {
	e := NewEvaluator(0)
	now := time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)

	alert := makeAlert(TypePriceTarget, "above", 150)
	trigger := e.Evaluate(alert, MetricSample{Price: 155, At: now})
	if trigger == nil {
		t.Fatal("expected trigger")
	}

	if !trigger.TriggerValue.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected trigger_value 150, got %s", trigger.TriggerValue)
	}
	if !trigger.CurrentPrice.Equal(decimal.NewFromInt(155)) {
		t.Errorf("expected current_price 155, got %s", trigger.CurrentPrice)
	}
	if trigger.AlertID != alert.ID || trigger.Symbol != alert.Symbol {
		t.Errorf("trigger identity mismatch: %+v", trigger)
	}
	if !trigger.TriggeredAt.Equal(now) {
		t.Errorf("expected triggered_at %s, got %s", now, trigger.TriggeredAt)
	}
}

func TestMetricSelection(t *testing.T) {
	e := NewEvaluator(0)
	sample := MetricSample{
		Price:      110,
		PrevClose:  100,
		Volume:     5000,
		AvgVolume:  1000,
		Volatility: 35.5,
	}

	tests := []struct {
		alertType string
		want      float64
		ok        bool
	}{
		{TypePriceTarget, 110, true},
		{TypePercentageChange, 10, true},
		{TypeVolumeSpike, 5, true},
		{TypeVolatility, 35.5, true},
		{"unknown_type", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.alertType, func(t *testing.T) {
			alert := makeAlert(tt.alertType, "above", 1)
			got, ok := e.Metric(alert, sample)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && (got < tt.want-1e-9 || got > tt.want+1e-9) {
				t.Errorf("expected metric %f, got %f", tt.want, got)
			}
		})
	}
}

func TestMetricGuards(t *testing.T) {
	e := NewEvaluator(0)

	// Zero reference values must mark the metric unevaluable, not produce
	// Inf from the division.
	pctAlert := makeAlert(TypePercentageChange, "above", 5)
	if _, ok := e.Metric(pctAlert, MetricSample{Price: 100, PrevClose: 0}); ok {
		t.Error("percentage_change with no previous close must not evaluate")
	}

	volAlert := makeAlert(TypeVolumeSpike, "above", 2)
	if _, ok := e.Metric(volAlert, MetricSample{Volume: 5000, AvgVolume: 0}); ok {
		t.Error("volume_spike with no volume history must not evaluate")
	}

	vltAlert := makeAlert(TypeVolatility, "above", 30)
	if _, ok := e.Metric(vltAlert, MetricSample{Volatility: 0}); ok {
		t.Error("volatility metric of 0 (insufficient history) must not evaluate")
	}
}

func TestEvaluateInactiveAlertSkipped(t *testing.T) {
	e := NewEvaluator(0)
	alert := makeAlert(TypePriceTarget, "above", 150)
	alert.IsActive = false

	if trigger := e.Evaluate(alert, MetricSample{Price: 200, At: time.Now()}); trigger != nil {
		t.Errorf("paused alert must not trigger, got %+v", trigger)
	}
}

func TestEvaluateCooldownDebounce(t *testing.T) {
	e := NewEvaluator(1 * time.Hour)
	now := time.Now()

	alert := makeAlert(TypePriceTarget, "above", 150)

	// First breach fires.
	if trigger := e.Evaluate(alert, MetricSample{Price: 155, At: now}); trigger == nil {
		t.Fatal("expected first breach to trigger")
	}

	// Sustained breach inside the cooldown is suppressed.
	recent := now.Add(-10 * time.Minute)
	alert.LastTriggered = &recent
	if trigger := e.Evaluate(alert, MetricSample{Price: 155, At: now}); trigger != nil {
		t.Errorf("breach inside cooldown must be suppressed, got %+v", trigger)
	}

	// After the cooldown the same sustained breach re-fires.
	old := now.Add(-2 * time.Hour)
	alert.LastTriggered = &old
	if trigger := e.Evaluate(alert, MetricSample{Price: 155, At: now}); trigger == nil {
		t.Error("breach past cooldown must re-fire")
	}
}

func TestEvaluateZeroCooldownRefiresEveryTick(t *testing.T) {
	e := NewEvaluator(0)
	now := time.Now()

	alert := makeAlert(TypePriceTarget, "above", 150)
	justNow := now.Add(-time.Second)
	alert.LastTriggered = &justNow

	if trigger := e.Evaluate(alert, MetricSample{Price: 155, At: now}); trigger == nil {
		t.Error("zero cooldown must allow immediate re-fire")
	}
}

func TestEvaluatePercentageChangeNegativeThreshold(t *testing.T) {
	e := NewEvaluator(0)
	now := time.Now()

	// "below -5" means: trigger on a drop of more than 5 percent.
	alert := makeAlert(TypePercentageChange, "below", -5)

	trigger := e.Evaluate(alert, MetricSample{Price: 90, PrevClose: 100, At: now})
	if trigger == nil {
		t.Fatal("expected -10% move to trigger below -5 alert")
	}
	if got := trigger.MetricValue.InexactFloat64(); got > -9.999999 || got < -10.000001 {
		t.Errorf("expected metric near -10, got %s", trigger.MetricValue)
	}

	if trigger := e.Evaluate(alert, MetricSample{Price: 97, PrevClose: 100, At: now}); trigger != nil {
		t.Errorf("-3%% move must not trigger below -5 alert, got %+v", trigger)
	}
}
