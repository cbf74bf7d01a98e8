package app

import (
	"context"
	"log"
	"time"

	"borsapulse/alerts"
	"borsapulse/analytics"
	"borsapulse/cache"
	"borsapulse/config"
	alertrepo "borsapulse/database/alerts"
	models "borsapulse/database/models_pkg"
	"borsapulse/database/prices"
	"borsapulse/notifications"
	"borsapulse/realtime"
)

const activeAlertsCacheKey = "active_alerts"

// AlertEvaluator periodically evaluates all active alerts against fresh
// market metrics and records triggers.
type AlertEvaluator struct {
	alertRepo  *alertrepo.Repository
	priceRepo  *prices.Repository
	analyzer   *analytics.Analyzer
	evaluator  *alerts.Evaluator
	webhookMgr *notifications.WebhookManager
	broker     *realtime.Broker
	redis      *cache.RedisClient
	cfg        *config.Config
	done       chan bool
}

// NewAlertEvaluator creates a new alert evaluation loop
func NewAlertEvaluator(alertRepo *alertrepo.Repository, priceRepo *prices.Repository, analyzer *analytics.Analyzer, webhookMgr *notifications.WebhookManager, broker *realtime.Broker, redis *cache.RedisClient, cfg *config.Config) *AlertEvaluator {
	cooldown := time.Duration(cfg.Alerts.TriggerCooldownMinutes) * time.Minute
	return &AlertEvaluator{
		alertRepo:  alertRepo,
		priceRepo:  priceRepo,
		analyzer:   analyzer,
		evaluator:  alerts.NewEvaluator(cooldown),
		webhookMgr: webhookMgr,
		broker:     broker,
		redis:      redis,
		cfg:        cfg,
		done:       make(chan bool),
	}
}

// Start begins the evaluation loop
func (ae *AlertEvaluator) Start() {
	interval := time.Duration(ae.cfg.Alerts.EvalIntervalSeconds) * time.Second
	log.Printf("🔔 Alert evaluator started (every %v)", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ae.evaluateAll()
		case <-ae.done:
			log.Println("🔔 Alert evaluator stopped")
			return
		}
	}
}

// Stop stops the evaluation loop
func (ae *AlertEvaluator) Stop() {
	ae.done <- true
}

func (ae *AlertEvaluator) evaluateAll() {
	activeAlerts, err := ae.getActiveAlerts()
	if err != nil {
		log.Printf("⚠️  Failed to load active alerts: %v", err)
		return
	}
	if len(activeAlerts) == 0 {
		return
	}

	// One metric sample per symbol, shared by every alert on it
	bySymbol := make(map[string][]models.UserAlert)
	for _, alert := range activeAlerts {
		bySymbol[alert.Symbol] = append(bySymbol[alert.Symbol], alert)
	}

	triggered := 0
	for symbol, group := range bySymbol {
		sample, currency, err := ae.buildSample(symbol)
		if err != nil {
			log.Printf("⚠️  No metrics for %s: %v", symbol, err)
			continue
		}

		for i := range group {
			alert := &group[i]
			trigger := ae.evaluator.Evaluate(alert, sample)
			if trigger == nil {
				continue
			}
			if err := ae.recordTrigger(trigger, alert, currency); err != nil {
				log.Printf("⚠️  Failed to record trigger for alert %d: %v", alert.ID, err)
				continue
			}
			triggered++
		}
	}

	if triggered > 0 {
		log.Printf("🔔 Evaluation pass: %d alerts checked, %d triggered", len(activeAlerts), triggered)
		ae.invalidateCache()
	}
}

// buildSample assembles the metric inputs for one symbol from the latest
// quote, candle history, and the analytics engine.
func (ae *AlertEvaluator) buildSample(symbol string) (alerts.MetricSample, string, error) {
	quote, err := ae.priceRepo.GetQuote(symbol)
	if err != nil {
		return alerts.MetricSample{}, "", err
	}

	now := time.Now()
	sample := alerts.MetricSample{
		Price:  quote.Price,
		Volume: quote.Volume,
		At:     now,
	}

	// Previous close drives percentage_change; missing history leaves the
	// guard value zero and the metric not evaluable.
	if prevClose, err := ae.priceRepo.GetPreviousClose(symbol, now); err == nil {
		sample.PrevClose = prevClose
	}

	windowStart := now.AddDate(0, 0, -ae.cfg.Alerts.AvgVolumeWindowDays)
	if candles, err := ae.priceRepo.GetCandles(symbol, windowStart, 0); err == nil && len(candles) > 0 {
		var total float64
		for _, c := range candles {
			total += c.Volume
		}
		sample.AvgVolume = total / float64(len(candles))
	}

	if series, err := ae.priceRepo.GetSeries(symbol, ae.cfg.MarketData.LookbackDays); err == nil {
		if risk := ae.analyzer.AssessRisk(series, nil); risk != nil {
			sample.Volatility = risk.Volatility
		}
	}

	return sample, quote.Currency, nil
}

// recordTrigger persists the trigger and fans it out to webhooks and the
// SSE stream.
func (ae *AlertEvaluator) recordTrigger(trigger *models.AlertTrigger, alert *models.UserAlert, currency string) error {
	if err := ae.alertRepo.SaveTrigger(trigger); err != nil {
		return err
	}
	if err := ae.alertRepo.UpdateLastTriggered(alert.ID, trigger.TriggeredAt); err != nil {
		return err
	}

	// Keep the in-memory copy consistent for the rest of this pass
	at := trigger.TriggeredAt
	alert.LastTriggered = &at

	log.Printf("🔔 ALERT %d triggered: %s %s %s (metric %s)",
		alert.ID, alert.Symbol, alert.AlertType, alert.Condition, trigger.MetricValue.String())

	if ae.webhookMgr != nil {
		go ae.webhookMgr.SendTrigger(trigger, alert, currency)
	}
	if ae.broker != nil {
		ae.broker.Broadcast("alert_trigger", trigger)
	}
	return nil
}

// getActiveAlerts loads active alerts, caching them briefly in Redis to
// spare the database on tight evaluation intervals.
func (ae *AlertEvaluator) getActiveAlerts() ([]models.UserAlert, error) {
	ctx := context.Background()

	if ae.redis != nil {
		var cached []models.UserAlert
		if err := ae.redis.Get(ctx, activeAlertsCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	active, err := ae.alertRepo.GetActiveAlerts()
	if err != nil {
		return nil, err
	}

	if ae.redis != nil {
		_ = ae.redis.Set(ctx, activeAlertsCacheKey, active, time.Minute)
	}
	return active, nil
}

// invalidateCache drops the cached active alert list so cooldown state is
// re-read from the database on the next pass.
func (ae *AlertEvaluator) invalidateCache() {
	if ae.redis != nil {
		_ = ae.redis.Delete(context.Background(), activeAlertsCacheKey)
	}
}
