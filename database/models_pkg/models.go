package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the latest known tick for a symbol, refreshed by the market
// data poller and the live stream. One row per symbol.
type Quote struct {
	Symbol    string    `gorm:"size:16;primaryKey" json:"symbol"`
	Price     float64   `gorm:"type:decimal(18,6);not null" json:"price"`
	ChangePct float64   `gorm:"type:decimal(10,4)" json:"change_pct"`
	Volume    float64   `gorm:"type:decimal(20,2)" json:"volume"`
	Currency  string    `gorm:"size:8" json:"currency"` // TRY, USD
	UpdatedAt time.Time `gorm:"index;not null" json:"updated_at"`
}

// TableName specifies the table name for Quote
func (Quote) TableName() string {
	return "quotes"
}

// Candle represents one daily OHLCV bar. The ordered close series per
// symbol is the input to every analytics computation.
//
// Key Fields:
//   - Symbol: ticker symbol (part of composite primary key)
//   - Bucket: the trading day (part of composite primary key)
//   - Open/High/Low/Close: OHLC prices for the day
//   - Volume: total traded volume, 0 when the source omits it
//
// The composite (Symbol, Bucket) key makes the poller's upserts
// idempotent: re-fetching a day overwrites rather than duplicates.
type Candle struct {
	Symbol string    `gorm:"size:16;not null;primaryKey" json:"symbol"`
	Bucket time.Time `gorm:"not null;primaryKey" json:"date"`
	Open   float64   `gorm:"type:decimal(18,6);not null" json:"open"`
	High   float64   `gorm:"type:decimal(18,6);not null" json:"high"`
	Low    float64   `gorm:"type:decimal(18,6);not null" json:"low"`
	Close  float64   `gorm:"type:decimal(18,6);not null" json:"close"`
	Volume float64   `gorm:"type:decimal(20,2)" json:"volume"`
}

// TableName specifies the table name for Candle
func (Candle) TableName() string {
	return "candles_daily"
}

// UserAlert is a user-defined threshold rule evaluated against live market
// metrics. Lifecycle: created via the API (validated first), paused and
// resumed through IsActive, deleted explicitly. Repeated triggers are
// allowed; the evaluator only debounces re-fires within the configured
// cooldown since LastTriggered.
//
// AlertType selects the metric:
//   - price_target: current price
//   - percentage_change: percent change vs the previous daily close
//   - volume_spike: current volume / trailing average volume
//   - volatility: annualized volatility of daily returns, percent
//
// Condition "above" triggers when metric > threshold (strictly), "below"
// when metric < threshold. Threshold is stored as an exact decimal so
// user-entered values round-trip without float drift.
type UserAlert struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID              string          `gorm:"size:64;index;not null" json:"user_id"`
	Symbol              string          `gorm:"size:16;index;not null" json:"symbol" validate:"required"`
	AlertType           string          `gorm:"size:24;not null" json:"alert_type" validate:"required,oneof=price_target percentage_change volume_spike volatility"`
	Condition           string          `gorm:"size:8;not null" json:"condition" validate:"required,oneof=above below"`
	Threshold           decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"threshold"`
	NotificationMethods string          `gorm:"size:128" json:"notification_methods"` // CSV: webhook,email,push
	IsActive            bool            `gorm:"index;default:true" json:"is_active"`
	Notes               string          `gorm:"type:text" json:"notes,omitempty"`
	LastTriggered       *time.Time      `json:"last_triggered,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// TableName specifies the table name for UserAlert
func (UserAlert) TableName() string {
	return "user_alerts"
}

// AlertTrigger is the immutable record appended when an alert's condition
// is met. TriggerValue is the configured threshold at trigger time,
// MetricValue the evaluated metric, CurrentPrice the price snapshot.
// Rows are never updated after creation.
type AlertTrigger struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AlertID      int64           `gorm:"index;not null" json:"alert_id"`
	Symbol       string          `gorm:"size:16;index;not null" json:"symbol"`
	TriggerValue decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"trigger_value"`
	CurrentPrice decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"current_price"`
	MetricValue  decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"metric_value"`
	TriggeredAt  time.Time       `gorm:"index;not null" json:"triggered_at"`
}

// TableName specifies the table name for AlertTrigger
func (AlertTrigger) TableName() string {
	return "alert_triggers"
}

// AlertWebhook is an outbound notification endpoint for alert triggers.
// Filters narrow which triggers are delivered; empty filters match all.
type AlertWebhook struct {
	ID                int              `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string           `gorm:"size:128;not null" json:"name"`
	URL               string           `gorm:"size:512;not null" json:"url"`
	Method            string           `gorm:"size:8;default:POST" json:"method"`
	AuthType          string           `gorm:"size:16" json:"auth_type"` // BEARER or custom header
	AuthHeader        string           `gorm:"size:64" json:"auth_header"`
	AuthValue         string           `gorm:"size:256" json:"-"`
	Symbols           string           `gorm:"size:512" json:"symbols"`     // CSV filter, empty = all
	AlertTypes        string           `gorm:"size:256" json:"alert_types"` // CSV filter, empty = all
	MinPrice          *decimal.Decimal `gorm:"type:decimal(20,8)" json:"min_price,omitempty"`
	Enabled           bool             `gorm:"index;default:true" json:"enabled"`
	RetryCount        int              `gorm:"default:3" json:"retry_count"`
	RetryDelaySeconds int              `gorm:"default:5" json:"retry_delay_seconds"`
	CreatedAt         time.Time        `json:"created_at"`
}

// TableName specifies the table name for AlertWebhook
func (AlertWebhook) TableName() string {
	return "alert_webhooks"
}

// AlertWebhookLog records one delivery attempt outcome.
type AlertWebhookLog struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WebhookID      int       `gorm:"index;not null" json:"webhook_id"`
	TriggerID      *int64    `gorm:"index" json:"trigger_id,omitempty"`
	DeliveredAt    time.Time `gorm:"index;not null" json:"delivered_at"`
	Status         string    `gorm:"size:16;not null" json:"status"` // SUCCESS, FAILED
	HTTPStatusCode *int      `json:"http_status_code,omitempty"`
	ErrorMessage   string    `gorm:"type:text" json:"error_message,omitempty"`
	RetryAttempt   int       `json:"retry_attempt"`
}

// TableName specifies the table name for AlertWebhookLog
func (AlertWebhookLog) TableName() string {
	return "alert_webhook_logs"
}

// AnalysisSnapshot persists one scheduled analytics run for a symbol so
// the dashboard can show history without recomputation. Payload carries
// the full MarketAnalysis JSON; the scalar columns exist for querying.
type AnalysisSnapshot struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Symbol          string    `gorm:"size:16;index;not null" json:"symbol"`
	ComputedAt      time.Time `gorm:"index;not null" json:"computed_at"`
	TrendDirection  string    `gorm:"size:12" json:"trend_direction"`
	TrendStrength   float64   `gorm:"type:decimal(6,3)" json:"trend_strength"`
	TrendConfidence float64   `gorm:"type:decimal(6,2)" json:"trend_confidence"`
	RiskLevel       string    `gorm:"size:8" json:"risk_level"`
	Volatility      float64   `gorm:"type:decimal(10,4)" json:"volatility"`
	SharpeRatio     float64   `gorm:"type:decimal(10,4)" json:"sharpe_ratio"`
	MaxDrawdown     float64   `gorm:"type:decimal(10,4)" json:"max_drawdown"`
	ValueAtRisk     float64   `gorm:"type:decimal(10,4)" json:"value_at_risk"`
	Beta            float64   `gorm:"type:decimal(10,4)" json:"beta"`
	SignalCount     int       `json:"signal_count"`
	AnomalyCount    int       `json:"anomaly_count"`
	Payload         string    `gorm:"type:jsonb" json:"payload"`
}

// TableName specifies the table name for AnalysisSnapshot
func (AnalysisSnapshot) TableName() string {
	return "analysis_snapshots"
}
