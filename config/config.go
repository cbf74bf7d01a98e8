package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"borsapulse/analytics"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// API server
	APIPort int

	// Database configuration
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration
	RedisHost     string
	RedisPassword string
	RedisPort     string

	// Market data configuration
	MarketData MarketDataConfig

	// Analytics threshold constants
	Analytics analytics.Config

	// Alert evaluation configuration
	Alerts AlertsConfig

	// Scheduled analytics snapshots
	Snapshot SnapshotConfig
}

// MarketDataConfig holds the candle/quote source endpoints
type MarketDataConfig struct {
	BaseURL             string
	StreamURL           string
	StreamEnabled       bool
	PollIntervalMinutes int
	LookbackDays        int
	Symbols             []string
	BenchmarkSymbol     string // beta reference, e.g. XU100 or SPX
}

// AlertsConfig holds alert evaluation parameters
type AlertsConfig struct {
	EvalIntervalSeconds    int
	TriggerCooldownMinutes int
	AvgVolumeWindowDays    int
}

// SnapshotConfig holds the scheduled analytics run parameters
type SnapshotConfig struct {
	CronSpec      string
	RetentionDays int
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		APIPort: getEnvInt("API_PORT", 8080),

		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "borsapulse"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "borsapulse"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", "borsapulse123"),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		// Market data configuration
		MarketData: MarketDataConfig{
			BaseURL:             getEnvOrDefault("MARKET_DATA_URL", "https://api.borsapulse.dev/v1"),
			StreamURL:           getEnvOrDefault("MARKET_STREAM_URL", "wss://stream.borsapulse.dev/ws"),
			StreamEnabled:       getEnvOrDefault("MARKET_STREAM_ENABLED", "true") == "true",
			PollIntervalMinutes: getEnvInt("MARKET_POLL_INTERVAL", 15),
			LookbackDays:        getEnvInt("MARKET_LOOKBACK_DAYS", 180),
			Symbols:             getEnvList("MARKET_SYMBOLS", "THYAO,GARAN,ASELS,AAPL,MSFT,NVDA"),
			BenchmarkSymbol:     getEnvOrDefault("MARKET_BENCHMARK", "XU100"),
		},

		// Analytics threshold constants. Defaults are the canonical set;
		// env overrides exist for tuning without a redeploy.
		Analytics: analytics.Config{
			ShortWindow:         getEnvInt("ANALYTICS_SHORT_WINDOW", 10),
			LongWindow:          getEnvInt("ANALYTICS_LONG_WINDOW", 30),
			CrossEpsilon:        getEnvFloat("ANALYTICS_CROSS_EPSILON", 0.001),
			MomentumWindow:      getEnvInt("ANALYTICS_MOMENTUM_WINDOW", 10),
			RSIPeriod:           getEnvInt("ANALYTICS_RSI_PERIOD", 14),
			Overbought:          getEnvFloat("ANALYTICS_OVERBOUGHT", 70),
			Oversold:            getEnvFloat("ANALYTICS_OVERSOLD", 30),
			SidewaysSlopePct:    getEnvFloat("ANALYTICS_SIDEWAYS_SLOPE", 0.05),
			LowVolatilityPct:    getEnvFloat("ANALYTICS_LOW_VOL", 20),
			HighVolatilityPct:   getEnvFloat("ANALYTICS_HIGH_VOL", 40),
			BreakoutWindow:      getEnvInt("ANALYTICS_BREAKOUT_WINDOW", 10),
			BreakoutRatio:       getEnvFloat("ANALYTICS_BREAKOUT_RATIO", 2.0),
			PredictionHorizon:   getEnvInt("ANALYTICS_PREDICTION_HORIZON", 10),
			ExtremaWindow:       getEnvInt("ANALYTICS_EXTREMA_WINDOW", 3),
			ClusterTolerancePct: getEnvFloat("ANALYTICS_CLUSTER_TOLERANCE", 1.5),
			MaxLevels:           getEnvInt("ANALYTICS_MAX_LEVELS", 3),
			AnomalyZThreshold:   getEnvFloat("ANALYTICS_ANOMALY_Z", 2.5),
		},

		// Alert evaluation configuration
		Alerts: AlertsConfig{
			EvalIntervalSeconds:    getEnvInt("ALERTS_EVAL_INTERVAL", 60),
			TriggerCooldownMinutes: getEnvInt("ALERTS_TRIGGER_COOLDOWN", 60),
			AvgVolumeWindowDays:    getEnvInt("ALERTS_AVG_VOLUME_WINDOW", 20),
		},

		// Snapshot configuration: hourly during the trading week by default
		Snapshot: SnapshotConfig{
			CronSpec:      getEnvOrDefault("SNAPSHOT_CRON", "0 * * * 1-5"),
			RetentionDays: getEnvInt("SNAPSHOT_RETENTION_DAYS", 90),
		},
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var floatValue float64
	if _, err := fmt.Sscanf(value, "%f", &floatValue); err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList gets a CSV environment variable as a trimmed string slice
func getEnvList(key, defaultValue string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
