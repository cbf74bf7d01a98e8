package app

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"borsapulse/analytics"
	"borsapulse/cache"
	"borsapulse/config"
	models "borsapulse/database/models_pkg"
	"borsapulse/database/prices"
	"borsapulse/database/snapshots"

	"github.com/robfig/cron/v3"
)

const snapshotLockKey = "snapshot_run_lock"

// SnapshotRefresher runs the full analytics engine for every active
// symbol on a cron schedule and persists the results, pruning rows past
// the retention window.
type SnapshotRefresher struct {
	priceRepo *prices.Repository
	snapRepo  *snapshots.Repository
	analyzer  *analytics.Analyzer
	redis     *cache.RedisClient
	cfg       *config.Config
	cron      *cron.Cron
}

// NewSnapshotRefresher creates a new scheduled snapshot runner
func NewSnapshotRefresher(priceRepo *prices.Repository, snapRepo *snapshots.Repository, analyzer *analytics.Analyzer, redis *cache.RedisClient, cfg *config.Config) *SnapshotRefresher {
	return &SnapshotRefresher{
		priceRepo: priceRepo,
		snapRepo:  snapRepo,
		analyzer:  analyzer,
		redis:     redis,
		cfg:       cfg,
		cron:      cron.New(),
	}
}

// Start schedules the refresh job
func (sr *SnapshotRefresher) Start() error {
	if _, err := sr.cron.AddFunc(sr.cfg.Snapshot.CronSpec, sr.refreshAll); err != nil {
		return err
	}
	sr.cron.Start()
	log.Printf("📸 Snapshot refresher scheduled (%q)", sr.cfg.Snapshot.CronSpec)
	return nil
}

// Stop stops the cron scheduler, waiting for a running job to finish
func (sr *SnapshotRefresher) Stop() {
	ctx := sr.cron.Stop()
	<-ctx.Done()
	log.Println("📸 Snapshot refresher stopped")
}

func (sr *SnapshotRefresher) refreshAll() {
	start := time.Now()

	// Only one replica runs a pass at a time
	if sr.redis != nil {
		ctx := context.Background()
		ok, err := sr.redis.SetNX(ctx, snapshotLockKey, start.Unix(), 10*time.Minute)
		if err == nil && !ok {
			log.Println("📸 Snapshot run already in progress elsewhere, skipping")
			return
		}
		defer sr.redis.Delete(ctx, snapshotLockKey)
	}

	// Symbols with a candle in the last week count as active
	symbols, err := sr.priceRepo.GetActiveSymbols(start.AddDate(0, 0, -7))
	if err != nil {
		log.Printf("⚠️  Snapshot run failed to list symbols: %v", err)
		return
	}

	benchmark, _ := sr.priceRepo.GetSeries(sr.cfg.MarketData.BenchmarkSymbol, sr.cfg.MarketData.LookbackDays)

	saved := 0
	for _, symbol := range symbols {
		if err := sr.refreshSymbol(symbol, benchmark); err != nil {
			log.Printf("⚠️  Snapshot failed for %s: %v", symbol, err)
			continue
		}
		saved++
	}

	pruned, err := sr.snapRepo.PruneSnapshots(start.AddDate(0, 0, -sr.cfg.Snapshot.RetentionDays))
	if err != nil {
		log.Printf("⚠️  Snapshot prune failed: %v", err)
	}

	log.Printf("📸 Snapshot run complete: %d/%d symbols saved, %d pruned, took %v",
		saved, len(symbols), pruned, time.Since(start).Round(time.Millisecond))
}

func (sr *SnapshotRefresher) refreshSymbol(symbol string, benchmark []analytics.PricePoint) error {
	series, err := sr.priceRepo.GetSeries(symbol, sr.cfg.MarketData.LookbackDays)
	if err != nil {
		return err
	}

	analysis := sr.analyzer.Analyze(symbol, series, benchmark)
	return sr.snapRepo.SaveSnapshot(snapshotRow(analysis))
}

// snapshotRow flattens a MarketAnalysis into the snapshot table shape:
// queryable scalars plus the full JSON payload.
func snapshotRow(analysis *analytics.MarketAnalysis) *models.AnalysisSnapshot {
	row := &models.AnalysisSnapshot{
		Symbol:       analysis.Symbol,
		ComputedAt:   analysis.ComputedAt,
		SignalCount:  len(analysis.Signals),
		AnomalyCount: len(analysis.Anomalies),
	}

	if trend := analysis.Trend; trend != nil {
		row.TrendDirection = string(trend.Direction)
		row.TrendStrength = trend.Strength
		row.TrendConfidence = trend.Confidence
	}
	if risk := analysis.Risk; risk != nil {
		row.RiskLevel = string(risk.RiskLevel)
		row.Volatility = risk.Volatility
		row.SharpeRatio = risk.SharpeRatio
		row.MaxDrawdown = risk.MaxDrawdown
		row.ValueAtRisk = risk.ValueAtRisk
		row.Beta = risk.Beta
	}

	if payload, err := json.Marshal(analysis); err == nil {
		row.Payload = string(payload)
	}
	return row
}
