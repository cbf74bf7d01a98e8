// Package prices provides database operations for quotes and daily
// candle history, and converts stored candles into the price series the
// analytics engine consumes.
package prices

import (
	"errors"
	"fmt"
	"time"

	"borsapulse/analytics"
	database "borsapulse/database"
	models "borsapulse/database/models_pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles database operations for market price data
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new prices repository
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db.DB()}
}

// UpsertQuote inserts or refreshes the latest tick for a symbol.
func (r *Repository) UpsertQuote(quote *models.Quote) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		UpdateAll: true,
	}).Create(quote).Error
	if err != nil {
		return fmt.Errorf("UpsertQuote: %w", err)
	}
	return nil
}

// GetQuote fetches the latest tick for a symbol.
func (r *Repository) GetQuote(symbol string) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.First(&quote, "symbol = ?", symbol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.NewNotFoundError("quote", symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("GetQuote: %w", err)
	}
	return &quote, nil
}

// GetQuotes returns the latest tick for every known symbol.
func (r *Repository) GetQuotes() ([]models.Quote, error) {
	var quotes []models.Quote
	if err := r.db.Order("symbol ASC").Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("GetQuotes: %w", err)
	}
	return quotes, nil
}

// UpsertCandles writes a batch of daily bars. Re-fetched days overwrite
// the existing row via the composite (symbol, bucket) key.
func (r *Repository) UpsertCandles(candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "bucket"}},
		UpdateAll: true,
	}).Create(&candles).Error
	if err != nil {
		return fmt.Errorf("UpsertCandles: %w", err)
	}
	return nil
}

// GetCandles returns daily bars for a symbol since the given time,
// oldest first.
func (r *Repository) GetCandles(symbol string, since time.Time, limit int) ([]models.Candle, error) {
	var candles []models.Candle
	query := r.db.Where("symbol = ?", symbol).Order("bucket ASC")
	if !since.IsZero() {
		query = query.Where("bucket >= ?", since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&candles).Error; err != nil {
		return nil, fmt.Errorf("GetCandles: %w", err)
	}
	return candles, nil
}

// GetSeries loads the close-price series for a symbol over the lookback
// window, in the ascending order the analytics engine requires.
func (r *Repository) GetSeries(symbol string, lookbackDays int) ([]analytics.PricePoint, error) {
	since := time.Now().AddDate(0, 0, -lookbackDays)
	candles, err := r.GetCandles(symbol, since, 0)
	if err != nil {
		return nil, fmt.Errorf("GetSeries: %w", err)
	}
	return ToPricePoints(candles), nil
}

// GetPreviousClose returns the last daily close strictly before the given
// day, used as the percentage-change reference.
func (r *Repository) GetPreviousClose(symbol string, before time.Time) (float64, error) {
	var candle models.Candle
	day := before.Truncate(24 * time.Hour)
	err := r.db.Where("symbol = ? AND bucket < ?", symbol, day).
		Order("bucket DESC").First(&candle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, database.NewNotFoundError("previous close", symbol)
	}
	if err != nil {
		return 0, fmt.Errorf("GetPreviousClose: %w", err)
	}
	return candle.Close, nil
}

// GetActiveSymbols lists symbols with candle data since the given time.
func (r *Repository) GetActiveSymbols(since time.Time) ([]string, error) {
	var symbols []string
	err := r.db.Model(&models.Candle{}).
		Where("bucket >= ?", since).
		Distinct("symbol").
		Order("symbol ASC").
		Pluck("symbol", &symbols).Error
	if err != nil {
		return nil, fmt.Errorf("GetActiveSymbols: %w", err)
	}
	return symbols, nil
}

// ToPricePoints converts stored candles into the analytics input series.
func ToPricePoints(candles []models.Candle) []analytics.PricePoint {
	series := make([]analytics.PricePoint, len(candles))
	for i, c := range candles {
		series[i] = analytics.PricePoint{
			Date:   c.Bucket,
			Price:  c.Close,
			Volume: c.Volume,
		}
	}
	return series
}
