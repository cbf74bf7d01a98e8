// Package snapshots stores the results of scheduled analytics runs.
package snapshots

import (
	"errors"
	"fmt"
	"time"

	database "borsapulse/database"
	models "borsapulse/database/models_pkg"

	"gorm.io/gorm"
)

// Repository handles database operations for analysis snapshots
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new snapshots repository
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db.DB()}
}

// SaveSnapshot persists one analytics run.
func (r *Repository) SaveSnapshot(snapshot *models.AnalysisSnapshot) error {
	if err := r.db.Create(snapshot).Error; err != nil {
		return fmt.Errorf("SaveSnapshot: %w", err)
	}
	return nil
}

// GetLatestSnapshot returns the most recent snapshot for a symbol.
func (r *Repository) GetLatestSnapshot(symbol string) (*models.AnalysisSnapshot, error) {
	var snapshot models.AnalysisSnapshot
	err := r.db.Where("symbol = ?", symbol).
		Order("computed_at DESC").First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.NewNotFoundError("snapshot", symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("GetLatestSnapshot: %w", err)
	}
	return &snapshot, nil
}

// GetSnapshots returns snapshot history for a symbol, newest first.
func (r *Repository) GetSnapshots(symbol string, since time.Time, limit int) ([]models.AnalysisSnapshot, error) {
	var snapshots []models.AnalysisSnapshot
	query := r.db.Order("computed_at DESC")
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}
	if !since.IsZero() {
		query = query.Where("computed_at >= ?", since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("GetSnapshots: %w", err)
	}
	return snapshots, nil
}

// PruneSnapshots deletes snapshots older than the retention window.
func (r *Repository) PruneSnapshots(olderThan time.Time) (int64, error) {
	result := r.db.Where("computed_at < ?", olderThan).Delete(&models.AnalysisSnapshot{})
	if result.Error != nil {
		return 0, fmt.Errorf("PruneSnapshots: %w", result.Error)
	}
	return result.RowsAffected, nil
}
