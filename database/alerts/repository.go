// Package alerts provides database operations for user alerts, trigger
// history, and notification webhooks.
package alerts

import (
	"errors"
	"fmt"
	"time"

	database "borsapulse/database"
	models "borsapulse/database/models_pkg"

	"gorm.io/gorm"
)

// Repository handles database operations for user alerts and triggers
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new alerts repository
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db.DB()}
}

// SaveAlert persists a new or updated alert definition.
func (r *Repository) SaveAlert(alert *models.UserAlert) error {
	if err := r.db.Save(alert).Error; err != nil {
		return fmt.Errorf("SaveAlert: %w", err)
	}
	return nil
}

// GetAlertByID fetches one alert.
func (r *Repository) GetAlertByID(id int64) (*models.UserAlert, error) {
	var alert models.UserAlert
	err := r.db.First(&alert, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.NewNotFoundError("alert", id)
	}
	if err != nil {
		return nil, fmt.Errorf("GetAlertByID: %w", err)
	}
	return &alert, nil
}

// GetAlerts retrieves alerts with optional filters.
func (r *Repository) GetAlerts(userID, symbol string, activeOnly bool, limit int) ([]models.UserAlert, error) {
	var alerts []models.UserAlert
	query := r.db.Order("created_at DESC")

	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("GetAlerts: %w", err)
	}
	return alerts, nil
}

// GetActiveAlerts returns every active alert, for the evaluation loop.
func (r *Repository) GetActiveAlerts() ([]models.UserAlert, error) {
	var alerts []models.UserAlert
	if err := r.db.Where("is_active = ?", true).Order("symbol ASC").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("GetActiveAlerts: %w", err)
	}
	return alerts, nil
}

// SetActive toggles an alert between active and paused.
func (r *Repository) SetActive(id int64, active bool) error {
	result := r.db.Model(&models.UserAlert{}).Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("SetActive: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.NewNotFoundError("alert", id)
	}
	return nil
}

// DeleteAlert removes an alert definition. Trigger history is kept.
func (r *Repository) DeleteAlert(id int64) error {
	result := r.db.Delete(&models.UserAlert{}, id)
	if result.Error != nil {
		return fmt.Errorf("DeleteAlert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.NewNotFoundError("alert", id)
	}
	return nil
}

// UpdateLastTriggered stamps the alert's last trigger time.
func (r *Repository) UpdateLastTriggered(id int64, at time.Time) error {
	err := r.db.Model(&models.UserAlert{}).Where("id = ?", id).
		Update("last_triggered", at).Error
	if err != nil {
		return fmt.Errorf("UpdateLastTriggered: %w", err)
	}
	return nil
}

// SaveTrigger appends an immutable trigger record.
func (r *Repository) SaveTrigger(trigger *models.AlertTrigger) error {
	if err := r.db.Create(trigger).Error; err != nil {
		return fmt.Errorf("SaveTrigger: %w", err)
	}
	return nil
}

// GetTriggers retrieves trigger history with optional filters, newest first.
func (r *Repository) GetTriggers(alertID int64, symbol string, since time.Time, limit int) ([]models.AlertTrigger, error) {
	var triggers []models.AlertTrigger
	query := r.db.Order("triggered_at DESC")

	if alertID > 0 {
		query = query.Where("alert_id = ?", alertID)
	}
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}
	if !since.IsZero() {
		query = query.Where("triggered_at >= ?", since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&triggers).Error; err != nil {
		return nil, fmt.Errorf("GetTriggers: %w", err)
	}
	return triggers, nil
}
