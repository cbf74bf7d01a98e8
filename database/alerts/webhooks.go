package alerts

import (
	"fmt"

	database "borsapulse/database"
	models "borsapulse/database/models_pkg"
)

// GetWebhooks returns every configured webhook.
func (r *Repository) GetWebhooks() ([]models.AlertWebhook, error) {
	var webhooks []models.AlertWebhook
	if err := r.db.Order("id ASC").Find(&webhooks).Error; err != nil {
		return nil, fmt.Errorf("GetWebhooks: %w", err)
	}
	return webhooks, nil
}

// GetActiveWebhooks returns enabled webhooks only.
func (r *Repository) GetActiveWebhooks() ([]models.AlertWebhook, error) {
	var webhooks []models.AlertWebhook
	if err := r.db.Where("enabled = ?", true).Find(&webhooks).Error; err != nil {
		return nil, fmt.Errorf("GetActiveWebhooks: %w", err)
	}
	return webhooks, nil
}

// SaveWebhook persists a new or updated webhook configuration.
func (r *Repository) SaveWebhook(webhook *models.AlertWebhook) error {
	if err := r.db.Save(webhook).Error; err != nil {
		return fmt.Errorf("SaveWebhook: %w", err)
	}
	return nil
}

// DeleteWebhook removes a webhook configuration.
func (r *Repository) DeleteWebhook(id int) error {
	result := r.db.Delete(&models.AlertWebhook{}, id)
	if result.Error != nil {
		return fmt.Errorf("DeleteWebhook: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.NewNotFoundError("webhook", id)
	}
	return nil
}

// SaveWebhookLog records one delivery attempt.
func (r *Repository) SaveWebhookLog(entry *models.AlertWebhookLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("SaveWebhookLog: %w", err)
	}
	return nil
}
