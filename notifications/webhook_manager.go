package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	alertrepo "borsapulse/database/alerts"
	models "borsapulse/database/models_pkg"

	"borsapulse/cache"
	"borsapulse/helpers"
)

// WebhookManager delivers alert triggers to configured webhook endpoints
type WebhookManager struct {
	repo   *alertrepo.Repository
	redis  *cache.RedisClient
	client *http.Client
}

// WebhookPayload represents the JSON payload sent to webhooks
type WebhookPayload struct {
	TriggerID    int64                  `json:"TriggerID"`
	AlertID      int64                  `json:"AlertID"`
	AlertType    string                 `json:"AlertType"`
	Condition    string                 `json:"Condition"`
	Symbol       string                 `json:"Symbol"`
	Threshold    string                 `json:"Threshold"`
	MetricValue  string                 `json:"MetricValue"`
	CurrentPrice string                 `json:"CurrentPrice"`
	TriggeredAt  time.Time              `json:"TriggeredAt"`
	Message      string                 `json:"Message"`
	Metadata     map[string]interface{} `json:"Metadata,omitempty"`
}

// NewWebhookManager creates a new webhook manager
func NewWebhookManager(repo *alertrepo.Repository, redis *cache.RedisClient) *WebhookManager {
	return &WebhookManager{
		repo:  repo,
		redis: redis,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendTrigger delivers a trigger to every matching webhook
func (wm *WebhookManager) SendTrigger(trigger *models.AlertTrigger, alert *models.UserAlert, currency string) {
	webhooks, err := wm.getActiveWebhooks()
	if err != nil {
		log.Printf("⚠️  Failed to load webhooks: %v", err)
		return
	}

	if len(webhooks) == 0 {
		return
	}

	payload := wm.CreatePayload(trigger, alert, currency)
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("⚠️  Failed to marshal webhook payload: %v", err)
		return
	}

	for _, hook := range webhooks {
		if wm.shouldSend(hook, trigger, alert) {
			go wm.deliverWebhook(hook, trigger.ID, payloadBytes)
		}
	}
}

func (wm *WebhookManager) getActiveWebhooks() ([]models.AlertWebhook, error) {
	// Try cache first
	cacheKey := "active_webhooks"
	if wm.redis != nil {
		var cached []models.AlertWebhook
		if err := wm.redis.Get(context.Background(), cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	webhooks, err := wm.repo.GetActiveWebhooks()
	if err != nil {
		return nil, err
	}

	// Update cache (expire 1 hour)
	if wm.redis != nil {
		_ = wm.redis.Set(context.Background(), cacheKey, webhooks, 1*time.Hour)
	}

	return webhooks, nil
}

// CreatePayload generates the webhook payload from a trigger
func (wm *WebhookManager) CreatePayload(trigger *models.AlertTrigger, alert *models.UserAlert, currency string) WebhookPayload {
	price, _ := trigger.CurrentPrice.Float64()
	message := fmt.Sprintf("🔔 ALERT! %s %s %s %s | Metric: %s | Price: %s",
		trigger.Symbol,
		alert.AlertType,
		alert.Condition,
		trigger.TriggerValue.String(),
		trigger.MetricValue.StringFixed(4),
		helpers.FormatCurrency(price, currency),
	)

	return WebhookPayload{
		TriggerID:    trigger.ID,
		AlertID:      trigger.AlertID,
		AlertType:    alert.AlertType,
		Condition:    alert.Condition,
		Symbol:       trigger.Symbol,
		Threshold:    trigger.TriggerValue.String(),
		MetricValue:  trigger.MetricValue.String(),
		CurrentPrice: trigger.CurrentPrice.String(),
		TriggeredAt:  trigger.TriggeredAt,
		Message:      message,
		Metadata: map[string]interface{}{
			"user_id":              alert.UserID,
			"notification_methods": alert.NotificationMethods,
			"notes":                alert.Notes,
		},
	}
}

func (wm *WebhookManager) shouldSend(hook models.AlertWebhook, trigger *models.AlertTrigger, alert *models.UserAlert) bool {
	// Check alert type filter
	if hook.AlertTypes != "" && hook.AlertTypes != "null" {
		if !strings.Contains(hook.AlertTypes, alert.AlertType) {
			return false
		}
	}

	// Check symbol filter
	if hook.Symbols != "" && hook.Symbols != "null" {
		if !strings.Contains(hook.Symbols, trigger.Symbol) {
			return false
		}
	}

	// Check price floor
	if hook.MinPrice != nil && trigger.CurrentPrice.LessThan(*hook.MinPrice) {
		return false
	}

	return true
}

func (wm *WebhookManager) deliverWebhook(hook models.AlertWebhook, triggerID int64, payload []byte) {
	maxRetries := hook.RetryCount
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var resp *http.Response
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, reqErr := http.NewRequest(hook.Method, hook.URL, bytes.NewBuffer(payload))
		if reqErr != nil {
			log.Printf("⚠️  Invalid webhook request for %s: %v", hook.URL, reqErr)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "BorsaPulse-Alert/1.0")

		log.Printf("🔹 Sending webhook to %s (Attempt %d/%d)", hook.URL, attempt, maxRetries)

		// Auth headers
		if hook.AuthType == "BEARER" {
			req.Header.Set("Authorization", "Bearer "+hook.AuthValue)
		} else if hook.AuthHeader != "" {
			req.Header.Set(hook.AuthHeader, hook.AuthValue)
		}

		resp, err = wm.client.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			wm.logDelivery(hook.ID, triggerID, "SUCCESS", resp.StatusCode, "", attempt)
			if resp.Body != nil {
				resp.Body.Close()
			}
			return
		}

		// Wait before retry
		if attempt < maxRetries {
			time.Sleep(time.Duration(hook.RetryDelaySeconds) * time.Second)
		}
	}

	status := "FAILED"
	errMsg := ""
	statusCode := 0
	if err != nil {
		errMsg = err.Error()
	} else if resp != nil {
		statusCode = resp.StatusCode
		resp.Body.Close()
	}

	wm.logDelivery(hook.ID, triggerID, status, statusCode, errMsg, maxRetries)
}

func (wm *WebhookManager) logDelivery(webhookID int, triggerID int64, status string, code int, errMsg string, attempt int) {
	logEntry := &models.AlertWebhookLog{
		WebhookID:    webhookID,
		TriggerID:    &triggerID,
		DeliveredAt:  time.Now(),
		Status:       status,
		RetryAttempt: attempt,
	}

	if code != 0 {
		logEntry.HTTPStatusCode = &code
	}
	if errMsg != "" {
		logEntry.ErrorMessage = errMsg
	}

	if dbErr := wm.repo.SaveWebhookLog(logEntry); dbErr != nil {
		log.Printf("⚠️  Failed to save webhook log: %v", dbErr)
	}
}

// RefreshCache reloads webhook configurations
func (wm *WebhookManager) RefreshCache() {
	if wm.redis != nil {
		_ = wm.redis.Delete(context.Background(), "active_webhooks")
		log.Println("🔄 Webhook cache invalidated")
	}
}
