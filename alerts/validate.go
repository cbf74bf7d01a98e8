// Package alerts decides when user-defined threshold alerts fire.
//
// Validation happens once at creation time; evaluation is a pure decision
// over an alert definition and a fresh metric sample, with persistence and
// scheduling owned by the caller.
package alerts

import (
	"fmt"

	models "borsapulse/database/models_pkg"

	"github.com/go-playground/validator/v10"
)

// Alert type constants. The set is closed; unknown types are rejected at
// creation and never reach the evaluator.
const (
	TypePriceTarget      = "price_target"
	TypePercentageChange = "percentage_change"
	TypeVolumeSpike      = "volume_spike"
	TypeVolatility       = "volatility"

	ConditionAbove = "above"
	ConditionBelow = "below"
)

var validate = validator.New()

// ValidateDefinition rejects malformed alert definitions before they are
// persisted. Checks: symbol present, alert_type and condition in their
// closed sets (struct tags), and a positive threshold for alert types
// measuring inherently positive quantities (price, volume ratio,
// volatility). percentage_change thresholds may be negative.
func ValidateDefinition(alert *models.UserAlert) error {
	if err := validate.Struct(alert); err != nil {
		return fmt.Errorf("invalid alert definition: %w", err)
	}

	switch alert.AlertType {
	case TypePriceTarget, TypeVolumeSpike, TypeVolatility:
		if !alert.Threshold.IsPositive() {
			return fmt.Errorf("invalid alert definition: threshold must be positive for %s", alert.AlertType)
		}
	case TypePercentageChange:
		if alert.Threshold.IsZero() {
			return fmt.Errorf("invalid alert definition: threshold is required for %s", alert.AlertType)
		}
	}
	return nil
}
