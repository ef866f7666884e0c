// SPDX-License-Identifier: GPL-3.0-only

package billing

import (
	"errors"
	"fmt"
	"time"

	"adflow-server/commons"
	"adflow-server/models"

	"gorm.io/gorm"
)

// ErrCustomerIDConflict is returned when a tenant already carries a different
// billing customer id. Customer ids are assigned once and never overwritten.
var ErrCustomerIDConflict = errors.New("organization already has a different billing customer id")

// GetByTenant returns the subscription row for an organization, or nil when
// none exists yet (the tenant is implicitly on the free plan).
func GetByTenant(conn *gorm.DB, organizationID uint) (*models.Subscription, error) {
	var subscription models.Subscription
	err := conn.Where("organization_id = ?", organizationID).First(&subscription).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// GetByBillingCustomerID looks a subscription up by the provider's customer
// id. Webhook events carry only that id, not the tenant id.
func GetByBillingCustomerID(conn *gorm.DB, billingCustomerID string) (*models.Subscription, error) {
	var subscription models.Subscription
	err := conn.Where("billing_customer_id = ?", billingCustomerID).First(&subscription).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// UpsertCustomerID attaches a billing customer id to an organization,
// creating the subscription row on first checkout. Re-assigning the same id
// is a no-op; assigning a different one fails.
func UpsertCustomerID(conn *gorm.DB, organizationID uint, billingCustomerID string) error {
	subscription, err := GetByTenant(conn, organizationID)
	if err != nil {
		return err
	}

	if subscription == nil {
		subscription = &models.Subscription{
			OrganizationID:    organizationID,
			BillingCustomerID: &billingCustomerID,
			Plan:              models.PlanFree,
			Status:            models.SubscriptionStatusFree,
		}
		return conn.Create(subscription).Error
	}

	if subscription.BillingCustomerID != nil {
		if *subscription.BillingCustomerID == billingCustomerID {
			return nil
		}
		return fmt.Errorf("%w: organization %d", ErrCustomerIDConflict, organizationID)
	}

	return conn.Model(subscription).Update("billing_customer_id", billingCustomerID).Error
}

// ApplySubscriptionSnapshot overwrites the reconciler-owned fields of the
// subscription matched by billing customer id with a full provider snapshot.
// Applying the same snapshot twice is a no-op; the last snapshot applied
// wins. When no row matches, the snapshot is dropped rather than fabricating
// a tenant-less record, and the caller still acknowledges the event.
func ApplySubscriptionSnapshot(conn *gorm.DB, billingCustomerID string, plan *models.PlanID, status models.SubscriptionStatus, billingSubscriptionID *string, currentPeriodEnd *time.Time) error {
	subscription, err := GetByBillingCustomerID(conn, billingCustomerID)
	if err != nil {
		return err
	}
	if subscription == nil {
		commons.Logger.Warnf("Dropping subscription snapshot for unknown billing customer %s", billingCustomerID)
		return nil
	}

	newPlan := subscription.Plan
	if plan != nil {
		newPlan = *plan
	}
	newStatus := status
	// A snapshot that detaches the provider subscription puts the tenant
	// back on the free tier.
	if billingSubscriptionID == nil {
		newPlan = models.PlanFree
		newStatus = models.SubscriptionStatusFree
	}

	previousPlan := subscription.Plan
	previousStatus := subscription.Status

	updates := map[string]any{
		"plan":                    newPlan,
		"status":                  newStatus,
		"billing_subscription_id": billingSubscriptionID,
		"current_period_end":      currentPeriodEnd,
	}
	if err := conn.Model(subscription).Updates(updates).Error; err != nil {
		return err
	}

	notifySubscriptionChanges(conn, subscription.OrganizationID, previousPlan, newPlan, previousStatus, newStatus)
	return nil
}

// notifySubscriptionChanges records tenant-visible notifications for plan and
// payment transitions. The snapshot is already committed at this point, so
// notification failures are logged rather than returned: the provider must
// not redeliver an event over a failed notification write.
func notifySubscriptionChanges(conn *gorm.DB, organizationID uint, previousPlan, newPlan models.PlanID, previousStatus, newStatus models.SubscriptionStatus) {
	if newPlan != previousPlan {
		notification := models.Notification{
			Kind:           models.NotificationPlanChanged,
			Title:          fmt.Sprintf("Your plan changed to %s", newPlan),
			OrganizationID: organizationID,
		}
		if err := conn.Create(&notification).Error; err != nil {
			commons.Logger.Errorf("Failed to record plan change notification for organization %d: %v", organizationID, err)
		}
	}

	paymentFailed := newStatus == models.SubscriptionStatusPastDue || newStatus == models.SubscriptionStatusUnpaid
	if paymentFailed && newStatus != previousStatus {
		notification := models.Notification{
			Kind:           models.NotificationPaymentFailed,
			Title:          "Payment failed, please update your payment method",
			OrganizationID: organizationID,
		}
		if err := conn.Create(&notification).Error; err != nil {
			commons.Logger.Errorf("Failed to record payment failure notification for organization %d: %v", organizationID, err)
		}
	}
}
