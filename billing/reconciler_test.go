// SPDX-License-Identifier: GPL-3.0-only

package billing

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"adflow-server/models"

	"gorm.io/gorm"
)

func subscriptionEvent(eventType, customer, status, nickname string, periodEnd int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test",
		"type": %q,
		"data": {
			"object": {
				"id": "sub_1",
				"customer": %q,
				"status": %q,
				"current_period_end": %d,
				"items": [{"price": {"id": "price_1", "nickname": %q}}]
			}
		}
	}`, eventType, customer, status, periodEnd, nickname))
}

func TestHandleEventRejectsMalformedJSON(t *testing.T) {
	conn := newTestDB(t)

	err := HandleEvent(conn, []byte(`{"type": "subscription.updated",`))
	if !errors.Is(err, ErrMalformedEvent) {
		t.Errorf("Expected ErrMalformedEvent for broken JSON, got: %v", err)
	}
}

func TestHandleEventRejectsMissingCustomer(t *testing.T) {
	conn := newTestDB(t)

	err := HandleEvent(conn, subscriptionEvent(EventSubscriptionUpdated, "", "active", "pro", 0))
	if !errors.Is(err, ErrMalformedEvent) {
		t.Errorf("Expected ErrMalformedEvent for missing customer, got: %v", err)
	}
}

func TestHandleEventIgnoresUnknownTypes(t *testing.T) {
	conn := newTestDB(t)

	err := HandleEvent(conn, []byte(`{"id": "evt_x", "type": "invoice.paid", "data": {"object": {}}}`))
	if err != nil {
		t.Errorf("Unknown event types must be acknowledged, got: %v", err)
	}
}

func TestHandleEventIgnoresUnknownCustomer(t *testing.T) {
	conn := newTestDB(t)

	err := HandleEvent(conn, subscriptionEvent(EventSubscriptionCreated, "cus_nobody", "active", "pro", 0))
	if err != nil {
		t.Errorf("Unknown customer events must be acknowledged, got: %v", err)
	}

	var count int64
	conn.Model(&models.Subscription{}).Count(&count)
	if count != 0 {
		t.Errorf("No subscription row should be created for an unknown customer, found %d", count)
	}
}

func TestSubscriptionLifecycle(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("UpsertCustomerID failed: %v", err)
	}

	periodEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	created := subscriptionEvent(EventSubscriptionCreated, "cus_123", "active", "pro", periodEnd.Unix())
	if err := HandleEvent(conn, created); err != nil {
		t.Fatalf("HandleEvent(created) failed: %v", err)
	}

	subscription, _ := GetByTenant(conn, org.ID)
	if subscription.Plan != models.PlanPro || subscription.Status != models.SubscriptionStatusActive {
		t.Errorf("Expected pro/active after creation, got %s/%s", subscription.Plan, subscription.Status)
	}
	if subscription.CurrentPeriodEnd == nil || !subscription.CurrentPeriodEnd.Equal(periodEnd) {
		t.Errorf("Expected period end %v, got %v", periodEnd, subscription.CurrentPeriodEnd)
	}

	pastDue := subscriptionEvent(EventSubscriptionUpdated, "cus_123", "past_due", "pro", periodEnd.Unix())
	if err := HandleEvent(conn, pastDue); err != nil {
		t.Fatalf("HandleEvent(updated) failed: %v", err)
	}

	subscription, _ = GetByTenant(conn, org.ID)
	if subscription.Status != models.SubscriptionStatusPastDue {
		t.Errorf("Expected past_due after update, got %s", subscription.Status)
	}
	if subscription.Plan != models.PlanPro {
		t.Errorf("Plan should survive a status-only update, got %s", subscription.Plan)
	}

	deleted := subscriptionEvent(EventSubscriptionDeleted, "cus_123", "canceled", "pro", 0)
	if err := HandleEvent(conn, deleted); err != nil {
		t.Fatalf("HandleEvent(deleted) failed: %v", err)
	}

	subscription, _ = GetByTenant(conn, org.ID)
	if subscription.Status != models.SubscriptionStatusCanceled {
		t.Errorf("Expected canceled after deletion, got %s", subscription.Status)
	}
}

func TestHandleEventIsIdempotent(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("UpsertCustomerID failed: %v", err)
	}

	event := subscriptionEvent(EventSubscriptionCreated, "cus_123", "active", "pro", 0)
	for i := 0; i < 2; i++ {
		if err := HandleEvent(conn, event); err != nil {
			t.Fatalf("Delivery %d failed: %v", i+1, err)
		}
	}

	subscription, _ := GetByTenant(conn, org.ID)
	if subscription.Plan != models.PlanPro || subscription.Status != models.SubscriptionStatusActive {
		t.Errorf("Duplicate delivery changed the outcome: %s/%s", subscription.Plan, subscription.Status)
	}
}

func TestHandleEventOutOfOrderLastWriteWins(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("UpsertCustomerID failed: %v", err)
	}

	upgrade := subscriptionEvent(EventSubscriptionUpdated, "cus_123", "active", "enterprise", 0)
	downgrade := subscriptionEvent(EventSubscriptionUpdated, "cus_123", "active", "pro", 0)

	if err := HandleEvent(conn, upgrade); err != nil {
		t.Fatalf("HandleEvent(upgrade) failed: %v", err)
	}
	if err := HandleEvent(conn, downgrade); err != nil {
		t.Fatalf("HandleEvent(downgrade) failed: %v", err)
	}

	subscription, _ := GetByTenant(conn, org.ID)
	if subscription.Plan != models.PlanPro {
		t.Errorf("Last delivered snapshot must win, got %s", subscription.Plan)
	}
}

func TestHandleEventUnknownPlanLabelKeepsExistingPlan(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("UpsertCustomerID failed: %v", err)
	}

	if err := HandleEvent(conn, subscriptionEvent(EventSubscriptionCreated, "cus_123", "active", "pro", 0)); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	renamed := subscriptionEvent(EventSubscriptionUpdated, "cus_123", "past_due", "Shiny New Label", 0)
	if err := HandleEvent(conn, renamed); err != nil {
		t.Fatalf("HandleEvent with unknown label failed: %v", err)
	}

	subscription, _ := GetByTenant(conn, org.ID)
	if subscription.Plan != models.PlanPro {
		t.Errorf("Unknown plan label must not change the stored plan, got %s", subscription.Plan)
	}
	if subscription.Status != models.SubscriptionStatusPastDue {
		t.Errorf("Status update should still apply, got %s", subscription.Status)
	}
}

func TestHandleEventNormalizesProviderStatuses(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("UpsertCustomerID failed: %v", err)
	}

	cases := []struct {
		provider string
		want     models.SubscriptionStatus
	}{
		{"trialing", models.SubscriptionStatusActive},
		{"incomplete", models.SubscriptionStatusActive},
		{"incomplete_expired", models.SubscriptionStatusCanceled},
		{"ACTIVE", models.SubscriptionStatusActive},
	}

	for _, tc := range cases {
		event := subscriptionEvent(EventSubscriptionUpdated, "cus_123", tc.provider, "pro", 0)
		if err := HandleEvent(conn, event); err != nil {
			t.Fatalf("HandleEvent(%s) failed: %v", tc.provider, err)
		}
		subscription, _ := GetByTenant(conn, org.ID)
		if subscription.Status != tc.want {
			t.Errorf("Status %q should normalize to %s, got %s", tc.provider, tc.want, subscription.Status)
		}
	}
}

func countNotifications(t *testing.T, conn *gorm.DB, organizationID uint, kind models.NotificationKind) int64 {
	t.Helper()

	var count int64
	err := conn.Model(&models.Notification{}).
		Where("organization_id = ? AND kind = ?", organizationID, kind).
		Count(&count).Error
	if err != nil {
		t.Fatalf("Failed to count notifications: %v", err)
	}
	return count
}

func TestHandleEventEmitsPlanChangeNotificationOnce(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("UpsertCustomerID failed: %v", err)
	}

	event := subscriptionEvent(EventSubscriptionCreated, "cus_123", "active", "pro", 0)
	for i := 0; i < 2; i++ {
		if err := HandleEvent(conn, event); err != nil {
			t.Fatalf("Delivery %d failed: %v", i+1, err)
		}
	}

	if count := countNotifications(t, conn, org.ID, models.NotificationPlanChanged); count != 1 {
		t.Errorf("Expected exactly one plan change notification after duplicate delivery, got %d", count)
	}
}

func TestHandleEventDoesNotNotifyWhenPlanUnchanged(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("UpsertCustomerID failed: %v", err)
	}

	// Same free plan, only the period end moves.
	event := subscriptionEvent(EventSubscriptionUpdated, "cus_123", "active", "free", 1790000000)
	if err := HandleEvent(conn, event); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if count := countNotifications(t, conn, org.ID, models.NotificationPlanChanged); count != 0 {
		t.Errorf("An unchanged plan must not notify, got %d notifications", count)
	}
}

func TestHandleEventEmitsPaymentFailedNotificationOnTransition(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("UpsertCustomerID failed: %v", err)
	}

	active := subscriptionEvent(EventSubscriptionCreated, "cus_123", "active", "pro", 0)
	if err := HandleEvent(conn, active); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	pastDue := subscriptionEvent(EventSubscriptionUpdated, "cus_123", "past_due", "pro", 0)
	for i := 0; i < 2; i++ {
		if err := HandleEvent(conn, pastDue); err != nil {
			t.Fatalf("Delivery %d failed: %v", i+1, err)
		}
	}

	if count := countNotifications(t, conn, org.ID, models.NotificationPaymentFailed); count != 1 {
		t.Errorf("Expected exactly one payment failure notification for the past_due transition, got %d", count)
	}
}
