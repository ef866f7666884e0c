// SPDX-License-Identifier: GPL-3.0-only

package billing

import (
	"errors"
	"testing"
	"time"

	"adflow-server/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = conn.AutoMigrate(
		&models.Organization{},
		&models.Subscription{},
		&models.Campaign{},
		&models.Membership{},
		&models.EmailLog{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return conn
}

func newTestOrg(t *testing.T, conn *gorm.DB) *models.Organization {
	t.Helper()

	org := models.Organization{Name: "Test Org"}
	if err := conn.Create(&org).Error; err != nil {
		t.Fatalf("Failed to create test organization: %v", err)
	}
	return &org
}

func TestUpsertCustomerIDCreatesRowOnFirstCheckout(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("UpsertCustomerID failed: %v", err)
	}

	subscription, err := GetByTenant(conn, org.ID)
	if err != nil {
		t.Fatalf("GetByTenant failed: %v", err)
	}
	if subscription == nil {
		t.Fatal("Expected a subscription row to be created")
	}
	if subscription.BillingCustomerID == nil || *subscription.BillingCustomerID != "cus_123" {
		t.Errorf("Expected billing customer id cus_123, got %v", subscription.BillingCustomerID)
	}
	if subscription.Plan != models.PlanFree || subscription.Status != models.SubscriptionStatusFree {
		t.Errorf("New row should start on the free plan, got plan=%s status=%s", subscription.Plan, subscription.Status)
	}
}

func TestUpsertCustomerIDIsAssignOnce(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Errorf("Re-assigning the same customer id should be a no-op, got: %v", err)
	}

	err := UpsertCustomerID(conn, org.ID, "cus_456")
	if !errors.Is(err, ErrCustomerIDConflict) {
		t.Errorf("Expected ErrCustomerIDConflict for a different id, got: %v", err)
	}

	subscription, _ := GetByTenant(conn, org.ID)
	if *subscription.BillingCustomerID != "cus_123" {
		t.Errorf("Customer id must not be overwritten, got %s", *subscription.BillingCustomerID)
	}
}

func TestApplySnapshotForUnknownCustomerIsDropped(t *testing.T) {
	conn := newTestDB(t)

	plan := models.PlanPro
	subID := "sub_1"
	err := ApplySubscriptionSnapshot(conn, "cus_nobody", &plan, models.SubscriptionStatusActive, &subID, nil)
	if err != nil {
		t.Fatalf("Dropping an unknown customer snapshot must not be an error: %v", err)
	}

	var count int64
	conn.Model(&models.Subscription{}).Count(&count)
	if count != 0 {
		t.Errorf("No subscription row should be fabricated, found %d", count)
	}
}

func TestApplySnapshotIsIdempotent(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("UpsertCustomerID failed: %v", err)
	}

	plan := models.PlanPro
	subID := "sub_1"
	periodEnd := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		err := ApplySubscriptionSnapshot(conn, "cus_123", &plan, models.SubscriptionStatusActive, &subID, &periodEnd)
		if err != nil {
			t.Fatalf("Apply %d failed: %v", i+1, err)
		}
	}

	subscription, _ := GetByTenant(conn, org.ID)
	if subscription.Plan != models.PlanPro || subscription.Status != models.SubscriptionStatusActive {
		t.Errorf("Expected pro/active after double apply, got %s/%s", subscription.Plan, subscription.Status)
	}
	if subscription.BillingSubscriptionID == nil || *subscription.BillingSubscriptionID != "sub_1" {
		t.Errorf("Expected billing subscription id sub_1, got %v", subscription.BillingSubscriptionID)
	}
	if subscription.CurrentPeriodEnd == nil || !subscription.CurrentPeriodEnd.Equal(periodEnd) {
		t.Errorf("Expected period end %v, got %v", periodEnd, subscription.CurrentPeriodEnd)
	}
}

func TestApplySnapshotLastWriteWins(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("UpsertCustomerID failed: %v", err)
	}

	enterprise := models.PlanEnterprise
	pro := models.PlanPro
	subID := "sub_1"

	if err := ApplySubscriptionSnapshot(conn, "cus_123", &enterprise, models.SubscriptionStatusActive, &subID, nil); err != nil {
		t.Fatalf("First apply failed: %v", err)
	}
	if err := ApplySubscriptionSnapshot(conn, "cus_123", &pro, models.SubscriptionStatusPastDue, &subID, nil); err != nil {
		t.Fatalf("Second apply failed: %v", err)
	}

	subscription, _ := GetByTenant(conn, org.ID)
	if subscription.Plan != models.PlanPro || subscription.Status != models.SubscriptionStatusPastDue {
		t.Errorf("Last snapshot must win, got %s/%s", subscription.Plan, subscription.Status)
	}
}

func TestApplySnapshotDetachedSubscriptionRevertsToFree(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	if err := UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("UpsertCustomerID failed: %v", err)
	}

	pro := models.PlanPro
	subID := "sub_1"
	if err := ApplySubscriptionSnapshot(conn, "cus_123", &pro, models.SubscriptionStatusActive, &subID, nil); err != nil {
		t.Fatalf("Upgrade apply failed: %v", err)
	}

	if err := ApplySubscriptionSnapshot(conn, "cus_123", nil, models.SubscriptionStatusCanceled, nil, nil); err != nil {
		t.Fatalf("Detach apply failed: %v", err)
	}

	subscription, _ := GetByTenant(conn, org.ID)
	if subscription.Plan != models.PlanFree || subscription.Status != models.SubscriptionStatusFree {
		t.Errorf("Detached subscription should revert to free/free, got %s/%s", subscription.Plan, subscription.Status)
	}
	if subscription.BillingSubscriptionID != nil {
		t.Errorf("Expected billing subscription id to be cleared, got %v", *subscription.BillingSubscriptionID)
	}
	if subscription.BillingCustomerID == nil || *subscription.BillingCustomerID != "cus_123" {
		t.Error("Customer id must survive cancellation")
	}
}

func TestGetByTenantAbsentRowMeansFree(t *testing.T) {
	conn := newTestDB(t)
	org := newTestOrg(t, conn)

	subscription, err := GetByTenant(conn, org.ID)
	if err != nil {
		t.Fatalf("GetByTenant failed: %v", err)
	}
	if subscription != nil {
		t.Errorf("Expected nil for an organization without a subscription row, got %+v", subscription)
	}
}
