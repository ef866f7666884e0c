// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"adflow-server/billing"
	"adflow-server/db"
	"adflow-server/middlewares"
	"adflow-server/models"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupWebhookTest(t *testing.T) *models.Organization {
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

	previous := db.Conn
	db.Conn = conn
	t.Cleanup(func() { db.Conn = previous })

	t.Setenv("BILLING_WEBHOOK_SECRET", "whsec_test")

	org := models.Organization{Name: "Test Org"}
	if err := conn.Create(&org).Error; err != nil {
		t.Fatalf("Failed to create test organization: %v", err)
	}
	if err := billing.UpsertCustomerID(conn, org.ID, "cus_123"); err != nil {
		t.Fatalf("UpsertCustomerID failed: %v", err)
	}
	return &org
}

func postWebhook(t *testing.T, body, signature string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/billing/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set(billing.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := BillingWebhookHandler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func upgradeEventBody(customer, nickname string) string {
	return fmt.Sprintf(`{
		"id": "evt_1",
		"type": "subscription.updated",
		"data": {
			"object": {
				"id": "sub_1",
				"customer": %q,
				"status": "active",
				"current_period_end": 1790000000,
				"items": [{"price": {"id": "price_1", "nickname": %q}}]
			}
		}
	}`, customer, nickname)
}

func TestWebhookAppliesSubscriptionUpgrade(t *testing.T) {
	org := setupWebhookTest(t)

	body := upgradeEventBody("cus_123", "pro")
	rec := postWebhook(t, body, billing.Sign("whsec_test", []byte(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp WebhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Received {
		t.Error("Expected received=true")
	}

	subscription, _ := billing.GetByTenant(db.Conn, org.ID)
	if subscription.Plan != models.PlanPro || subscription.Status != models.SubscriptionStatusActive {
		t.Errorf("Expected pro/active after webhook, got %s/%s", subscription.Plan, subscription.Status)
	}
}

func TestWebhookRejectsInvalidSignatureWithoutMutation(t *testing.T) {
	org := setupWebhookTest(t)

	body := upgradeEventBody("cus_123", "enterprise")
	rec := postWebhook(t, body, billing.Sign("whsec_wrong", []byte(body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad signature, got %d", rec.Code)
	}

	subscription, _ := billing.GetByTenant(db.Conn, org.ID)
	if subscription.Plan != models.PlanFree {
		t.Errorf("A rejected event must not mutate state, got plan %s", subscription.Plan)
	}
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	setupWebhookTest(t)

	body := upgradeEventBody("cus_123", "pro")
	rec := postWebhook(t, body, "")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a missing signature, got %d", rec.Code)
	}
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	setupWebhookTest(t)

	body := `{"type": "subscription.updated",`
	rec := postWebhook(t, body, billing.Sign("whsec_test", []byte(body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestWebhookAcknowledgesUnknownCustomer(t *testing.T) {
	setupWebhookTest(t)

	body := upgradeEventBody("cus_nobody", "pro")
	rec := postWebhook(t, body, billing.Sign("whsec_test", []byte(body)))

	if rec.Code != http.StatusOK {
		t.Errorf("Unknown customers must still be acknowledged, got %d", rec.Code)
	}

	var count int64
	db.Conn.Model(&models.Subscription{}).Where("billing_customer_id = ?", "cus_nobody").Count(&count)
	if count != 0 {
		t.Error("No subscription row should be created for an unknown customer")
	}
}

func TestWebhookFailsWhenSecretUnconfigured(t *testing.T) {
	setupWebhookTest(t)
	t.Setenv("BILLING_WEBHOOK_SECRET", "")

	body := upgradeEventBody("cus_123", "pro")
	rec := postWebhook(t, body, billing.Sign("whsec_test", []byte(body)))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 when the webhook secret is unset, got %d", rec.Code)
	}
}

func setupCheckoutTest(t *testing.T) (*models.Organization, models.Session) {
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
		&models.User{},
		&models.Session{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	previous := db.Conn
	db.Conn = conn
	t.Cleanup(func() { db.Conn = previous })

	org := models.Organization{Name: "Test Org"}
	if err := conn.Create(&org).Error; err != nil {
		t.Fatalf("Failed to create test organization: %v", err)
	}
	user := models.User{
		Email:          "owner@example.com",
		Password:       "hashed",
		OrganizationID: org.ID,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	expiresAt := time.Now().Add(time.Hour)
	session := models.Session{
		Token:     "tok_test",
		UserID:    user.ID,
		ExpiresAt: &expiresAt,
	}
	if err := conn.Create(&session).Error; err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return &org, session
}

func postCheckout(t *testing.T, session models.Session, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/billing/create-checkout-session", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("auth_method", middlewares.AuthMethodSession)
	c.Set("session", session)

	if err := CreateCheckoutSessionHandler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func newBillingProvider(t *testing.T, customerCalls *int) *httptest.Server {
	t.Helper()

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/customers":
			*customerCalls++
			fmt.Fprint(w, `{"id": "cus_test_1", "email": "owner@example.com"}`)
		case "/v1/checkout/sessions":
			fmt.Fprint(w, `{"id": "cs_1", "url": "https://billing.example.com/c/cs_1"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(provider.Close)
	return provider
}

func TestCheckoutReusesExistingBillingCustomer(t *testing.T) {
	org, session := setupCheckoutTest(t)

	customerCalls := 0
	provider := newBillingProvider(t, &customerCalls)
	t.Setenv("BILLING_API_URL", provider.URL)

	for i := 0; i < 2; i++ {
		rec := postCheckout(t, session, `{"price_id": "price_pro"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("Checkout %d: expected 200, got %d: %s", i+1, rec.Code, rec.Body.String())
		}

		var resp CreateCheckoutSessionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.URL != "https://billing.example.com/c/cs_1" {
			t.Errorf("Checkout %d: unexpected redirect url %q", i+1, resp.URL)
		}
	}

	if customerCalls != 1 {
		t.Errorf("Expected exactly one customer provisioning call across two checkouts, got %d", customerCalls)
	}

	subscription, err := billing.GetByTenant(db.Conn, org.ID)
	if err != nil {
		t.Fatalf("GetByTenant failed: %v", err)
	}
	if subscription == nil || subscription.BillingCustomerID == nil || *subscription.BillingCustomerID != "cus_test_1" {
		t.Error("Expected the provisioned customer id to be persisted on the subscription row")
	}
}

func TestCheckoutRequiresPriceID(t *testing.T) {
	_, session := setupCheckoutTest(t)

	customerCalls := 0
	provider := newBillingProvider(t, &customerCalls)
	t.Setenv("BILLING_API_URL", provider.URL)

	rec := postCheckout(t, session, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a price_id, got %d", rec.Code)
	}
	if customerCalls != 0 {
		t.Errorf("A rejected request must not provision a customer, got %d calls", customerCalls)
	}
}

func TestCheckoutReturnsBadGatewayWhenProviderDown(t *testing.T) {
	_, session := setupCheckoutTest(t)

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "provider down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(provider.Close)
	t.Setenv("BILLING_API_URL", provider.URL)

	rec := postCheckout(t, session, `{"price_id": "price_pro"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 when the provider is unavailable, got %d", rec.Code)
	}
}
