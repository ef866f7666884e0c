// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"io"
	"net/http"

	"adflow-server/billing"
	"adflow-server/billingapi"
	"adflow-server/commons"
	"adflow-server/db"
	"adflow-server/middlewares"
	"adflow-server/models"

	"github.com/labstack/echo/v4"
)

// BillingWebhookHandler godoc
// @Summary      Receive billing provider events
// @Description  Verifies the provider signature over the raw body and reconciles the subscription state. Always acknowledges events this system decides to ignore so the provider stops retrying them.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        X-Billing-Signature  header  string  true  "HMAC-SHA256 signature over the raw request body"
// @Success      200 {object} WebhookResponse "Event received"
// @Failure      400 {object} echo.HTTPError     "Invalid signature or malformed payload"
// @Failure      500 {object} echo.HTTPError     "Webhook secret not configured"
// @Failure      502 {object} echo.HTTPError     "Store fault, provider should retry delivery"
// @Router       /v1/billing/webhook [post]
func BillingWebhookHandler(c echo.Context) error {
	logger := c.Logger()

	// The signature covers the raw bytes: read them before any decoding.
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		logger.Error("Failed to read webhook body:", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Failed to read request body",
		}
	}

	secret := commons.GetEnv("BILLING_WEBHOOK_SECRET")
	if secret == "" {
		logger.Error("BILLING_WEBHOOK_SECRET is not configured.")
		return echo.ErrInternalServerError
	}

	signature := c.Request().Header.Get(billing.SignatureHeader)
	if !billing.VerifySignature(secret, body, signature) {
		logger.Error("Webhook signature verification failed.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Invalid webhook signature",
		}
	}

	if err := billing.HandleEvent(db.Conn, body); err != nil {
		if errors.Is(err, billing.ErrMalformedEvent) {
			logger.Error("Malformed billing event:", err)
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "Malformed event payload",
			}
		}
		// Never acknowledge before the store write succeeds: a 5xx
		// here makes the provider redeliver the event.
		logger.Errorf("Failed to reconcile billing event: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusBadGateway,
			Message: "Event processing failed, retry delivery",
		}
	}

	return c.JSON(http.StatusOK, WebhookResponse{Received: true})
}

// CreateCheckoutSessionHandler godoc
// @Summary      Start a hosted checkout session
// @Description  Provisions a billing customer for the organization on first use, then creates a checkout session for the chosen price and returns the redirect URL.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        createCheckoutSessionRequest  body  CreateCheckoutSessionRequest  true  "Create checkout session request payload"
// @Success      200 {object} CreateCheckoutSessionResponse "Checkout session created"
// @Failure      400 {object} echo.HTTPError     "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      502 {object} echo.HTTPError     "Billing provider unreachable"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/billing/create-checkout-session [post]
func CreateCheckoutSessionHandler(c echo.Context) error {
	logger := c.Logger()

	org, user, err := middlewares.GetAuthenticatedOrg(c)
	if err != nil {
		logger.Error("Failed to get authenticated organization:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req CreateCheckoutSessionRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid create checkout session request payload:", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request payload, please ensure it is well-formed and has content-type application/json header",
		}
	}

	if req.PriceID == "" {
		logger.Error("Price id is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "price_id field is required",
		}
	}

	billingClient, err := billingapi.NewClient(billingapi.BillingConfig{})
	if err != nil {
		logger.Error("Failed to initialize billing API client:", err)
		return echo.ErrInternalServerError
	}

	subscription, err := billing.GetByTenant(db.Conn, org.ID)
	if err != nil {
		logger.Errorf("Failed to fetch subscription: %v", err)
		return echo.ErrInternalServerError
	}

	var customerID string
	if subscription != nil && subscription.BillingCustomerID != nil {
		customerID = *subscription.BillingCustomerID
	} else {
		customer, err := billingClient.CreateCustomer(c.Request().Context(), user.Email, org.OrgID)
		if err != nil {
			logger.Errorf("Failed to create billing customer: %v", err)
			return &echo.HTTPError{
				Code:    http.StatusBadGateway,
				Message: "Billing provider is unavailable, please try again later",
			}
		}
		if err := billing.UpsertCustomerID(db.Conn, org.ID, customer.ID); err != nil {
			logger.Errorf("Failed to persist billing customer id: %v", err)
			return echo.ErrInternalServerError
		}
		customerID = customer.ID
	}

	frontendBaseURL := commons.GetEnv("FRONTEND_BASE_URL", "http://localhost:3000")
	session, err := billingClient.CreateCheckoutSession(
		c.Request().Context(),
		customerID,
		req.PriceID,
		frontendBaseURL+"/billing/success",
		frontendBaseURL+"/billing/cancel",
	)
	if err != nil {
		logger.Errorf("Failed to create checkout session: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusBadGateway,
			Message: "Billing provider is unavailable, please try again later",
		}
	}

	return c.JSON(http.StatusOK, CreateCheckoutSessionResponse{URL: session.URL})
}

// GetSubscriptionHandler godoc
// @Summary      Get subscription status
// @Description  Returns the organization's plan, status and current period end. Organizations without a subscription row are on the free plan.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Success      200 {object} GetSubscriptionResponse "Subscription status retrieved successfully"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/billing/subscription [get]
func GetSubscriptionHandler(c echo.Context) error {
	logger := c.Logger()

	org, _, err := middlewares.GetAuthenticatedOrg(c)
	if err != nil {
		logger.Error("Failed to get authenticated organization:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	subscription, err := billing.GetByTenant(db.Conn, org.ID)
	if err != nil {
		logger.Errorf("Failed to fetch subscription: %v", err)
		return echo.ErrInternalServerError
	}

	response := GetSubscriptionResponse{
		Plan:    string(models.PlanFree),
		Status:  string(models.SubscriptionStatusFree),
		Message: "Subscription status retrieved successfully",
	}
	if subscription != nil {
		response.Plan = string(subscription.Plan)
		response.Status = string(subscription.Status)
		if subscription.CurrentPeriodEnd != nil {
			periodEnd := subscription.CurrentPeriodEnd.Unix()
			response.CurrentPeriodEnd = &periodEnd
		}
	}

	return c.JSON(http.StatusOK, response)
}
