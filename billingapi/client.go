// SPDX-License-Identifier: GPL-3.0-only

// Package billingapi is the outbound client for the subscription billing
// provider: customer provisioning and hosted checkout sessions. Inbound
// webhook handling lives in the billing package.
package billingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"adflow-server/commons"
)

func NewClient(c BillingConfig) (*Client, error) {
	if c.baseURL == "" {
		c.baseURL = commons.GetEnv("BILLING_API_URL", "https://api.billing.example.com")
	}
	if c.apiKey == "" {
		c.apiKey = commons.GetEnv("BILLING_API_KEY")
	}

	parsedURL, err := url.Parse(c.baseURL)
	if err != nil {
		commons.Logger.Error("Failed to parse billing API base URL:", err)
		return nil, err
	}
	commons.Logger.Debugf("Billing API client initialized for %s", c.baseURL)
	return &Client{
		BaseURL:    parsedURL,
		APIKey:     c.apiKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// CreateCustomer provisions a billing customer for an organization. Called at
// most once per tenant; the returned id is persisted and reused afterwards.
func (c *Client) CreateCustomer(ctx context.Context, email, orgID string) (*Customer, error) {
	commons.Logger.Debugf("Creating billing customer for organization %s", orgID)
	body := map[string]any{
		"email": email,
		"metadata": map[string]string{
			"org_id": orgID,
		},
	}

	var customer Customer
	if err := c.post(ctx, "/v1/customers", body, &customer); err != nil {
		return nil, err
	}
	if customer.ID == "" {
		return nil, fmt.Errorf("billing provider returned a customer without an id")
	}
	commons.Logger.Infof("Billing customer created for organization %s", orgID)
	return &customer, nil
}

// CreateCheckoutSession starts a hosted checkout for the given price and
// returns the redirect target.
func (c *Client) CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (*CheckoutSession, error) {
	commons.Logger.Debugf("Creating checkout session for customer %s", customerID)
	body := map[string]any{
		"customer":    customerID,
		"price":       priceID,
		"mode":        "subscription",
		"success_url": successURL,
		"cancel_url":  cancelURL,
	}

	var session CheckoutSession
	if err := c.post(ctx, "/v1/checkout/sessions", body, &session); err != nil {
		return nil, err
	}
	if session.URL == "" {
		return nil, fmt.Errorf("billing provider returned a checkout session without a url")
	}
	return &session, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	rel := &url.URL{Path: path}
	u := c.BaseURL.ResolveReference(rel)

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", u.String(), bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		commons.Logger.Errorf("Billing API call %s failed: %s", path, resp.Status)
		return fmt.Errorf("billing API call failed: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
