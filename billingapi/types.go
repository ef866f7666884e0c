// SPDX-License-Identifier: GPL-3.0-only

package billingapi

import (
	"net/http"
	"net/url"
)

type BillingConfig struct {
	baseURL string
	apiKey  string
}

type Client struct {
	BaseURL    *url.URL
	APIKey     string
	HTTPClient *http.Client
}

type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
