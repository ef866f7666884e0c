// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestGetPlansHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/plans", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := GetPlansHandler(c); err != nil {
		t.Fatalf("GetPlansHandler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp GetPlansResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(resp.Plans) != 3 {
		t.Fatalf("Expected 3 plans, got %d", len(resp.Plans))
	}

	free := resp.Plans[0]
	if free.ID != "free" {
		t.Errorf("Expected first plan to be free, got %s", free.ID)
	}
	if free.Limits.MaxCampaigns == nil || *free.Limits.MaxCampaigns != 3 {
		t.Errorf("Expected free plan to allow 3 campaigns, got %v", free.Limits.MaxCampaigns)
	}
	if free.Limits.AIOptimization {
		t.Error("Free plan should not include AI optimization")
	}

	enterprise := resp.Plans[2]
	if enterprise.ID != "enterprise" {
		t.Errorf("Expected last plan to be enterprise, got %s", enterprise.ID)
	}
	if enterprise.Limits.MaxCampaigns != nil {
		t.Errorf("Enterprise campaign limit should serialize as null, got %v", *enterprise.Limits.MaxCampaigns)
	}
	if !enterprise.Limits.AIOptimization {
		t.Error("Enterprise plan should include AI optimization")
	}
}
