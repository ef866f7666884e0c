// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"strings"
	"testing"

	"adflow-server/models"
)

func TestOptimizeCampaignLowConversionRate(t *testing.T) {
	campaign := &models.Campaign{
		Status:      models.CampaignActive,
		Clicks:      1000,
		Conversions: 2,
	}

	suggestions := optimizeCampaign(campaign)
	if !containsSuggestion(suggestions, "Conversion rate") {
		t.Errorf("Expected a conversion rate suggestion, got: %v", suggestions)
	}
}

func TestOptimizeCampaignBudgetNearlyExhausted(t *testing.T) {
	campaign := &models.Campaign{
		Status:      models.CampaignActive,
		BudgetCents: 100000,
		SpendCents:  95000,
	}

	suggestions := optimizeCampaign(campaign)
	if !containsSuggestion(suggestions, "Spend has reached") {
		t.Errorf("Expected a budget suggestion, got: %v", suggestions)
	}
}

func TestOptimizeCampaignActiveWithoutClicks(t *testing.T) {
	campaign := &models.Campaign{
		Status:      models.CampaignActive,
		BudgetCents: 100000,
		SpendCents:  1000,
		Clicks:      0,
	}

	suggestions := optimizeCampaign(campaign)
	if !containsSuggestion(suggestions, "targeting") {
		t.Errorf("Expected a targeting suggestion, got: %v", suggestions)
	}
}

func TestOptimizeCampaignPausedWithConversions(t *testing.T) {
	campaign := &models.Campaign{
		Status:      models.CampaignPaused,
		Conversions: 10,
	}

	suggestions := optimizeCampaign(campaign)
	if !containsSuggestion(suggestions, "resuming") {
		t.Errorf("Expected a resume suggestion, got: %v", suggestions)
	}
}

func TestOptimizeCampaignHealthyCampaignHasFallback(t *testing.T) {
	campaign := &models.Campaign{
		Status:      models.CampaignActive,
		BudgetCents: 100000,
		SpendCents:  50000,
		Clicks:      500,
		Conversions: 50,
	}

	suggestions := optimizeCampaign(campaign)
	if len(suggestions) != 1 || !strings.Contains(suggestions[0], "No optimization opportunities") {
		t.Errorf("Expected only the fallback suggestion, got: %v", suggestions)
	}
}

func containsSuggestion(suggestions []string, fragment string) bool {
	for _, s := range suggestions {
		if strings.Contains(s, fragment) {
			return true
		}
	}
	return false
}
