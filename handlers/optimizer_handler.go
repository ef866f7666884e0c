// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"fmt"
	"net/http"

	"adflow-server/billing"
	"adflow-server/db"
	"adflow-server/middlewares"
	"adflow-server/models"

	"github.com/labstack/echo/v4"
)

// OptimizeCampaignHandler godoc
// @Summary      Get optimization suggestions for a campaign
// @Description  Runs the rule-based optimizer over the campaign's performance counters. Requires a plan with AI optimization.
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        campaign_id  path  string  true  "Campaign id"
// @Success      200 {object} OptimizeCampaignResponse "Suggestions computed successfully"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      403 {object} echo.HTTPError     "Plan does not include AI optimization"
// @Failure      404 {object} echo.HTTPError     "Campaign not found"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/campaigns/{campaign_id}/optimize [post]
func OptimizeCampaignHandler(c echo.Context) error {
	logger := c.Logger()

	org, _, err := middlewares.GetAuthenticatedOrg(c)
	if err != nil {
		logger.Error("Failed to get authenticated organization:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	allowed, err := billing.AIOptimizationAllowed(db.Conn, org.ID)
	if err != nil {
		logger.Errorf("Failed to check AI optimization flag: %v", err)
		return echo.ErrInternalServerError
	}
	if !allowed {
		logger.Infof("AI optimization denied by plan.")
		return &echo.HTTPError{
			Code:    http.StatusForbidden,
			Message: "AI campaign optimization is not included in your plan. Upgrade to Pro or Enterprise to use it.",
		}
	}

	campaign, httpErr := findCampaign(c, org.ID)
	if httpErr != nil {
		return httpErr
	}

	return c.JSON(http.StatusOK, OptimizeCampaignResponse{
		Suggestions: optimizeCampaign(campaign),
		Message:     "Suggestions computed successfully",
	})
}

// optimizeCampaign derives suggestions from the campaign's counters. Plain
// threshold rules: no external calls, deterministic for a given campaign.
func optimizeCampaign(campaign *models.Campaign) []string {
	suggestions := []string{}

	if campaign.Clicks > 100 {
		conversionRate := float64(campaign.Conversions) / float64(campaign.Clicks)
		if conversionRate < 0.01 {
			suggestions = append(suggestions, fmt.Sprintf(
				"Conversion rate is %.2f%% across %d clicks. Consider revising the landing page or narrowing the audience.",
				conversionRate*100, campaign.Clicks))
		}
	}

	if campaign.BudgetCents > 0 {
		spendRatio := float64(campaign.SpendCents) / float64(campaign.BudgetCents)
		if spendRatio >= 0.9 && campaign.Status == models.CampaignActive {
			suggestions = append(suggestions, fmt.Sprintf(
				"Spend has reached %.0f%% of budget. Increase the budget or pause the campaign to avoid overruns.",
				spendRatio*100))
		}
		if spendRatio < 0.1 && campaign.Status == models.CampaignActive && campaign.Clicks == 0 {
			suggestions = append(suggestions,
				"The campaign is active but has produced no clicks and barely any spend. Check the targeting configuration.")
		}
	}

	if campaign.Status == models.CampaignPaused && campaign.Conversions > 0 {
		suggestions = append(suggestions,
			"This paused campaign has converted before. Consider resuming it with a refreshed creative.")
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, "No optimization opportunities detected. The campaign is performing within normal thresholds.")
	}

	return suggestions
}
