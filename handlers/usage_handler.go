// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"

	"adflow-server/billing"
	"adflow-server/db"
	"adflow-server/middlewares"
	"adflow-server/models"

	"github.com/labstack/echo/v4"
)

func calculateUsagePercentage(current int, limit *int) *float64 {
	if limit == nil {
		return nil
	}
	if *limit == 0 {
		return nil
	}
	percentage := (float64(current) / float64(*limit)) * 100
	return &percentage
}

// GetUsageHandler godoc
// @Summary      Get usage summary
// @Description  Retrieves the organization's current resource consumption against its plan limits, including which actions are still available.
// @Tags         usage
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Success      200 {object} GetUsageResponse "Usage summary retrieved successfully"
// @Failure      401 {object} echo.HTTPError    "Unauthorized"
// @Failure      500 {object} echo.HTTPError    "Internal server error"
// @Router       /v1/usage [get]
func GetUsageHandler(c echo.Context) error {
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

	plan := models.PlanFree
	status := models.SubscriptionStatusFree
	if subscription != nil {
		plan = subscription.Plan
		status = subscription.Status
	}
	tier := billing.LimitsFor(plan)

	snapshot, err := billing.SnapshotUsage(db.Conn, org.ID)
	if err != nil {
		logger.Errorf("Failed to compute usage snapshot: %v", err)
		return echo.ErrInternalServerError
	}

	campaignLimit := limitValue(tier.MaxCampaigns)
	teamMemberLimit := limitValue(tier.MaxTeamMembers)
	emailLimit := limitValue(tier.MaxEmailsPerMonth)

	usage := UsageDetails{
		Campaigns: UsageItem{
			Current:    snapshot.CampaignCount,
			Limit:      campaignLimit,
			Percentage: calculateUsagePercentage(snapshot.CampaignCount, campaignLimit),
		},
		TeamMembers: UsageItem{
			Current:    snapshot.TeamMemberCount,
			Limit:      teamMemberLimit,
			Percentage: calculateUsagePercentage(snapshot.TeamMemberCount, teamMemberLimit),
		},
		EmailsThisMonth: UsageItem{
			Current:    snapshot.EmailsSentThisMonth,
			Limit:      emailLimit,
			Percentage: calculateUsagePercentage(snapshot.EmailsSentThisMonth, emailLimit),
		},
	}

	availableActions := []string{}
	if campaignLimit == nil || snapshot.CampaignCount < *campaignLimit {
		availableActions = append(availableActions, "create_campaign")
	}
	if teamMemberLimit == nil || snapshot.TeamMemberCount < *teamMemberLimit {
		availableActions = append(availableActions, "add_team_member")
	}
	if emailLimit == nil || snapshot.EmailsSentThisMonth < *emailLimit {
		availableActions = append(availableActions, "send_email")
	}
	if tier.AIOptimizationEnabled {
		availableActions = append(availableActions, "optimize_campaign")
	}

	return c.JSON(http.StatusOK, GetUsageResponse{
		Plan:             string(plan),
		Status:           string(status),
		Usage:            usage,
		AvailableActions: availableActions,
		Message:          "Usage summary retrieved successfully",
	})
}
