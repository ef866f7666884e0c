// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"fmt"
	"net/http"

	"adflow-server/billing"
	"adflow-server/models"

	"github.com/labstack/echo/v4"
)

// limitValue converts a catalog limit to the JSON representation, where
// null means unlimited.
func limitValue(limit int) *int {
	if limit == billing.Unlimited {
		return nil
	}
	return &limit
}

// GetPlansHandler godoc
// @Summary      Get available plans
// @Description  Retrieves all available subscription plans with their limits and feature lists for display to clients.
// @Tags         plans
// @Accept       json
// @Produce      json
// @Success      200 {object}  GetPlansResponse "Plans retrieved successfully"
// @Router       /v1/plans [get]
func GetPlansHandler(c echo.Context) error {
	var planOptions []PlanOption
	for _, tier := range billing.AllTiers() {
		var features []string
		switch tier.ID {
		case models.PlanFree:
			features = []string{
				fmt.Sprintf("%d campaigns", tier.MaxCampaigns),
				fmt.Sprintf("%d team members", tier.MaxTeamMembers),
				fmt.Sprintf("%d emails/month", tier.MaxEmailsPerMonth),
				"Community support",
			}
		case models.PlanPro:
			features = []string{
				fmt.Sprintf("%d campaigns", tier.MaxCampaigns),
				fmt.Sprintf("%d team members", tier.MaxTeamMembers),
				fmt.Sprintf("%d emails/month", tier.MaxEmailsPerMonth),
				"AI campaign optimization",
				"Priority support",
			}
		case models.PlanEnterprise:
			features = []string{
				"Unlimited campaigns",
				"Unlimited team members",
				"Unlimited emails/month",
				"AI campaign optimization",
				"Dedicated support",
			}
		}

		planOptions = append(planOptions, PlanOption{
			ID: string(tier.ID),
			Limits: PlanLimits{
				MaxCampaigns:      limitValue(tier.MaxCampaigns),
				MaxTeamMembers:    limitValue(tier.MaxTeamMembers),
				MaxEmailsPerMonth: limitValue(tier.MaxEmailsPerMonth),
				AIOptimization:    tier.AIOptimizationEnabled,
			},
			Features:    features,
			Recommended: tier.ID == models.PlanPro,
		})
	}

	return c.JSON(http.StatusOK, GetPlansResponse{
		Plans:   planOptions,
		Message: "Plans retrieved successfully",
	})
}
