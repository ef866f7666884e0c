// SPDX-License-Identifier: GPL-3.0-only

// Package billing holds the plan-limit and subscription-state reconciliation
// engine: the static plan catalog, tenant usage counters, the limit guard
// consulted before guarded mutations, the subscription state store, and the
// reconciler that applies billing-provider webhook events to it.
package billing

import (
	"strings"

	"adflow-server/models"
)

// Unlimited marks a limit that never denies.
const Unlimited = -1

type PlanTier struct {
	ID                    models.PlanID
	MaxCampaigns          int
	MaxTeamMembers        int
	MaxEmailsPerMonth     int
	AIOptimizationEnabled bool
}

var planCatalog = map[models.PlanID]PlanTier{
	models.PlanFree: {
		ID:                models.PlanFree,
		MaxCampaigns:      3,
		MaxTeamMembers:    2,
		MaxEmailsPerMonth: 200,
	},
	models.PlanPro: {
		ID:                    models.PlanPro,
		MaxCampaigns:          20,
		MaxTeamMembers:        10,
		MaxEmailsPerMonth:     10000,
		AIOptimizationEnabled: true,
	},
	models.PlanEnterprise: {
		ID:                    models.PlanEnterprise,
		MaxCampaigns:          Unlimited,
		MaxTeamMembers:        Unlimited,
		MaxEmailsPerMonth:     Unlimited,
		AIOptimizationEnabled: true,
	},
}

// planLabels maps the provider-side price labels to plan ids, so a rename on
// the provider dashboard cannot silently reclassify tenants. Lookups are
// case-normalized.
var planLabels = map[string]models.PlanID{
	"free":              models.PlanFree,
	"pro":               models.PlanPro,
	"enterprise":        models.PlanEnterprise,
	"adflow pro":        models.PlanPro,
	"adflow enterprise": models.PlanEnterprise,
}

// LimitsFor returns the tier for a plan id. Unknown ids resolve to the free
// tier so a stale or corrupted plan value can never grant elevated limits.
func LimitsFor(plan models.PlanID) PlanTier {
	if tier, ok := planCatalog[plan]; ok {
		return tier
	}
	return planCatalog[models.PlanFree]
}

// AllTiers returns the catalog in a stable order for the plans endpoint.
func AllTiers() []PlanTier {
	return []PlanTier{
		planCatalog[models.PlanFree],
		planCatalog[models.PlanPro],
		planCatalog[models.PlanEnterprise],
	}
}

// ResolvePlanLabel maps a provider price label to a plan id.
func ResolvePlanLabel(label string) (models.PlanID, bool) {
	plan, ok := planLabels[strings.ToLower(strings.TrimSpace(label))]
	return plan, ok
}
