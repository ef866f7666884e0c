// SPDX-License-Identifier: GPL-3.0-only

package billing

import (
	"testing"

	"adflow-server/models"
)

func TestLimitsForKnownPlans(t *testing.T) {
	free := LimitsFor(models.PlanFree)
	if free.MaxCampaigns != 3 || free.MaxTeamMembers != 2 || free.MaxEmailsPerMonth != 200 {
		t.Errorf("Unexpected free tier limits: %+v", free)
	}
	if free.AIOptimizationEnabled {
		t.Error("Free tier should not have AI optimization")
	}

	pro := LimitsFor(models.PlanPro)
	if pro.MaxCampaigns != 20 || pro.MaxTeamMembers != 10 || pro.MaxEmailsPerMonth != 10000 {
		t.Errorf("Unexpected pro tier limits: %+v", pro)
	}
	if !pro.AIOptimizationEnabled {
		t.Error("Pro tier should have AI optimization")
	}

	enterprise := LimitsFor(models.PlanEnterprise)
	if enterprise.MaxCampaigns != Unlimited || enterprise.MaxTeamMembers != Unlimited || enterprise.MaxEmailsPerMonth != Unlimited {
		t.Errorf("Enterprise tier should be unlimited: %+v", enterprise)
	}
}

func TestLimitsForUnknownPlanFallsBackToFree(t *testing.T) {
	tier := LimitsFor(models.PlanID("platinum"))
	if tier.ID != models.PlanFree {
		t.Errorf("Expected unknown plan to resolve to free tier, got %s", tier.ID)
	}
}

func TestResolvePlanLabel(t *testing.T) {
	cases := []struct {
		label string
		want  models.PlanID
		ok    bool
	}{
		{"pro", models.PlanPro, true},
		{"Pro", models.PlanPro, true},
		{"  enterprise  ", models.PlanEnterprise, true},
		{"AdFlow Pro", models.PlanPro, true},
		{"adflow enterprise", models.PlanEnterprise, true},
		{"free", models.PlanFree, true},
		{"gold", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ResolvePlanLabel(tc.label)
		if ok != tc.ok {
			t.Errorf("ResolvePlanLabel(%q): expected ok=%v, got %v", tc.label, tc.ok, ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ResolvePlanLabel(%q): expected %s, got %s", tc.label, tc.want, got)
		}
	}
}

func TestAllTiersOrder(t *testing.T) {
	tiers := AllTiers()
	if len(tiers) != 3 {
		t.Fatalf("Expected 3 tiers, got %d", len(tiers))
	}
	if tiers[0].ID != models.PlanFree || tiers[1].ID != models.PlanPro || tiers[2].ID != models.PlanEnterprise {
		t.Errorf("Tiers are out of order: %s, %s, %s", tiers[0].ID, tiers[1].ID, tiers[2].ID)
	}
}
