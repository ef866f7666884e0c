// SPDX-License-Identifier: GPL-3.0-only

package billing

import (
	"fmt"
	"time"

	"adflow-server/models"

	"gorm.io/gorm"
)

type ResourceKind string

const (
	ResourceCampaign   ResourceKind = "campaign"
	ResourceTeamMember ResourceKind = "team_member"
	ResourceEmail      ResourceKind = "email"
)

// Decision is the outcome of a limit check. A denial is routine control flow,
// not an error: infrastructure failures surface through the error return
// instead.
type Decision struct {
	Allowed bool
	Reason  string
}

var allow = Decision{Allowed: true}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CheckLimit decides whether an organization may create or consume one more
// resource of the given kind. It reads the subscription row (absent row means
// free plan), resolves the tier limits, counts current usage and compares.
// Reaching the cap blocks the next creation; unlimited tiers always allow.
//
// The check is read-only and is not atomic with the mutation that follows it.
// Two concurrent requests at count == limit-1 can both pass; the cap is a
// soft limit.
func CheckLimit(conn *gorm.DB, organizationID uint, kind ResourceKind) (Decision, error) {
	plan := models.PlanFree
	subscription, err := GetByTenant(conn, organizationID)
	if err != nil {
		return Decision{}, err
	}
	if subscription != nil {
		plan = subscription.Plan
	}

	tier := LimitsFor(plan)

	switch kind {
	case ResourceCampaign:
		if tier.MaxCampaigns == Unlimited {
			return allow, nil
		}
		usage, err := CountCampaigns(conn, organizationID)
		if err != nil {
			return Decision{}, err
		}
		if usage >= tier.MaxCampaigns {
			return deny(fmt.Sprintf("Your %s plan allows up to %d campaigns. Upgrade your plan to create more.", plan, tier.MaxCampaigns)), nil
		}
	case ResourceTeamMember:
		if tier.MaxTeamMembers == Unlimited {
			return allow, nil
		}
		usage, err := CountTeamMembers(conn, organizationID)
		if err != nil {
			return Decision{}, err
		}
		if usage >= tier.MaxTeamMembers {
			return deny(fmt.Sprintf("Your %s plan allows up to %d team members. Upgrade your plan to add more.", plan, tier.MaxTeamMembers)), nil
		}
	case ResourceEmail:
		if tier.MaxEmailsPerMonth == Unlimited {
			return allow, nil
		}
		usage, err := CountEmailsSince(conn, organizationID, StartOfMonth(time.Now()))
		if err != nil {
			return Decision{}, err
		}
		if usage >= tier.MaxEmailsPerMonth {
			return deny(fmt.Sprintf("Your %s plan allows up to %d emails per month. Upgrade your plan to send more.", plan, tier.MaxEmailsPerMonth)), nil
		}
	default:
		return Decision{}, fmt.Errorf("unknown resource kind: %s", kind)
	}

	return allow, nil
}

// CheckEmailBatch decides whether an organization may send n more emails this
// month. A batch that does not fit under the remaining allowance is rejected
// whole, before anything is logged or queued, so a limit denial never follows
// a partial send.
func CheckEmailBatch(conn *gorm.DB, organizationID uint, n int) (Decision, error) {
	plan := models.PlanFree
	subscription, err := GetByTenant(conn, organizationID)
	if err != nil {
		return Decision{}, err
	}
	if subscription != nil {
		plan = subscription.Plan
	}

	tier := LimitsFor(plan)
	if tier.MaxEmailsPerMonth == Unlimited {
		return allow, nil
	}

	usage, err := CountEmailsSince(conn, organizationID, StartOfMonth(time.Now()))
	if err != nil {
		return Decision{}, err
	}
	if usage+n > tier.MaxEmailsPerMonth {
		remaining := tier.MaxEmailsPerMonth - usage
		if remaining < 0 {
			remaining = 0
		}
		return deny(fmt.Sprintf("Your %s plan allows up to %d emails per month and %d remain this month. Upgrade your plan to send more.", plan, tier.MaxEmailsPerMonth, remaining)), nil
	}

	return allow, nil
}

// AIOptimizationAllowed reports whether the organization's tier carries the
// AI optimization feature flag.
func AIOptimizationAllowed(conn *gorm.DB, organizationID uint) (bool, error) {
	plan := models.PlanFree
	subscription, err := GetByTenant(conn, organizationID)
	if err != nil {
		return false, err
	}
	if subscription != nil {
		plan = subscription.Plan
	}
	return LimitsFor(plan).AIOptimizationEnabled, nil
}
