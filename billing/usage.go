// SPDX-License-Identifier: GPL-3.0-only

package billing

import (
	"time"

	"adflow-server/models"

	"gorm.io/gorm"
)

// UsageSnapshot is a point-in-time view of one organization's resource
// consumption. It is computed on demand and never stored.
type UsageSnapshot struct {
	CampaignCount       int
	TeamMemberCount     int
	EmailsSentThisMonth int
}

func CountCampaigns(conn *gorm.DB, organizationID uint) (int, error) {
	var count int64
	err := conn.Model(&models.Campaign{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error
	return int(count), err
}

func CountTeamMembers(conn *gorm.DB, organizationID uint) (int, error) {
	var count int64
	err := conn.Model(&models.Membership{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error
	return int(count), err
}

func CountEmailsSince(conn *gorm.DB, organizationID uint, since time.Time) (int, error) {
	var count int64
	err := conn.Model(&models.EmailLog{}).
		Where("organization_id = ? AND created_at >= ?", organizationID, since).
		Count(&count).Error
	return int(count), err
}

// StartOfMonth returns the UTC calendar-month boundary the email counter is
// scoped to. UTC keeps the window deterministic across instances.
func StartOfMonth(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// SnapshotUsage gathers all three counters for the usage summary endpoint.
func SnapshotUsage(conn *gorm.DB, organizationID uint) (UsageSnapshot, error) {
	var snapshot UsageSnapshot
	var err error

	if snapshot.CampaignCount, err = CountCampaigns(conn, organizationID); err != nil {
		return snapshot, err
	}
	if snapshot.TeamMemberCount, err = CountTeamMembers(conn, organizationID); err != nil {
		return snapshot, err
	}
	snapshot.EmailsSentThisMonth, err = CountEmailsSince(conn, organizationID, StartOfMonth(time.Now()))
	return snapshot, err
}
