// SPDX-License-Identifier: GPL-3.0-only

package migrations

import (
	"fmt"

	"adflow-server/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			// Rows written before the reconciler enforced the
			// status/subscription-id invariant may carry a paid status
			// with no provider subscription attached.
			ID: "001_normalize_free_subscriptions",
			Migrate: func(tx *gorm.DB) error {
				err := tx.Model(&models.Subscription{}).
					Where("billing_subscription_id IS NULL AND status <> ?", models.SubscriptionStatusFree).
					Updates(map[string]any{
						"status": models.SubscriptionStatusFree,
						"plan":   models.PlanFree,
					}).Error
				if err != nil {
					return fmt.Errorf("failed to normalize free subscriptions: %w", err)
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error { return nil },
		},
		{
			ID: "002_backfill_owner_memberships",
			Migrate: func(tx *gorm.DB) error {
				var orgs []models.Organization
				if err := tx.Find(&orgs).Error; err != nil {
					return fmt.Errorf("failed to fetch organizations: %w", err)
				}
				for i := range orgs {
					var count int64
					err := tx.Model(&models.Membership{}).
						Where("organization_id = ? AND role = ?", orgs[i].ID, models.RoleOwner).
						Count(&count).Error
					if err != nil {
						return err
					}
					if count > 0 {
						continue
					}
					var owner models.User
					err = tx.Where("organization_id = ?", orgs[i].ID).
						Order("id").First(&owner).Error
					if err != nil {
						continue
					}
					membership := models.Membership{
						OrganizationID: orgs[i].ID,
						UserID:         &owner.ID,
						Email:          owner.Email,
						Role:           models.RoleOwner,
					}
					if err := tx.Create(&membership).Error; err != nil {
						return fmt.Errorf("failed to backfill owner membership for organization %d: %w", orgs[i].ID, err)
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error { return nil },
		},
	}
}
