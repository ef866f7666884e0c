// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"adflow-server/crypto"

	"gorm.io/gorm"
)

// Organization is the tenant unit: every campaign, membership, email log
// and subscription hangs off one organization.
type Organization struct {
	ID           uint   `gorm:"primaryKey"`
	OrgID        string `gorm:"size:255;not null;uniqueIndex"`
	Name         string `gorm:"size:255;not null"`
	AccountToken string `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (org *Organization) BeforeCreate(tx *gorm.DB) (err error) {
	if org.OrgID == "" {
		org.OrgID, err = crypto.GenerateRandomString("org_", 16, "hex")
		if err != nil {
			return err
		}
	}
	if org.AccountToken == "" {
		org.AccountToken, err = crypto.GenerateRandomString("", 32, "hex")
		if err != nil {
			return err
		}
	}
	return
}

func init() {
	AllModels = append(AllModels, &Organization{})
}
