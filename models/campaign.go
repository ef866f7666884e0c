// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"adflow-server/crypto"

	"gorm.io/gorm"
)

type CampaignChannel string
type CampaignStatus string

const (
	ChannelEmail       CampaignChannel = "EMAIL"
	ChannelGoogleAds   CampaignChannel = "GOOGLE_ADS"
	ChannelMetaAds     CampaignChannel = "META_ADS"
	ChannelLinkedInAds CampaignChannel = "LINKEDIN_ADS"
	ChannelWhatsApp    CampaignChannel = "WHATSAPP"
)

const (
	CampaignDraft     CampaignStatus = "DRAFT"
	CampaignActive    CampaignStatus = "ACTIVE"
	CampaignPaused    CampaignStatus = "PAUSED"
	CampaignCompleted CampaignStatus = "COMPLETED"
)

type Campaign struct {
	ID             uint            `gorm:"primaryKey"`
	CampaignID     string          `gorm:"size:255;not null;uniqueIndex"`
	Name           string          `gorm:"size:255;not null;uniqueIndex:idx_org_campaign_name"`
	Description    *string         `gorm:"type:text;default:null"`
	Channel        CampaignChannel `gorm:"size:50;not null;default:'EMAIL'"`
	Status         CampaignStatus  `gorm:"size:50;not null;default:'DRAFT'"`
	BudgetCents    int64           `gorm:"not null;default:0"`
	SpendCents     int64           `gorm:"not null;default:0"`
	Clicks         int64           `gorm:"not null;default:0"`
	Conversions    int64           `gorm:"not null;default:0"`
	StartsAt       *time.Time
	EndsAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
	OrganizationID uint           `gorm:"uniqueIndex:idx_org_campaign_name"`
	Organization   Organization   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (campaign *Campaign) BeforeCreate(tx *gorm.DB) (err error) {
	if campaign.CampaignID == "" {
		campaign.CampaignID, err = crypto.GenerateRandomString("cmp_", 16, "hex")
		if err != nil {
			return err
		}
	}
	return
}

func init() {
	AllModels = append(AllModels, &Campaign{})
}
