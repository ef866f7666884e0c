// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationKind string

const (
	NotificationPlanChanged    NotificationKind = "PLAN_CHANGED"
	NotificationPaymentFailed  NotificationKind = "PAYMENT_FAILED"
	NotificationMemberInvited  NotificationKind = "MEMBER_INVITED"
	NotificationCampaignUpdate NotificationKind = "CAMPAIGN_UPDATE"
)

// Notification is surfaced across requests and instances, so it lives in the
// database rather than process memory.
type Notification struct {
	ID             uint             `gorm:"primaryKey"`
	NID            uuid.UUID        `gorm:"type:uuid;not null"`
	Kind           NotificationKind `gorm:"size:50;not null"`
	Title          string           `gorm:"size:255;not null"`
	Body           *string          `gorm:"type:text;default:null"`
	ReadAt         *time.Time
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
	OrganizationID uint           `gorm:"index"`
	Organization   Organization   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (notification *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	notification.NID = uuid.New()
	return
}

func init() {
	AllModels = append(AllModels, &Notification{})
}
