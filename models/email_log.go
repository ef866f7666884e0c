// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmailStatus string

const (
	EmailPending EmailStatus = "PENDING"
	EmailQueued  EmailStatus = "QUEUED"
	EmailFailed  EmailStatus = "FAILED"
)

// EmailLog records every outbound campaign email. The monthly usage counter
// is a count over these rows, so one row is written per recipient before the
// send is queued.
type EmailLog struct {
	ID             uint        `gorm:"primaryKey"`
	EID            uuid.UUID   `gorm:"type:uuid;not null"`
	Recipient      string      `gorm:"size:255;not null"`
	Subject        *string     `gorm:"size:255;default:null"`
	Status         EmailStatus `gorm:"size:50;not null;default:'PENDING'"`
	CreatedAt      time.Time   `gorm:"index"`
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
	CampaignID     uint
	Campaign       Campaign `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	OrganizationID uint     `gorm:"index"`
	Organization   Organization `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (emailLog *EmailLog) BeforeCreate(tx *gorm.DB) (err error) {
	emailLog.EID = uuid.New()
	return
}

func init() {
	AllModels = append(AllModels, &EmailLog{})
}
