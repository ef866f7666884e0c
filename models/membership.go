// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"gorm.io/gorm"
)

type MemberRole string

const (
	RoleOwner  MemberRole = "OWNER"
	RoleMember MemberRole = "MEMBER"
)

type Membership struct {
	ID             uint       `gorm:"primaryKey"`
	Email          string     `gorm:"size:255;not null;uniqueIndex:idx_org_member_email"`
	Role           MemberRole `gorm:"size:50;not null;default:'MEMBER'"`
	InvitedAt      *time.Time
	AcceptedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
	OrganizationID uint           `gorm:"uniqueIndex:idx_org_member_email"`
	Organization   Organization   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID         *uint
}

func init() {
	AllModels = append(AllModels, &Membership{})
}
