// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"gorm.io/gorm"
)

type PlanID string

const (
	PlanFree       PlanID = "free"
	PlanPro        PlanID = "pro"
	PlanEnterprise PlanID = "enterprise"
)

type SubscriptionStatus string

const (
	SubscriptionStatusFree     SubscriptionStatus = "free"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusUnpaid   SubscriptionStatus = "unpaid"
)

// Subscription is the durable billing state for one organization. Created
// lazily on the first checkout attempt; the plan/status/period fields are
// owned by the billing event reconciler, the customer id by the checkout
// initiator. Rows are never deleted.
//
// Invariant: Status == free exactly when BillingSubscriptionID is nil.
type Subscription struct {
	ID                    uint    `gorm:"primaryKey"`
	BillingCustomerID     *string `gorm:"size:255;uniqueIndex;default:null"`
	BillingSubscriptionID *string `gorm:"size:255;default:null"`
	Plan                  PlanID  `gorm:"size:50;not null;default:'free'"`
	Status                SubscriptionStatus `gorm:"size:50;not null;default:'free'"`
	CurrentPeriodEnd      *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             gorm.DeletedAt `gorm:"index"`
	OrganizationID        uint           `gorm:"uniqueIndex"`
	Organization          Organization   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func init() {
	AllModels = append(AllModels, &Subscription{})
}
