// SPDX-License-Identifier: GPL-3.0-only

package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"adflow-server/commons"
	"adflow-server/models"

	"gorm.io/gorm"
)

// ErrMalformedEvent marks payloads the provider will never deliver
// successfully; the webhook handler answers these with a non-retryable 400.
var ErrMalformedEvent = errors.New("malformed billing event")

const (
	EventSubscriptionCreated = "subscription.created"
	EventSubscriptionUpdated = "subscription.updated"
	EventSubscriptionDeleted = "subscription.deleted"
)

// Event is the provider's webhook envelope. The object is a full snapshot of
// the subscription at delivery time, never a delta.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object EventObject `json:"object"`
	} `json:"data"`
}

type EventObject struct {
	ID               string          `json:"id"`
	Customer         string          `json:"customer"`
	Status           string          `json:"status"`
	CurrentPeriodEnd int64           `json:"current_period_end"`
	Items            []EventLineItem `json:"items"`
}

type EventLineItem struct {
	Price struct {
		ID       string `json:"id"`
		Nickname string `json:"nickname"`
	} `json:"price"`
}

var knownStatuses = map[models.SubscriptionStatus]bool{
	models.SubscriptionStatusActive:   true,
	models.SubscriptionStatusPastDue:  true,
	models.SubscriptionStatusCanceled: true,
	models.SubscriptionStatusUnpaid:   true,
}

// HandleEvent applies one verified billing event to the subscription store.
// Signature verification must already have happened on the raw body.
//
// Events may arrive duplicated or out of order; each payload is treated as
// the authoritative full state for its subscription, so applying the same
// event twice is harmless and the last write wins. A nil return means the
// delivery can be acknowledged, including events this system decided to
// ignore (unknown type, unknown customer). A non-nil return other than
// ErrMalformedEvent means a store fault: the caller must signal a retryable
// failure so the provider redelivers.
func HandleEvent(conn *gorm.DB, raw []byte) error {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	switch event.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		return applySnapshot(conn, event, "")
	case EventSubscriptionDeleted:
		// Some providers deliver cancellation as an update with
		// status=canceled instead; both converge on the same write.
		return applySnapshot(conn, event, models.SubscriptionStatusCanceled)
	default:
		commons.Logger.Debugf("Ignoring billing event of type %q", event.Type)
		return nil
	}
}

func applySnapshot(conn *gorm.DB, event Event, statusOverride models.SubscriptionStatus) error {
	object := event.Data.Object
	if object.Customer == "" {
		return fmt.Errorf("%w: event %s has no customer id", ErrMalformedEvent, event.ID)
	}

	status := statusOverride
	if status == "" {
		status = models.SubscriptionStatus(normalizeStatus(strings.ToLower(object.Status)))
		if !knownStatuses[status] {
			commons.Logger.Warnf("Billing event %s carries unrecognized status %q, storing as-is", event.ID, object.Status)
		}
	}

	var plan *models.PlanID
	if label := planLabelFrom(object); label != "" {
		if resolved, ok := ResolvePlanLabel(label); ok {
			plan = &resolved
		} else {
			// Never fatal: status and period still apply below.
			commons.Logger.Warnf("Billing event %s carries unrecognized plan label %q, skipping plan update", event.ID, label)
		}
	}

	var billingSubscriptionID *string
	if object.ID != "" {
		billingSubscriptionID = &object.ID
	}

	var currentPeriodEnd *time.Time
	if object.CurrentPeriodEnd > 0 {
		t := time.Unix(object.CurrentPeriodEnd, 0).UTC()
		currentPeriodEnd = &t
	}

	return ApplySubscriptionSnapshot(conn, object.Customer, plan, status, billingSubscriptionID, currentPeriodEnd)
}

func planLabelFrom(object EventObject) string {
	for _, item := range object.Items {
		if item.Price.Nickname != "" {
			return item.Price.Nickname
		}
	}
	return ""
}

func normalizeStatus(status string) string {
	switch status {
	case "trialing", "incomplete":
		// Pre-activation states grant paid access on the provider side.
		return string(models.SubscriptionStatusActive)
	case "incomplete_expired":
		return string(models.SubscriptionStatusCanceled)
	default:
		return status
	}
}
