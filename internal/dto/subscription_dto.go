// FILE: internal/dto/subscription_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

// UpgradeRequest is the body of POST /api/subscriptions/upgrade/{planId}
type UpgradeRequest struct {
	BillingCycle string `json:"billing_cycle" validate:"required,oneof=monthly annual"`
}

// CancelRequest is the body of PATCH /api/subscriptions/cancel
type CancelRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// SubscriptionResponse mirrors the durable subscription record
type SubscriptionResponse struct {
	Id           uuid.UUID  `json:"id"`
	Plan         string     `json:"plan"`
	Status       string     `json:"status"`
	BillingCycle string     `json:"billing_cycle"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	TrialEndsAt  *time.Time `json:"trial_ends_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
}

// CurrentSubscriptionResponse is returned by GET /api/subscriptions/current
type CurrentSubscriptionResponse struct {
	Subscription SubscriptionResponse  `json:"subscription"`
	Usage        map[string]UsageLimit `json:"usage"`
}

// AccessResponse is the capability half of the entitlement check
type AccessResponse struct {
	Feature   string `json:"feature"`
	HasAccess bool   `json:"has_access"`
}
