// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type BillingCycle string

const (
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"

	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleAnnual  BillingCycle = "annual"
)

// TrialDuration is how long a started trial runs before the lazy expiry
// check flips it to expired.
const TrialDuration = 14 * 24 * time.Hour

// Subscription is the durable plan record, exactly one per user. It is never
// deleted, only status-transitioned by the lifecycle service.
type Subscription struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Plan         PlanId
	Status       SubscriptionStatus
	BillingCycle BillingCycle
	StartDate    time.Time
	EndDate      *time.Time
	TrialEndsAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string
	// LimitSnapshot records the plan limits that were in force when the plan
	// last changed. Audit only; entitlement always reads the live catalog.
	LimitSnapshot map[Feature]int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TrialOverdue reports whether a trial subscription is past its deadline.
// Pure function of now vs trialEndsAt so the lazy expiry check stays
// idempotent on every read.
func (s *Subscription) TrialOverdue(now time.Time) bool {
	return s.Status == SubscriptionStatusTrial &&
		s.TrialEndsAt != nil &&
		now.After(*s.TrialEndsAt)
}

// AccessRetained reports whether the subscription still grants access at the
// given instant. Cancelled subscriptions keep access until endDate
// (soft-cancel); expired ones never do.
func (s *Subscription) AccessRetained(now time.Time) bool {
	switch s.Status {
	case SubscriptionStatusActive:
		return true
	case SubscriptionStatusTrial:
		return !s.TrialOverdue(now)
	case SubscriptionStatusCancelled:
		return s.EndDate != nil && s.EndDate.After(now)
	default:
		return false
	}
}
