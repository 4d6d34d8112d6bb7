package events

import (
	"context"
	"time"
)

// Publisher sends events to the bus. Implementations must be safe for
// concurrent use; publish failures never fail the triggering request.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

const (
	TypeTrialStarted         = "TRIAL_STARTED"
	TypeTrialExpired         = "TRIAL_EXPIRED"
	TypeSubscriptionUpgraded = "SUBSCRIPTION_UPGRADED"
	TypeSubscriptionCanceled = "SUBSCRIPTION_CANCELLED"
	TypeUsageLimitReached    = "USAGE_LIMIT_REACHED"
)

func NewTrialStarted(userId, plan string, trialEndsAt time.Time) Event {
	return BaseEvent{
		Type: TypeTrialStarted,
		Data: map[string]interface{}{
			"user_id":       userId,
			"plan":          plan,
			"trial_ends_at": trialEndsAt,
		},
		OccurredAt: time.Now(),
	}
}

func NewTrialExpired(userId, plan string) Event {
	return BaseEvent{
		Type: TypeTrialExpired,
		Data: map[string]interface{}{
			"user_id": userId,
			"plan":    plan,
		},
		OccurredAt: time.Now(),
	}
}

func NewSubscriptionUpgraded(userId, fromPlan, toPlan, billingCycle string) Event {
	return BaseEvent{
		Type: TypeSubscriptionUpgraded,
		Data: map[string]interface{}{
			"user_id":       userId,
			"from_plan":     fromPlan,
			"to_plan":       toPlan,
			"billing_cycle": billingCycle,
		},
		OccurredAt: time.Now(),
	}
}

func NewSubscriptionCancelled(userId, plan, reason string) Event {
	return BaseEvent{
		Type: TypeSubscriptionCanceled,
		Data: map[string]interface{}{
			"user_id": userId,
			"plan":    plan,
			"reason":  reason,
		},
		OccurredAt: time.Now(),
	}
}

func NewUsageLimitReached(userId, feature string, used, limit int) Event {
	return BaseEvent{
		Type: TypeUsageLimitReached,
		Data: map[string]interface{}{
			"user_id": userId,
			"feature": feature,
			"used":    used,
			"limit":   limit,
		},
		OccurredAt: time.Now(),
	}
}
