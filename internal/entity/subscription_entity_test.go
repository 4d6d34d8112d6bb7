package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessRetained(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{"active", Subscription{Status: SubscriptionStatusActive}, true},
		{"trial within window", Subscription{Status: SubscriptionStatusTrial, TrialEndsAt: &future}, true},
		{"trial past deadline", Subscription{Status: SubscriptionStatusTrial, TrialEndsAt: &past}, false},
		{"cancelled before end date", Subscription{Status: SubscriptionStatusCancelled, EndDate: &future}, true},
		{"cancelled after end date", Subscription{Status: SubscriptionStatusCancelled, EndDate: &past}, false},
		{"cancelled without end date", Subscription{Status: SubscriptionStatusCancelled}, false},
		{"expired", Subscription{Status: SubscriptionStatusExpired}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.sub.AccessRetained(now))
		})
	}
}

func TestTrialOverdueOnlyAppliesToTrials(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	active := Subscription{Status: SubscriptionStatusActive, TrialEndsAt: &past}
	assert.False(t, active.TrialOverdue(now))

	trial := Subscription{Status: SubscriptionStatusTrial, TrialEndsAt: &past}
	assert.True(t, trial.TrialOverdue(now))
}

func TestPeriodKey(t *testing.T) {
	assert.Equal(t, "2026-03", PeriodKey(time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)))
	assert.Equal(t, "2026-04", PeriodKey(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "0999-12", PeriodKey(time.Date(999, 12, 15, 0, 0, 0, 0, time.UTC)))
}

func TestCounterRemaining(t *testing.T) {
	assert.Equal(t, 7, (&UsageCounter{Used: 3, Limit: 10}).Remaining())
	assert.Equal(t, 0, (&UsageCounter{Used: 12, Limit: 10}).Remaining())
	assert.Equal(t, LimitUnlimited, (&UsageCounter{Used: 500, Limit: LimitUnlimited}).Remaining())
}
