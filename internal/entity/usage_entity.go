// FILE: internal/entity/usage_entity.go
package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UsageCounter tracks consumption of one metered feature for one user within
// one calendar-month period. At most one counter exists per
// (userId, feature, period); used only ever grows within a period.
type UsageCounter struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Feature   Feature
	Period    string // YYYY-MM
	Used      int
	Limit     int // snapshot of the plan limit at creation/reseed time, -1 = unlimited
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining returns how many units are left, or LimitUnlimited.
func (c *UsageCounter) Remaining() int {
	if c.Limit == LimitUnlimited {
		return LimitUnlimited
	}
	if c.Used >= c.Limit {
		return 0
	}
	return c.Limit - c.Used
}

// PeriodKey buckets an instant into its calendar-month period. A new month
// simply produces a new key; there is no explicit rollover job.
func PeriodKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}
