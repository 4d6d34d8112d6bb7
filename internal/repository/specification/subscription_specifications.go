package specification

import (
	"gorm.io/gorm"
)

// ByStatus filters subscriptions or add-ons by status
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// TrialDeadlinePassed selects trial subscriptions whose deadline is behind
// the given instant. Used by the periodic expiry sweep.
type TrialDeadlinePassed struct {
	Now interface{}
}

func (s TrialDeadlinePassed) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at < ?", "trial", s.Now)
}
