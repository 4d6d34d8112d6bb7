package specification

import (
	"gorm.io/gorm"
)

// ByFeature filters usage counters by feature key
type ByFeature struct {
	Feature string
}

func (s ByFeature) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("feature = ?", s.Feature)
}

// ByPeriod filters usage counters by their YYYY-MM period key
type ByPeriod struct {
	Period string
}

func (s ByPeriod) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("period = ?", s.Period)
}

// PeriodBetween selects counters across a period range, for history/audit
// queries. Periods are plain YYYY-MM strings so lexical BETWEEN works.
type PeriodBetween struct {
	From string
	To   string
}

func (s PeriodBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("period BETWEEN ? AND ?", s.From, s.To)
}
