// FILE: internal/model/usage_counter_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type UsageCounter struct {
	Id      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usage_user_feature_period"`
	Feature string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_usage_user_feature_period"`
	Period  string    `gorm:"type:varchar(7);not null;uniqueIndex:idx_usage_user_feature_period"` // YYYY-MM
	Used    int       `gorm:"not null;default:0"`
	// Snapshot of the plan limit when the counter was created or reseeded.
	// -1 means unlimited.
	LimitValue int       `gorm:"column:limit_value;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (UsageCounter) TableName() string {
	return "usage_counters"
}
