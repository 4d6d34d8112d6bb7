// FILE: internal/model/subscription_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Subscription struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Plan         string     `gorm:"type:varchar(50);not null"`
	Status       string     `gorm:"type:varchar(50);not null"`
	BillingCycle string     `gorm:"type:varchar(20);not null;default:'monthly'"`
	StartDate    time.Time  `gorm:"not null"`
	EndDate      *time.Time `gorm:""`
	TrialEndsAt  *time.Time `gorm:""`
	CancelledAt  *time.Time `gorm:""`
	CancelReason string     `gorm:"type:text"`
	// Limits in force when the plan last changed, kept for audit.
	LimitSnapshot datatypes.JSONType[map[string]int] `gorm:"type:jsonb"`
	CreatedAt     time.Time                          `gorm:"autoCreateTime"`
	UpdatedAt     time.Time                          `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
