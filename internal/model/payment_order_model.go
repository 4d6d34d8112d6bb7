// FILE: internal/model/payment_order_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentOrder struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Plan         string    `gorm:"type:varchar(50);not null"`
	BillingCycle string    `gorm:"type:varchar(20);not null"`
	Amount       float64   `gorm:"type:decimal(10,2);not null"`
	Status       string    `gorm:"type:varchar(50);not null;default:'pending'"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}
