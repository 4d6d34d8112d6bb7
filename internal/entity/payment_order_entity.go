// FILE: internal/entity/payment_order_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentOrderStatus string

const (
	PaymentOrderStatusPending PaymentOrderStatus = "pending"
	PaymentOrderStatusPaid    PaymentOrderStatus = "paid"
	PaymentOrderStatusFailed  PaymentOrderStatus = "failed"
)

// PaymentOrder is a pending plan change awaiting provider confirmation. The
// order id doubles as the provider's order reference; the webhook resolves it
// back to the upgrade to apply.
type PaymentOrder struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Plan         PlanId
	BillingCycle BillingCycle
	Amount       float64
	Status       PaymentOrderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
