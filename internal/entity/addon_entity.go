// FILE: internal/entity/addon_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type AddOnStatus string

const (
	AddOnStatusActive   AddOnStatus = "active"
	AddOnStatusExpired  AddOnStatus = "expired"
	AddOnStatusCanceled AddOnStatus = "canceled"
)

// AddOn is a capability purchased outside the plan. Active add-ons widen the
// capability set seen by the entitlement check; they never touch usage
// counters.
type AddOn struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Type      Feature
	Status    AddOnStatus
	StartDate time.Time
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
