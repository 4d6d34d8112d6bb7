// FILE: internal/dto/plan_dto.go
// DTOs for the public plan catalog
package dto

// PlanResponse is one catalog entry returned by GET /api/subscriptions/plans
type PlanResponse struct {
	Id             string         `json:"id"`
	Name           string         `json:"name"`
	Price          float64        `json:"price"`
	CommissionRate float64        `json:"commission_rate"` // fraction, e.g. 0.15
	Limits         map[string]int `json:"limits"`          // -1 = unlimited
	Features       []string       `json:"features"`
}
