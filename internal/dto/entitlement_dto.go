// FILE: internal/dto/entitlement_dto.go
package dto

import "fmt"

// DecisionResponse is the serialized outcome of an entitlement check
type DecisionResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	Used    int    `json:"used,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// LimitExceededError carries usage details when a per-period budget is
// exhausted. Recoverable, expected, user-facing.
type LimitExceededError struct {
	Feature string
	Used    int
	Limit   int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("usage limit exceeded for %s: %d/%d", e.Feature, e.Used, e.Limit)
}

// InvalidAmountError rejects negative metering amounts at the boundary,
// before storage is touched. A zero amount is normalized to one instead.
type InvalidAmountError struct {
	Amount int
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid usage amount: %d", e.Amount)
}

// InvalidPlanError reports an unknown plan id in a request. Plan ids coming
// from configuration instead of requests are a fatal startup concern.
type InvalidPlanError struct {
	Plan string
}

func (e *InvalidPlanError) Error() string {
	return fmt.Sprintf("unknown plan: %s", e.Plan)
}
