// FILE: internal/dto/usage_dto.go
// DTOs for usage limits and status checking
package dto

// UsageLimit represents a single feature's budget status
type UsageLimit struct {
	Used  int `json:"used"`
	Limit int `json:"limit"` // -1 = unlimited
	// Percentage is omitted for unlimited features
	Percentage *float64 `json:"percentage,omitempty"`
}

// UsageStatusResponse is returned by GET /api/subscriptions/usage
type UsageStatusResponse struct {
	Plan   string                `json:"plan"`
	Period string                `json:"period"` // YYYY-MM
	Usage  map[string]UsageLimit `json:"usage"`
}

// UsageCommitMessage travels over the usage-commit queue. Published by the
// tracking middleware after a 2xx response; consumed and retried until the
// increment lands.
type UsageCommitMessage struct {
	UserId  string `json:"user_id"`
	Feature string `json:"feature"`
	Amount  int    `json:"amount"`
}
