// FILE: internal/entity/entitlement_entity.go
package entity

// DecisionReason is the typed outcome of an entitlement check. Denials are
// expected, recoverable, user-facing outcomes, not errors.
type DecisionReason string

const (
	DecisionAllowed                   DecisionReason = "allowed"
	DecisionDeniedNoSubscription      DecisionReason = "denied_no_subscription"
	DecisionDeniedInactive            DecisionReason = "denied_subscription_inactive"
	DecisionDeniedPlanLacksCapability DecisionReason = "denied_plan_lacks_capability"
	DecisionDeniedUsageExceeded       DecisionReason = "denied_usage_exceeded"
)

// Decision carries the allow/deny outcome plus the usage numbers observed for
// metered features (zero-valued for capability-only checks).
type Decision struct {
	Reason DecisionReason
	Used   int
	Limit  int
}

func (d Decision) Allowed() bool {
	return d.Reason == DecisionAllowed
}
