// FILE: internal/dto/payment_dto.go
package dto

// CheckoutRequest starts a paid upgrade through the payment provider
type CheckoutRequest struct {
	PlanId       string `json:"plan_id" validate:"required"`
	BillingCycle string `json:"billing_cycle" validate:"required,oneof=monthly annual"`
}

// CheckoutResponse carries the provider redirect for the client
type CheckoutResponse struct {
	OrderId     string `json:"order_id"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// PaymentWebhookRequest is the provider notification payload. The provider
// only ever reports success/failure; plan changes happen on our side.
type PaymentWebhookRequest struct {
	OrderId           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	FraudStatus       string `json:"fraud_status"`
}
