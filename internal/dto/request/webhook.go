package request

// PaymentWebhookRequest is the notification body the payment provider posts.
// Only the payment ID is trusted; the status is re-fetched from the provider.
type PaymentWebhookRequest struct {
	Action string             `json:"action"`
	Type   string             `json:"type"`
	Data   PaymentWebhookData `json:"data"`
}

type PaymentWebhookData struct {
	ID string `json:"id"`
}
