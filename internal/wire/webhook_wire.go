package wire

import (
	"appointment-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireWebhook(r chi.Router, webhookHandler *adaptor.WebhookHandler) {
	// Provider callback, authenticated by re-fetching the payment
	r.Post("/api/v1/webhooks/payments", webhookHandler.HandlePayment)
}
