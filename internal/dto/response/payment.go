package response

import (
	"time"

	"appointment-booking/internal/data/entity"
)

type PaymentResponse struct {
	ID            string               `json:"id"`
	ExternalID    string               `json:"external_id"`
	Amount        float64              `json:"amount"`
	PaymentMethod *string              `json:"payment_method,omitempty"`
	Status        entity.PaymentStatus `json:"status"`
	PaymentDate   *time.Time           `json:"payment_date,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            payment.ID.String(),
		ExternalID:    payment.ExternalID,
		Amount:        payment.Amount,
		PaymentMethod: payment.PaymentMethod,
		Status:        payment.Status,
		PaymentDate:   payment.PaymentDate,
		CreatedAt:     payment.CreatedAt,
	}
}
