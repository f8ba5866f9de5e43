package response

import (
	"time"

	"appointment-booking/internal/data/entity"
)

type SubscriptionResponse struct {
	ID           string    `json:"id"`
	Expired      bool      `json:"expired"`
	Expiration   time.Time `json:"expiration"`
	CheckoutLink string    `json:"checkout_link,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func SubscriptionToResponse(subscription *entity.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:           subscription.ID.String(),
		Expired:      subscription.Expired,
		Expiration:   subscription.Expiration,
		CheckoutLink: subscription.CheckoutLink,
		CreatedAt:    subscription.CreatedAt,
	}
}
