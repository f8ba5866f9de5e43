package response

import (
	"time"

	"appointment-booking/internal/data/entity"
)

type OfferingResponse struct {
	ID                       string    `json:"id"`
	Name                     string    `json:"name"`
	Description              string    `json:"description,omitempty"`
	Capacity                 int       `json:"capacity"`
	AdvancePaymentPercentage *int      `json:"advance_payment_percentage,omitempty"`
	Enabled                  bool      `json:"enabled"`
	CreatedAt                time.Time `json:"created_at"`
}

func OfferingToResponse(offering *entity.Offering) OfferingResponse {
	return OfferingResponse{
		ID:                       offering.ID.String(),
		Name:                     offering.Name,
		Description:              offering.Description,
		Capacity:                 offering.Capacity,
		AdvancePaymentPercentage: offering.AdvancePaymentPercentage,
		Enabled:                  offering.Enabled,
		CreatedAt:                offering.CreatedAt,
	}
}

func OfferingsToResponse(offerings []*entity.Offering) []OfferingResponse {
	responses := make([]OfferingResponse, 0, len(offerings))
	for _, offering := range offerings {
		responses = append(responses, OfferingToResponse(offering))
	}
	return responses
}
