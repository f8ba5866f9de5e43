package response

import (
	"time"

	"appointment-booking/internal/data/entity"
)

type SlotResponse struct {
	ID                string    `json:"id"`
	OfferingID        string    `json:"offering_id"`
	ResourceID        string    `json:"resource_id"`
	StartAt           time.Time `json:"start_at"`
	EndAt             time.Time `json:"end_at"`
	Price             *float64  `json:"price,omitempty"`
	CapacityAvailable int       `json:"capacity_available"`
	MaxCapacity       int       `json:"max_capacity"`
}

func SlotToResponse(slot *entity.Slot) SlotResponse {
	return SlotResponse{
		ID:                slot.ID.String(),
		OfferingID:        slot.OfferingID.String(),
		ResourceID:        slot.ResourceID.String(),
		StartAt:           slot.StartAt,
		EndAt:             slot.EndAt,
		Price:             slot.Price,
		CapacityAvailable: slot.CapacityAvailable,
		MaxCapacity:       slot.MaxCapacity,
	}
}

func SlotsToResponse(slots []*entity.Slot) []SlotResponse {
	responses := make([]SlotResponse, 0, len(slots))
	for _, slot := range slots {
		responses = append(responses, SlotToResponse(slot))
	}
	return responses
}
