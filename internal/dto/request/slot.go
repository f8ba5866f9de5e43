package request

import "time"

type SlotWindow struct {
	StartAt time.Time `json:"start_at" validate:"required"`
	EndAt   time.Time `json:"end_at" validate:"required"`
}

type CreateSlotsRequest struct {
	OfferingID string       `json:"offering_id" validate:"required,uuid4"`
	ResourceID string       `json:"resource_id" validate:"required,uuid4"`
	Price      *float64     `json:"price,omitempty" validate:"omitempty,gte=0"`
	Windows    []SlotWindow `json:"windows" validate:"required,min=1,dive"`
}

type UpdateSlotRequest struct {
	StartAt time.Time `json:"start_at" validate:"required"`
	EndAt   time.Time `json:"end_at" validate:"required"`
	Price   *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
}
