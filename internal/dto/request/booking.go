package request

import "time"

type CreateBookingRequest struct {
	SlotID      string `json:"slot_id" validate:"required,uuid4"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,min=8,max=20"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

type ListBookingsRequest struct {
	PaginatedRequest
	ClientName string     `json:"client_name,omitempty"`
	OfferingID *string    `json:"offering_id,omitempty" validate:"omitempty,uuid4"`
	From       *time.Time `json:"from,omitempty"`
}
