package response

import (
	"time"

	"appointment-booking/internal/data/entity"
)

type BookingResponse struct {
	ID          string               `json:"id"`
	SlotID      string               `json:"slot_id"`
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	PhoneNumber string               `json:"phone_number"`
	Quantity    int                  `json:"quantity"`
	Status      entity.BookingStatus `json:"status"`
	CheckoutURL string               `json:"checkout_url,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

type BookingDetailResponse struct {
	BookingResponse
	Slot    SlotResponse     `json:"slot"`
	Payment *PaymentResponse `json:"payment,omitempty"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:          booking.ID.String(),
		SlotID:      booking.SlotID.String(),
		Name:        booking.Name,
		Email:       booking.Email,
		PhoneNumber: booking.PhoneNumber,
		Quantity:    booking.Quantity,
		Status:      booking.Status,
		CreatedAt:   booking.CreatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	responses := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		responses = append(responses, BookingToResponse(booking))
	}
	return responses
}
