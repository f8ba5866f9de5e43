package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	Base
	SlotID      uuid.UUID     `db:"slot_id"`
	Name        string        `db:"name"`
	Email       string        `db:"email"`
	PhoneNumber string        `db:"phone_number"`
	Quantity    int           `db:"quantity"`
	Status      BookingStatus `db:"status"`
	Enabled     bool          `db:"enabled"`
}
