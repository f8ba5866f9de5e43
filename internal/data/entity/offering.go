package entity

import (
	"github.com/google/uuid"
)

// Offering is a bookable service published by a tenant. AdvancePaymentPercentage
// nil or 0 means no payment is required to confirm a booking.
type Offering struct {
	Base
	UserID                   uuid.UUID `db:"user_id"`
	Name                     string    `db:"name"`
	Description              string    `db:"description"`
	Capacity                 int       `db:"capacity"`
	AdvancePaymentPercentage *int      `db:"advance_payment_percentage"`
	Enabled                  bool      `db:"enabled"`
}
