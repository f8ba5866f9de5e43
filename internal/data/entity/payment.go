package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records one attempted external charge. Exactly one of BookingID or
// SubscriptionID is set and decides which target the reconciliation settles.
type Payment struct {
	Base
	ExternalID     string        `db:"external_id"`
	Amount         float64       `db:"amount"`
	PaymentMethod  *string       `db:"payment_method"`
	Status         PaymentStatus `db:"status"`
	PaymentDate    *time.Time    `db:"payment_date"`
	BookingID      *uuid.UUID    `db:"booking_id"`
	SubscriptionID *uuid.UUID    `db:"subscription_id"`
}

func (p *Payment) IsBookingPayment() bool {
	return p.BookingID != nil
}

func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusCompleted || p.Status == PaymentStatusFailed
}
