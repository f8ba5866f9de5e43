package repository

import (
	"appointment-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	Resource     ResourceRepository
	Offering     OfferingRepository
	Slot         SlotRepository
	Booking      BookingRepository
	Payment      PaymentRepository
	Subscription SubscriptionRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Resource:     NewResourceRepository(db, log),
		Offering:     NewOfferingRepository(db, log),
		Slot:         NewSlotRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Payment:      NewPaymentRepository(db, log),
		Subscription: NewSubscriptionRepository(db, log),
	}
}
