package wire

import (
	"appointment-booking/internal/adaptor"
	"appointment-booking/internal/data/repository"
	"appointment-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, repo *repository.Repository, log *zap.Logger) {
	// Public: clients book without an account
	r.Post("/api/v1/bookings", bookingHandler.Create)

	// Tenant booking grid
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/api/v1/bookings", bookingHandler.List)
		r.Get("/api/v1/bookings/{id}", bookingHandler.Get)
		r.Put("/api/v1/bookings/{id}/cancel", bookingHandler.Cancel)
	})

	// Manual entry by the tenant, payment gate does not apply
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.ActiveSubscription(repo.Subscription, log))

		r.Post("/api/v1/bookings/manual", bookingHandler.CreateManual)
	})
}
