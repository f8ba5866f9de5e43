package wire

import (
	"appointment-booking/internal/adaptor"
	"appointment-booking/internal/data/repository"
	"appointment-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSlot(r chi.Router, slotHandler *adaptor.SlotHandler, repo *repository.Repository, log *zap.Logger) {
	// Public booking page listing
	r.Get("/api/v1/offerings/{id}/slots", slotHandler.ListUpcoming)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.ActiveSubscription(repo.Subscription, log))

		r.Post("/api/v1/slots", slotHandler.CreateBatch)
		r.Put("/api/v1/slots/{id}", slotHandler.Update)
		r.Delete("/api/v1/slots/{id}", slotHandler.Delete)
	})
}
