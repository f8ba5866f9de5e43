package wire

import (
	"appointment-booking/internal/adaptor"
	"appointment-booking/internal/data/repository"
	"appointment-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOffering(r chi.Router, offeringHandler *adaptor.OfferingHandler, repo *repository.Repository, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.ActiveSubscription(repo.Subscription, log))

		r.Post("/api/v1/offerings", offeringHandler.Create)
		r.Get("/api/v1/offerings", offeringHandler.List)
		r.Put("/api/v1/offerings/{id}", offeringHandler.Update)
		r.Delete("/api/v1/offerings/{id}", offeringHandler.Delete)
	})
}
