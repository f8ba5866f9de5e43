package wire

import (
	"appointment-booking/internal/adaptor"
	"appointment-booking/internal/data/repository"
	"appointment-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireResource(r chi.Router, resourceHandler *adaptor.ResourceHandler, repo *repository.Repository, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.ActiveSubscription(repo.Subscription, log))

		r.Post("/api/v1/resources", resourceHandler.Create)
		r.Get("/api/v1/resources", resourceHandler.List)
		r.Put("/api/v1/resources/{id}", resourceHandler.Update)
		r.Delete("/api/v1/resources/{id}", resourceHandler.Delete)
	})
}
