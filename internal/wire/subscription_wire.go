package wire

import (
	"appointment-booking/internal/adaptor"
	"appointment-booking/internal/data/repository"
	"appointment-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSubscription(r chi.Router, subscriptionHandler *adaptor.SubscriptionHandler, repo *repository.Repository, log *zap.Logger) {
	// No ActiveSubscription gate here: a lapsed tenant must still be able to
	// see their state and pay for a renewal
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/api/v1/subscription", subscriptionHandler.Get)
		r.Post("/api/v1/subscription/checkout", subscriptionHandler.CreateCheckout)
	})
}
