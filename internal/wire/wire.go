package wire

import (
	"net/http"

	"appointment-booking/internal/adaptor"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/gateway"
	"appointment-booking/internal/notification"
	"appointment-booking/internal/usecase"
	"appointment-booking/pkg/cache"
	"appointment-booking/pkg/middleware"
	"appointment-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	store cache.Store,
	checkout gateway.CheckoutClient,
	dispatcher notification.Dispatcher,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, store, checkout, dispatcher, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, repo *repository.Repository, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireAuth(r, handler.Auth, repo, logger)
	wireOffering(r, handler.Offering, repo, logger)
	wireResource(r, handler.Resource, repo, logger)
	wireSlot(r, handler.Slot, repo, logger)
	wireBooking(r, handler.Booking, repo, logger)
	wireSubscription(r, handler.Subscription, repo, logger)
	wireWebhook(r, handler.Webhook)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
