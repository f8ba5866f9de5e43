package adaptor

import (
	"net/http"

	"appointment-booking/internal/usecase"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	service usecase.SubscriptionService
	log     *zap.Logger
}

func NewSubscriptionHandler(service usecase.SubscriptionService, log *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		log:     log.With(zap.String("handler", "subscription")),
	}
}

// Get handles GET /api/v1/subscription (protected)
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	subscription, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get subscription")
		return
	}

	utils.ResponseSuccess(w, "success", subscription)
}

// CreateCheckout handles POST /api/v1/subscription/checkout (protected)
func (h *SubscriptionHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	subscription, err := h.service.CreateCheckout(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "create subscription checkout")
		return
	}

	utils.ResponseSuccess(w, "success", subscription)
}
