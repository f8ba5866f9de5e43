package adaptor

import (
	"errors"
	"net/http"

	"appointment-booking/internal/usecase"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	Offering     *OfferingHandler
	Resource     *ResourceHandler
	Slot         *SlotHandler
	Booking      *BookingHandler
	Subscription *SubscriptionHandler
	Webhook      *WebhookHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		Offering:     NewOfferingHandler(service.Offering, log),
		Resource:     NewResourceHandler(service.Resource, log),
		Slot:         NewSlotHandler(service.Slot, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Subscription: NewSubscriptionHandler(service.Subscription, log),
		Webhook:      NewWebhookHandler(service.Payment, log),
	}
}

// handleServiceError maps service errors to HTTP responses. Business rule
// rejections carry a code and structured details; anything else is a 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var bizErr *usecase.BusinessRuleError
	if errors.As(err, &bizErr) {
		log.Warn(operation+" rejected",
			zap.String("code", bizErr.Code),
			zap.String("message", bizErr.Message),
		)

		switch bizErr.Code {
		case usecase.CodeNotFound:
			utils.ResponseNotFound(w, bizErr.Message)
		case usecase.CodeValidation:
			utils.ResponseBadRequest(w, bizErr.Message, bizErr.Details)
		case usecase.CodeExternalService:
			utils.ResponseBadGateway(w, bizErr.Message)
		default:
			utils.ResponseConflict(w, bizErr.Message, map[string]interface{}{
				"code":    bizErr.Code,
				"details": bizErr.Details,
			})
		}
		return
	}

	log.Error("Failed to "+operation, zap.Error(err))
	utils.ResponseInternalError(w, "Internal server error")
}
