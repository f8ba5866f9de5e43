package usecase

import (
	"context"
	"time"

	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/gateway"
	"appointment-booking/internal/notification"
	"appointment-booking/pkg/cache"
	"appointment-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	Offering     OfferingService
	Resource     ResourceService
	Slot         SlotService
	Booking      BookingService
	Subscription SubscriptionService
	Payment      PaymentService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	store cache.Store,
	checkout gateway.CheckoutClient,
	dispatcher notification.Dispatcher,
	log *zap.Logger,
) *Service {
	slot := NewSlotService(repo, store, log)
	booking := NewBookingService(repo, config, store, checkout, dispatcher, log)
	subscription := NewSubscriptionService(repo, config, checkout, dispatcher, log)

	return &Service{
		Auth:         NewAuthService(repo, config, log),
		Offering:     NewOfferingService(repo, log),
		Resource:     NewResourceService(repo, log),
		Slot:         slot,
		Booking:      booking,
		Subscription: subscription,
		Payment:      NewPaymentService(repo, checkout, booking, subscription, log),
	}
}

// tenantActive reports whether the tenant's subscription still admits public
// traffic. A lapsed subscription takes the booking page offline.
func tenantActive(ctx context.Context, repo *repository.Repository, userID uuid.UUID) (bool, error) {
	subscription, err := repo.Subscription.FindByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	if subscription == nil {
		return false, nil
	}
	return !subscription.Expired && subscription.Expiration.After(time.Now()), nil
}
