package usecase

import (
	"context"
	"fmt"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/dto/response"
	"appointment-booking/internal/gateway"
	"appointment-booking/internal/notification"
	"appointment-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubscriptionRefPrefix marks a provider external reference as a subscription
// renewal rather than a booking advance payment.
const SubscriptionRefPrefix = "SUBSCRIPTION-"

type SubscriptionService interface {
	Get(ctx context.Context, userID uuid.UUID) (*response.SubscriptionResponse, error)
	CreateCheckout(ctx context.Context, userID uuid.UUID) (*response.SubscriptionResponse, error)
	IsActive(ctx context.Context, userID uuid.UUID) (bool, error)

	// Called by payment reconciliation once a renewal payment completes
	Renew(ctx context.Context, userID uuid.UUID) error

	// Periodic maintenance: flag lapsed subscriptions and send reminders
	RunExpirySweep(ctx context.Context)
	StartSweeper(ctx context.Context)
}

type subscriptionService struct {
	repo       *repository.Repository
	config     *utils.Config
	checkout   gateway.CheckoutClient
	dispatcher notification.Dispatcher
	log        *zap.Logger
}

func NewSubscriptionService(
	repo *repository.Repository,
	config *utils.Config,
	checkout gateway.CheckoutClient,
	dispatcher notification.Dispatcher,
	log *zap.Logger,
) SubscriptionService {
	return &subscriptionService{
		repo:       repo,
		config:     config,
		checkout:   checkout,
		dispatcher: dispatcher,
		log:        log.With(zap.String("service", "subscription")),
	}
}

func (s *subscriptionService) Get(ctx context.Context, userID uuid.UUID) (*response.SubscriptionResponse, error) {
	subscription, err := s.repo.Subscription.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	if subscription == nil {
		return nil, notFoundError("subscription")
	}

	resp := response.SubscriptionToResponse(subscription)
	return &resp, nil
}

func (s *subscriptionService) CreateCheckout(ctx context.Context, userID uuid.UUID) (*response.SubscriptionResponse, error) {
	subscription, err := s.repo.Subscription.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	if subscription == nil {
		return nil, notFoundError("subscription")
	}

	reference := SubscriptionRefPrefix + userID.String()
	checkoutURL, err := s.checkout.CreatePreference(ctx, &gateway.PreferenceRequest{
		Title:             "Monthly subscription",
		Quantity:          1,
		UnitPrice:         s.config.Subscription.Price,
		ExternalReference: reference,
		NotificationURL:   s.config.App.BaseURL + "/api/v1/webhooks/payments",
	})
	if err != nil {
		return nil, newBusinessError(CodeExternalService, "payment provider is unavailable", nil)
	}

	now := time.Now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ExternalID:     reference,
		Amount:         s.config.Subscription.Price,
		Status:         entity.PaymentStatusPending,
		SubscriptionID: &subscription.ID,
	}
	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment record: %w", err)
	}

	if err := s.repo.Subscription.SetCheckoutLink(ctx, subscription.ID, checkoutURL); err != nil {
		return nil, fmt.Errorf("store checkout link: %w", err)
	}
	subscription.CheckoutLink = checkoutURL

	s.log.Info("Subscription checkout created", zap.String("user_id", userID.String()))

	resp := response.SubscriptionToResponse(subscription)
	return &resp, nil
}

func (s *subscriptionService) IsActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	subscription, err := s.repo.Subscription.FindByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("find subscription: %w", err)
	}
	if subscription == nil {
		return false, nil
	}
	return !subscription.Expired && subscription.Expiration.After(time.Now()), nil
}

// Renew extends the subscription one month from whichever is later, now or the
// current expiration, so paying early never costs days.
func (s *subscriptionService) Renew(ctx context.Context, userID uuid.UUID) error {
	subscription, err := s.repo.Subscription.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find subscription: %w", err)
	}
	if subscription == nil {
		return notFoundError("subscription")
	}

	base := time.Now()
	if subscription.Expiration.After(base) {
		base = subscription.Expiration
	}
	newExpiration := base.AddDate(0, 1, 0)

	if err := s.repo.Subscription.UpdateExpiration(ctx, subscription.ID, newExpiration); err != nil {
		return fmt.Errorf("extend subscription: %w", err)
	}

	s.log.Info("Subscription renewed",
		zap.String("user_id", userID.String()),
		zap.Time("expiration", newExpiration),
	)

	if user, err := s.repo.User.FindByID(ctx, userID); err == nil && user != nil {
		s.dispatcher.Dispatch(ctx, notification.Event{
			Motive:    notification.MotiveSubscriptionPayment,
			Recipient: user.Email,
			Variables: map[string]string{
				"name":       user.Name,
				"expiration": newExpiration.Format("2006-01-02"),
			},
		})
	}

	return nil
}

func (s *subscriptionService) RunExpirySweep(ctx context.Context) {
	now := time.Now()

	lapsed, err := s.repo.Subscription.FindNewlyExpired(ctx, now)
	if err != nil {
		s.log.Error("Expiry sweep failed", zap.Error(err))
		return
	}
	for _, subscription := range lapsed {
		if err := s.repo.Subscription.MarkExpired(ctx, subscription.ID); err != nil {
			s.log.Error("Failed to mark subscription expired",
				zap.Error(err),
				zap.String("subscription_id", subscription.ID.String()),
			)
			continue
		}
		s.notifyUser(ctx, subscription, notification.MotiveSubscriptionExpired)
		s.log.Info("Subscription expired", zap.String("subscription_id", subscription.ID.String()))
	}

	for _, days := range s.config.Subscription.ReminderDays {
		expiring, err := s.repo.Subscription.FindExpiringOn(ctx, now.AddDate(0, 0, days))
		if err != nil {
			s.log.Error("Reminder sweep failed", zap.Error(err), zap.Int("days", days))
			continue
		}
		for _, subscription := range expiring {
			s.notifyUser(ctx, subscription, notification.MotiveSubscriptionExpiring)
		}
	}
}

func (s *subscriptionService) StartSweeper(ctx context.Context) {
	interval := time.Duration(s.config.Subscription.SweepIntervalMins) * time.Minute
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		s.RunExpirySweep(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunExpirySweep(ctx)
			}
		}
	}()

	s.log.Info("Subscription sweeper started", zap.Duration("interval", interval))
}

func (s *subscriptionService) notifyUser(ctx context.Context, subscription *entity.Subscription, motive notification.Motive) {
	user, err := s.repo.User.FindByID(ctx, subscription.UserID)
	if err != nil || user == nil {
		return
	}
	s.dispatcher.Dispatch(ctx, notification.Event{
		Motive:    motive,
		Recipient: user.Email,
		Variables: map[string]string{
			"name":       user.Name,
			"expiration": subscription.Expiration.Format("2006-01-02"),
		},
	})
}
