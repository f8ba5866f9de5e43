package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/gateway"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	// HandleWebhook reconciles a provider notification. The notification body
	// is untrusted: only the payment ID is used, the status is re-fetched.
	HandleWebhook(ctx context.Context, req *request.PaymentWebhookRequest) error
}

type paymentService struct {
	repo         *repository.Repository
	checkout     gateway.CheckoutClient
	booking      BookingService
	subscription SubscriptionService
	log          *zap.Logger
}

func NewPaymentService(
	repo *repository.Repository,
	checkout gateway.CheckoutClient,
	booking BookingService,
	subscription SubscriptionService,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:         repo,
		checkout:     checkout,
		booking:      booking,
		subscription: subscription,
		log:          log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) HandleWebhook(ctx context.Context, req *request.PaymentWebhookRequest) error {
	if req.Type != "payment" || req.Data.ID == "" {
		s.log.Debug("Ignoring non-payment webhook", zap.String("type", req.Type))
		return nil
	}

	info, err := s.checkout.GetPayment(ctx, req.Data.ID)
	if err != nil {
		return newBusinessError(CodeExternalService, "could not fetch payment from provider", nil)
	}
	if info.ExternalReference == "" {
		s.log.Warn("Payment without external reference", zap.String("payment_id", info.ID))
		return nil
	}

	status := entity.PaymentStatusFailed
	if info.Status == "approved" {
		status = entity.PaymentStatusCompleted
	}

	payment, err := s.repo.Payment.FindByExternalID(ctx, info.ExternalReference)
	if err != nil {
		return fmt.Errorf("find payment: %w", err)
	}
	if payment == nil {
		return newBusinessError(CodePaymentNotFound, "no payment matches this notification", map[string]interface{}{
			"external_reference": info.ExternalReference,
		})
	}

	paymentDate := time.Now()
	if info.DateApproved != nil {
		paymentDate = *info.DateApproved
	}

	applied, err := s.repo.Payment.TerminalizeIfPending(ctx, info.ExternalReference, status, info.PaymentMethod, paymentDate)
	if err != nil {
		return fmt.Errorf("settle payment: %w", err)
	}
	if !applied {
		// Replayed notification, the payment is already settled
		s.log.Info("Skipping settled payment",
			zap.String("external_reference", info.ExternalReference),
		)
		return nil
	}

	s.log.Info("Payment settled",
		zap.String("external_reference", info.ExternalReference),
		zap.String("status", string(status)),
	)

	if status != entity.PaymentStatusCompleted {
		// A failed advance payment leaves the booking pending; the client can
		// retry through the same checkout link
		return nil
	}

	// The settled payment row names its target; the reference stays opaque
	if payment.BookingID != nil {
		return s.booking.ConfirmFromPayment(ctx, *payment.BookingID)
	}

	if strings.HasPrefix(info.ExternalReference, SubscriptionRefPrefix) {
		userID, err := uuid.Parse(strings.TrimPrefix(info.ExternalReference, SubscriptionRefPrefix))
		if err != nil {
			return fmt.Errorf("parse subscription reference %s: %w", info.ExternalReference, err)
		}
		return s.subscription.Renew(ctx, userID)
	}

	s.log.Warn("Completed payment targets neither booking nor subscription",
		zap.String("external_reference", info.ExternalReference),
	)
	return nil
}
