package usecase

import (
	"context"
	"fmt"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/dto/response"
	"appointment-booking/internal/gateway"
	"appointment-booking/internal/notification"
	"appointment-booking/pkg/cache"
	"appointment-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Public endpoint, no auth
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)

	// Owner endpoints
	CreateOwnerBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, userID uuid.UUID, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingDetailResponse, error)
	CancelBooking(ctx context.Context, userID uuid.UUID, bookingID string) error

	// Called by payment reconciliation once an advance payment completes
	ConfirmFromPayment(ctx context.Context, bookingID uuid.UUID) error
}

type bookingService struct {
	repo       *repository.Repository
	config     *utils.Config
	store      cache.Store
	checkout   gateway.CheckoutClient
	dispatcher notification.Dispatcher
	log        *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	config *utils.Config,
	store cache.Store,
	checkout gateway.CheckoutClient,
	dispatcher notification.Dispatcher,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:       repo,
		config:     config,
		store:      store,
		checkout:   checkout,
		dispatcher: dispatcher,
		log:        log.With(zap.String("service", "booking")),
	}
}

// advancePaymentRequired decides whether a booking must be paid before it is
// confirmed: the slot carries a positive price and the offering asks for an
// advance percentage.
func advancePaymentRequired(slot *entity.Slot, offering *entity.Offering) bool {
	return slot.Price != nil && *slot.Price > 0 &&
		offering.AdvancePaymentPercentage != nil && *offering.AdvancePaymentPercentage > 0
}

func advanceAmount(slot *entity.Slot, offering *entity.Offering, quantity int) float64 {
	return *slot.Price * float64(*offering.AdvancePaymentPercentage) / 100 * float64(quantity)
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	slot, offering, err := s.resolveBookableSlot(ctx, req)
	if err != nil {
		return nil, err
	}

	active, err := tenantActive(ctx, s.repo, offering.UserID)
	if err != nil {
		return nil, fmt.Errorf("check subscription: %w", err)
	}
	if !active {
		return nil, notFoundError("offering")
	}

	if err := s.ensureBookable(ctx, req, slot); err != nil {
		return nil, err
	}

	if advancePaymentRequired(slot, offering) {
		return s.createPaymentGatedBooking(ctx, req, slot, offering)
	}
	return s.createDirectBooking(ctx, req, slot, offering)
}

// CreateOwnerBooking registers a booking the tenant entered by hand, a walk-in
// or a phone client. The payment gate does not apply: the tenant settles the
// money outside the system, so the booking confirms immediately.
func (s *bookingService) CreateOwnerBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	slot, offering, err := s.resolveBookableSlot(ctx, req)
	if err != nil {
		return nil, err
	}
	if offering.UserID != userID {
		return nil, notFoundError("slot")
	}

	if err := s.ensureBookable(ctx, req, slot); err != nil {
		return nil, err
	}

	return s.createDirectBooking(ctx, req, slot, offering)
}

func (s *bookingService) resolveBookableSlot(ctx context.Context, req *request.CreateBookingRequest) (*entity.Slot, *entity.Offering, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, nil, validationError(utils.FormatValidationErrors(errs))
	}

	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return nil, nil, validationError("invalid slot ID format")
	}

	slot, err := s.repo.Slot.FindByID(ctx, slotID)
	if err != nil {
		return nil, nil, fmt.Errorf("find slot: %w", err)
	}
	if slot == nil || !slot.Enabled {
		return nil, nil, notFoundError("slot")
	}
	if !slot.StartAt.After(time.Now()) {
		return nil, nil, validationError("slot is in the past")
	}

	offering, err := s.repo.Offering.FindByID(ctx, slot.OfferingID)
	if err != nil {
		return nil, nil, fmt.Errorf("find offering: %w", err)
	}
	if offering == nil || !offering.Enabled {
		return nil, nil, notFoundError("offering")
	}

	return slot, offering, nil
}

func (s *bookingService) ensureBookable(ctx context.Context, req *request.CreateBookingRequest, slot *entity.Slot) error {
	if req.Quantity > slot.CapacityAvailable {
		return newBusinessError(CodeNoCapacity, "not enough capacity available", map[string]interface{}{
			"requested": req.Quantity,
			"available": slot.CapacityAvailable,
		})
	}

	// The resource may serve several offerings: a window already held by a
	// confirmed booking of another offering is off the market.
	conflict, err := s.repo.Booking.ExistsConfirmedOverlapForResource(ctx, slot.ResourceID, slot.OfferingID, slot.StartAt, slot.EndAt)
	if err != nil {
		return fmt.Errorf("check resource availability: %w", err)
	}
	if conflict {
		return newBusinessError(CodeResourceConflict, "resource is not available for this window", nil)
	}

	return nil
}

func (s *bookingService) createDirectBooking(ctx context.Context, req *request.CreateBookingRequest, slot *entity.Slot, offering *entity.Offering) (*response.BookingResponse, error) {
	reserved, err := s.repo.Slot.ReserveCapacity(ctx, slot.ID, req.Quantity)
	if err != nil {
		return nil, fmt.Errorf("reserve capacity: %w", err)
	}
	if !reserved {
		return nil, newBusinessError(CodeNoCapacity, "not enough capacity available", map[string]interface{}{
			"requested": req.Quantity,
		})
	}

	booking := newBooking(req, slot.ID, entity.BookingStatusConfirmed)
	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		if _, releaseErr := s.repo.Slot.ReleaseCapacity(ctx, slot.ID, req.Quantity); releaseErr != nil {
			s.log.Error("Failed to release capacity after create failure",
				zap.Error(releaseErr),
				zap.String("slot_id", slot.ID.String()),
			)
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.invalidateListing(ctx, slot.OfferingID)
	s.dispatcher.Dispatch(ctx, notification.Event{
		Motive:    notification.MotiveBookingConfirmed,
		Recipient: booking.Email,
		Variables: bookingEventVariables(booking, slot, offering),
	})

	s.log.Info("Booking confirmed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("slot_id", slot.ID.String()),
		zap.Int("quantity", booking.Quantity),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) createPaymentGatedBooking(ctx context.Context, req *request.CreateBookingRequest, slot *entity.Slot, offering *entity.Offering) (*response.BookingResponse, error) {
	booking := newBooking(req, slot.ID, entity.BookingStatusPending)
	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	// The provider reference is an opaque fresh ID, not the booking ID, so a
	// leaked booking ID cannot be used to spoof a reconciliation.
	reference := uuid.New().String()
	amount := advanceAmount(slot, offering, req.Quantity)
	checkoutURL, err := s.checkout.CreatePreference(ctx, &gateway.PreferenceRequest{
		Title:             fmt.Sprintf("%s - advance payment", offering.Name),
		Quantity:          1,
		UnitPrice:         amount,
		ExternalReference: reference,
		NotificationURL:   s.config.App.BaseURL + "/api/v1/webhooks/payments",
	})
	if err != nil {
		s.deleteAbortedBooking(ctx, booking.ID)
		return nil, newBusinessError(CodeExternalService, "payment provider is unavailable", nil)
	}

	now := time.Now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ExternalID: reference,
		Amount:     amount,
		Status:     entity.PaymentStatusPending,
		BookingID:  &booking.ID,
	}
	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		// Without the payment row the webhook could never resolve this booking
		s.deleteAbortedBooking(ctx, booking.ID)
		return nil, fmt.Errorf("create payment record: %w", err)
	}

	s.log.Info("Booking pending payment",
		zap.String("booking_id", booking.ID.String()),
		zap.Float64("amount", amount),
	)

	resp := response.BookingToResponse(booking)
	resp.CheckoutURL = checkoutURL
	return &resp, nil
}

func (s *bookingService) ListBookings(ctx context.Context, userID uuid.UUID, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	var offeringID *uuid.UUID
	if req.OfferingID != nil {
		id, err := uuid.Parse(*req.OfferingID)
		if err != nil {
			return nil, validationError("invalid offering ID format")
		}
		offeringID = &id
	}

	bookings, err := s.repo.Booking.FindPageByOwner(ctx, userID, req.ClientName, offeringID, req.From, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	total, err := s.repo.Booking.CountByOwner(ctx, userID, req.ClientName, offeringID, req.From)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.Limit(), total), nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingDetailResponse, error) {
	booking, slot, err := s.findOwnedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	detail := &response.BookingDetailResponse{
		BookingResponse: response.BookingToResponse(booking),
		Slot:            response.SlotToResponse(slot),
	}

	payment, err := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("find booking payment: %w", err)
	}
	if payment != nil {
		paymentResp := response.PaymentToResponse(payment)
		detail.Payment = &paymentResp
	}

	return detail, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID uuid.UUID, bookingID string) error {
	booking, slot, err := s.findOwnedBooking(ctx, userID, bookingID)
	if err != nil {
		return err
	}

	if !slot.Enabled || !slot.EndAt.After(time.Now()) {
		return newBusinessError(CodeInvalidState, "slot has already ended", nil)
	}

	switch booking.Status {
	case entity.BookingStatusCancelled:
		return newBusinessError(CodeInvalidState, "booking is already cancelled", nil)

	case entity.BookingStatusConfirmed:
		applied, err := s.repo.Booking.TransitionStatus(ctx, booking.ID, entity.BookingStatusConfirmed, entity.BookingStatusCancelled)
		if err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}
		if !applied {
			return newBusinessError(CodeInvalidState, "booking state changed, retry", nil)
		}
		overflowed, err := s.repo.Slot.ReleaseCapacity(ctx, slot.ID, booking.Quantity)
		if err != nil {
			s.log.Error("Failed to release capacity on cancel",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
		}
		if overflowed {
			s.log.Warn("Capacity release clamped at max",
				zap.String("slot_id", slot.ID.String()),
				zap.String("booking_id", booking.ID.String()),
			)
		}

	case entity.BookingStatusPending:
		// Pending bookings hold no capacity
		applied, err := s.repo.Booking.TransitionStatus(ctx, booking.ID, entity.BookingStatusPending, entity.BookingStatusCancelled)
		if err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}
		if !applied {
			return newBusinessError(CodeInvalidState, "booking state changed, retry", nil)
		}
	}

	s.invalidateListing(ctx, slot.OfferingID)

	offering, err := s.repo.Offering.FindByID(ctx, slot.OfferingID)
	if err == nil && offering != nil {
		s.dispatcher.Dispatch(ctx, notification.Event{
			Motive:    notification.MotiveBookingCancelled,
			Recipient: booking.Email,
			Variables: bookingEventVariables(booking, slot, offering),
		})
	}

	s.log.Info("Booking cancelled", zap.String("booking_id", booking.ID.String()))
	return nil
}

// ConfirmFromPayment promotes a pending booking once its advance payment
// completed. Capacity is claimed here, not at creation, so an abandoned
// checkout never holds seats. If the slot filled up in the meantime the
// booking stays pending and the anomaly is logged for the tenant to resolve.
func (s *bookingService) ConfirmFromPayment(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return notFoundError("booking")
	}
	if booking.Status != entity.BookingStatusPending {
		s.log.Info("Skipping confirmation, booking not pending",
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(booking.Status)),
		)
		return nil
	}

	slot, err := s.repo.Slot.FindByID(ctx, booking.SlotID)
	if err != nil {
		return fmt.Errorf("find slot: %w", err)
	}
	if slot == nil {
		return notFoundError("slot")
	}

	reserved, err := s.repo.Slot.ReserveCapacity(ctx, slot.ID, booking.Quantity)
	if err != nil {
		return fmt.Errorf("reserve capacity: %w", err)
	}
	if !reserved {
		s.log.Warn("Paid booking could not be confirmed, no capacity left",
			zap.String("booking_id", booking.ID.String()),
			zap.String("slot_id", slot.ID.String()),
			zap.Int("quantity", booking.Quantity),
		)
		return nil
	}

	applied, err := s.repo.Booking.TransitionStatus(ctx, booking.ID, entity.BookingStatusPending, entity.BookingStatusConfirmed)
	if err != nil {
		return fmt.Errorf("confirm booking: %w", err)
	}
	if !applied {
		// Lost the race against a cancel, hand the seats back
		if _, releaseErr := s.repo.Slot.ReleaseCapacity(ctx, slot.ID, booking.Quantity); releaseErr != nil {
			s.log.Error("Failed to release capacity after lost confirm race",
				zap.Error(releaseErr),
				zap.String("booking_id", booking.ID.String()),
			)
		}
		return nil
	}

	s.invalidateListing(ctx, slot.OfferingID)

	offering, err := s.repo.Offering.FindByID(ctx, slot.OfferingID)
	if err == nil && offering != nil {
		s.dispatcher.Dispatch(ctx, notification.Event{
			Motive:    notification.MotiveBookingConfirmed,
			Recipient: booking.Email,
			Variables: bookingEventVariables(booking, slot, offering),
		})
	}

	s.log.Info("Booking confirmed from payment", zap.String("booking_id", booking.ID.String()))
	return nil
}

func (s *bookingService) findOwnedBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*entity.Booking, *entity.Slot, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, nil, validationError("invalid booking ID format")
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, nil, notFoundError("booking")
	}

	slot, err := s.repo.Slot.FindByID(ctx, booking.SlotID)
	if err != nil {
		return nil, nil, fmt.Errorf("find slot: %w", err)
	}
	if slot == nil {
		return nil, nil, notFoundError("booking")
	}

	offering, err := s.repo.Offering.FindByID(ctx, slot.OfferingID)
	if err != nil {
		return nil, nil, fmt.Errorf("find offering: %w", err)
	}
	if offering == nil || offering.UserID != userID {
		return nil, nil, notFoundError("booking")
	}

	return booking, slot, nil
}

func (s *bookingService) deleteAbortedBooking(ctx context.Context, bookingID uuid.UUID) {
	if err := s.repo.Booking.Delete(ctx, bookingID); err != nil {
		s.log.Error("Failed to delete booking after checkout failure",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
	}
}

func (s *bookingService) invalidateListing(ctx context.Context, offeringID uuid.UUID) {
	if err := s.store.Del(ctx, slotCacheKey(offeringID)); err != nil {
		s.log.Warn("Failed to invalidate slot listing cache",
			zap.Error(err),
			zap.String("offering_id", offeringID.String()),
		)
	}
}

func newBooking(req *request.CreateBookingRequest, slotID uuid.UUID, status entity.BookingStatus) *entity.Booking {
	now := time.Now()
	return &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		SlotID:      slotID,
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Quantity:    req.Quantity,
		Status:      status,
		Enabled:     true,
	}
}

func bookingEventVariables(booking *entity.Booking, slot *entity.Slot, offering *entity.Offering) map[string]string {
	return map[string]string{
		"name":     booking.Name,
		"offering": offering.Name,
		"start_at": slot.StartAt.Format(time.RFC1123),
	}
}
