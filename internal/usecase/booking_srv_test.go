package usecase

import (
	"context"
	"testing"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createReq(e *env, quantity int) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		SlotID:      e.slot.ID.String(),
		Name:        "Carlos",
		Email:       "carlos@example.com",
		PhoneNumber: "11988887777",
		Quantity:    quantity,
	}
}

func TestCreateBooking_DirectlyConfirmed(t *testing.T) {
	e := newEnv(t)
	service := e.bookingService()

	resp, err := service.CreateBooking(context.Background(), createReq(e, 2))

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)
	assert.Empty(t, resp.CheckoutURL)
	assert.Equal(t, 3, e.slot.CapacityAvailable)

	require.Len(t, e.dispatcher.events, 1)
	assert.Equal(t, notification.MotiveBookingConfirmed, e.dispatcher.events[0].Motive)
	assert.Equal(t, "carlos@example.com", e.dispatcher.events[0].Recipient)

	assert.Contains(t, e.cache.dels, slotCacheKey(e.offering.ID))
}

func TestCreateBooking_InsufficientCapacity(t *testing.T) {
	e := newEnv(t)
	service := e.bookingService()

	resp, err := service.CreateBooking(context.Background(), createReq(e, 6))

	require.Nil(t, resp)
	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodeNoCapacity, bizErr.Code)
	assert.Equal(t, 5, e.slot.CapacityAvailable)
	assert.Empty(t, e.dispatcher.events)
}

func TestCreateBooking_PaymentGated(t *testing.T) {
	e := newEnv(t)
	e.payRequired(100, 30)
	service := e.bookingService()

	resp, err := service.CreateBooking(context.Background(), createReq(e, 2))

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, entity.BookingStatusPending, resp.Status)
	assert.Equal(t, "https://pay.example.com/checkout/abc", resp.CheckoutURL)

	// Pending bookings hold no capacity
	assert.Equal(t, 5, e.slot.CapacityAvailable)

	require.Len(t, e.checkout.preferences, 1)
	assert.Equal(t, 60.0, e.checkout.preferences[0].UnitPrice) // 100 * 30% * 2

	bookingID := uuid.MustParse(resp.ID)
	payment, err := e.repo.Payment.FindByBookingID(context.Background(), bookingID)
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, entity.PaymentStatusPending, payment.Status)
	assert.Equal(t, 60.0, payment.Amount)
	assert.Empty(t, e.dispatcher.events)

	// The provider reference is a fresh opaque ID tied back via the payment row
	assert.NotEqual(t, resp.ID, payment.ExternalID)
	assert.Equal(t, payment.ExternalID, e.checkout.preferences[0].ExternalReference)
	require.NotNil(t, payment.BookingID)
	assert.Equal(t, bookingID, *payment.BookingID)
}

func TestCreateOwnerBooking_SkipsPaymentGate(t *testing.T) {
	e := newEnv(t)
	e.payRequired(100, 30)
	service := e.bookingService()

	resp, err := service.CreateOwnerBooking(context.Background(), e.user.ID, createReq(e, 2))

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)
	assert.Empty(t, resp.CheckoutURL)
	assert.Equal(t, 3, e.slot.CapacityAvailable)

	// No checkout, no payment record
	assert.Empty(t, e.checkout.preferences)
	payment, err := e.repo.Payment.FindByBookingID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Nil(t, payment)

	require.Len(t, e.dispatcher.events, 1)
	assert.Equal(t, notification.MotiveBookingConfirmed, e.dispatcher.events[0].Motive)
}

func TestCreateOwnerBooking_OtherTenantSeesNotFound(t *testing.T) {
	e := newEnv(t)
	service := e.bookingService()

	resp, err := service.CreateOwnerBooking(context.Background(), uuid.New(), createReq(e, 1))

	require.Nil(t, resp)
	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodeNotFound, bizErr.Code)
	assert.Equal(t, 5, e.slot.CapacityAvailable)
}

func TestCreateBooking_ResourceHeldByOtherOffering(t *testing.T) {
	e := newEnv(t)
	now := time.Now()

	// Another offering on the same resource with a confirmed booking in the
	// same window
	other := &entity.Offering{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:   e.user.ID,
		Name:     "Pilates class",
		Capacity: 5,
		Enabled:  true,
	}
	e.f.offerings[other.ID] = other

	otherSlot := &entity.Slot{
		Base:              entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		OfferingID:        other.ID,
		ResourceID:        e.resource.ID,
		StartAt:           e.slot.StartAt.Add(30 * time.Minute),
		EndAt:             e.slot.EndAt.Add(30 * time.Minute),
		CapacityAvailable: 4,
		MaxCapacity:       5,
		Enabled:           true,
	}
	e.f.slots[otherSlot.ID] = otherSlot

	e.f.bookings[uuid.New()] = &entity.Booking{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		SlotID:   otherSlot.ID,
		Name:     "Bia",
		Email:    "bia@example.com",
		Quantity: 1,
		Status:   entity.BookingStatusConfirmed,
		Enabled:  true,
	}

	service := e.bookingService()
	resp, err := service.CreateBooking(context.Background(), createReq(e, 1))

	require.Nil(t, resp)
	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodeResourceConflict, bizErr.Code)
}

func TestCreateBooking_LapsedSubscriptionHidesPage(t *testing.T) {
	e := newEnv(t)
	e.f.subscriptions[e.user.ID].Expired = true

	service := e.bookingService()
	resp, err := service.CreateBooking(context.Background(), createReq(e, 1))

	require.Nil(t, resp)
	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodeNotFound, bizErr.Code)
}

func TestCancelBooking_ReleasesCapacity(t *testing.T) {
	e := newEnv(t)
	service := e.bookingService()
	ctx := context.Background()

	resp, err := service.CreateBooking(ctx, createReq(e, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, e.slot.CapacityAvailable)

	require.NoError(t, service.CancelBooking(ctx, e.user.ID, resp.ID))
	assert.Equal(t, 5, e.slot.CapacityAvailable)

	booking, err := e.repo.Booking.FindByID(ctx, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, booking.Status)
}

func TestCancelBooking_TwiceRejected(t *testing.T) {
	e := newEnv(t)
	service := e.bookingService()
	ctx := context.Background()

	resp, err := service.CreateBooking(ctx, createReq(e, 1))
	require.NoError(t, err)

	require.NoError(t, service.CancelBooking(ctx, e.user.ID, resp.ID))

	err = service.CancelBooking(ctx, e.user.ID, resp.ID)
	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodeInvalidState, bizErr.Code)

	// Capacity released exactly once
	assert.Equal(t, 5, e.slot.CapacityAvailable)
}

func TestCancelBooking_EndedSlotRejected(t *testing.T) {
	e := newEnv(t)
	service := e.bookingService()
	ctx := context.Background()

	resp, err := service.CreateBooking(ctx, createReq(e, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, e.slot.CapacityAvailable)

	// The appointment already happened
	e.slot.StartAt = time.Now().Add(-2 * time.Hour)
	e.slot.EndAt = time.Now().Add(-time.Hour)

	err = service.CancelBooking(ctx, e.user.ID, resp.ID)

	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodeInvalidState, bizErr.Code)

	booking, err := e.repo.Booking.FindByID(ctx, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, 3, e.slot.CapacityAvailable)
}

func TestCancelBooking_ReleaseClampedAtMax(t *testing.T) {
	e := newEnv(t)
	service := e.bookingService()
	ctx := context.Background()

	resp, err := service.CreateBooking(ctx, createReq(e, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, e.slot.CapacityAvailable)

	// Capacity was handed back out of band, e.g. the tenant raised it manually
	e.slot.CapacityAvailable = 5

	require.NoError(t, service.CancelBooking(ctx, e.user.ID, resp.ID))

	// The release clamps at max instead of overshooting
	assert.Equal(t, e.slot.MaxCapacity, e.slot.CapacityAvailable)

	booking, err := e.repo.Booking.FindByID(ctx, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, booking.Status)
}

func TestCancelBooking_PendingHoldsNoCapacity(t *testing.T) {
	e := newEnv(t)
	e.payRequired(100, 50)
	service := e.bookingService()
	ctx := context.Background()

	resp, err := service.CreateBooking(ctx, createReq(e, 2))
	require.NoError(t, err)
	assert.Equal(t, 5, e.slot.CapacityAvailable)

	require.NoError(t, service.CancelBooking(ctx, e.user.ID, resp.ID))
	assert.Equal(t, 5, e.slot.CapacityAvailable)
}

func TestCancelBooking_OtherTenantSeesNotFound(t *testing.T) {
	e := newEnv(t)
	service := e.bookingService()
	ctx := context.Background()

	resp, err := service.CreateBooking(ctx, createReq(e, 1))
	require.NoError(t, err)

	err = service.CancelBooking(ctx, uuid.New(), resp.ID)
	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodeNotFound, bizErr.Code)
}

func TestConfirmFromPayment_Promotes(t *testing.T) {
	e := newEnv(t)
	e.payRequired(100, 50)
	service := e.bookingService()
	ctx := context.Background()

	resp, err := service.CreateBooking(ctx, createReq(e, 2))
	require.NoError(t, err)
	bookingID := uuid.MustParse(resp.ID)

	require.NoError(t, service.ConfirmFromPayment(ctx, bookingID))

	booking, err := e.repo.Booking.FindByID(ctx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, 3, e.slot.CapacityAvailable)

	require.Len(t, e.dispatcher.events, 1)
	assert.Equal(t, notification.MotiveBookingConfirmed, e.dispatcher.events[0].Motive)
}

func TestConfirmFromPayment_IdempotentOnReplay(t *testing.T) {
	e := newEnv(t)
	e.payRequired(100, 50)
	service := e.bookingService()
	ctx := context.Background()

	resp, err := service.CreateBooking(ctx, createReq(e, 2))
	require.NoError(t, err)
	bookingID := uuid.MustParse(resp.ID)

	require.NoError(t, service.ConfirmFromPayment(ctx, bookingID))
	require.NoError(t, service.ConfirmFromPayment(ctx, bookingID))

	// Capacity claimed exactly once
	assert.Equal(t, 3, e.slot.CapacityAvailable)
	assert.Len(t, e.dispatcher.events, 1)
}

func TestConfirmFromPayment_SlotFullStaysPending(t *testing.T) {
	e := newEnv(t)
	e.payRequired(100, 50)
	service := e.bookingService()
	ctx := context.Background()

	resp, err := service.CreateBooking(ctx, createReq(e, 2))
	require.NoError(t, err)
	bookingID := uuid.MustParse(resp.ID)

	// The slot fills up while the client is at the checkout
	e.slot.CapacityAvailable = 1

	require.NoError(t, service.ConfirmFromPayment(ctx, bookingID))

	booking, err := e.repo.Booking.FindByID(ctx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, booking.Status)
	assert.Equal(t, 1, e.slot.CapacityAvailable)
	assert.Empty(t, e.dispatcher.events)
}

func TestConfirmFromPayment_CancelledStaysCancelled(t *testing.T) {
	e := newEnv(t)
	e.payRequired(100, 50)
	service := e.bookingService()
	ctx := context.Background()

	resp, err := service.CreateBooking(ctx, createReq(e, 2))
	require.NoError(t, err)
	bookingID := uuid.MustParse(resp.ID)

	require.NoError(t, service.CancelBooking(ctx, e.user.ID, resp.ID))
	require.NoError(t, service.ConfirmFromPayment(ctx, bookingID))

	booking, err := e.repo.Booking.FindByID(ctx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, booking.Status)
	assert.Equal(t, 5, e.slot.CapacityAvailable)
}
