package usecase

import (
	"context"
	"testing"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/gateway"
	"appointment-booking/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookReq() *request.PaymentWebhookRequest {
	return &request.PaymentWebhookRequest{
		Type:   "payment",
		Action: "payment.updated",
		Data:   request.PaymentWebhookData{ID: "123456"},
	}
}

// pendingPaidBooking drives the public flow up to the point where the client
// finished the provider checkout. Returns the booking ID and the opaque
// reference the provider will report back.
func pendingPaidBooking(t *testing.T, e *env) (uuid.UUID, string) {
	t.Helper()
	e.payRequired(100, 50)

	resp, err := e.bookingService().CreateBooking(context.Background(), &request.CreateBookingRequest{
		SlotID:      e.slot.ID.String(),
		Name:        "Carlos",
		Email:       "carlos@example.com",
		PhoneNumber: "11988887777",
		Quantity:    2,
	})
	require.NoError(t, err)

	bookingID := uuid.MustParse(resp.ID)
	payment, err := e.repo.Payment.FindByBookingID(context.Background(), bookingID)
	require.NoError(t, err)
	require.NotNil(t, payment)
	return bookingID, payment.ExternalID
}

func TestHandleWebhook_ApprovedConfirmsBooking(t *testing.T) {
	e := newEnv(t)
	bookingID, reference := pendingPaidBooking(t, e)

	approved := time.Now()
	e.checkout.payment = &gateway.PaymentInfo{
		ID:                "123456",
		Status:            "approved",
		ExternalReference: reference,
		PaymentMethod:     "pix",
		DateApproved:      &approved,
	}

	require.NoError(t, e.paymentService().HandleWebhook(context.Background(), webhookReq()))

	booking, err := e.repo.Booking.FindByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, 3, e.slot.CapacityAvailable)

	payment, err := e.repo.Payment.FindByBookingID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCompleted, payment.Status)
	require.NotNil(t, payment.PaymentMethod)
	assert.Equal(t, "pix", *payment.PaymentMethod)
}

func TestHandleWebhook_ReplayIsNoOp(t *testing.T) {
	e := newEnv(t)
	_, reference := pendingPaidBooking(t, e)

	approved := time.Now()
	e.checkout.payment = &gateway.PaymentInfo{
		ID:                "123456",
		Status:            "approved",
		ExternalReference: reference,
		PaymentMethod:     "pix",
		DateApproved:      &approved,
	}

	service := e.paymentService()
	require.NoError(t, service.HandleWebhook(context.Background(), webhookReq()))
	require.NoError(t, service.HandleWebhook(context.Background(), webhookReq()))

	// Capacity claimed once, one confirmation notification
	assert.Equal(t, 3, e.slot.CapacityAvailable)
	confirmations := 0
	for _, event := range e.dispatcher.events {
		if event.Motive == notification.MotiveBookingConfirmed {
			confirmations++
		}
	}
	assert.Equal(t, 1, confirmations)
}

func TestHandleWebhook_RejectedLeavesBookingPending(t *testing.T) {
	e := newEnv(t)
	bookingID, reference := pendingPaidBooking(t, e)

	e.checkout.payment = &gateway.PaymentInfo{
		ID:                "123456",
		Status:            "rejected",
		ExternalReference: reference,
		PaymentMethod:     "credit_card",
	}

	require.NoError(t, e.paymentService().HandleWebhook(context.Background(), webhookReq()))

	booking, err := e.repo.Booking.FindByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, booking.Status)
	assert.Equal(t, 5, e.slot.CapacityAvailable)

	payment, err := e.repo.Payment.FindByBookingID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, payment.Status)
}

func TestHandleWebhook_BookingIDIsNoReference(t *testing.T) {
	e := newEnv(t)
	bookingID, reference := pendingPaidBooking(t, e)

	// The reference is opaque; knowing the booking ID buys nothing
	require.NotEqual(t, bookingID.String(), reference)

	e.checkout.payment = &gateway.PaymentInfo{
		ID:                "123456",
		Status:            "approved",
		ExternalReference: bookingID.String(),
	}

	err := e.paymentService().HandleWebhook(context.Background(), webhookReq())

	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodePaymentNotFound, bizErr.Code)

	booking, err := e.repo.Booking.FindByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, booking.Status)
}

func TestHandleWebhook_UnknownReferenceRejected(t *testing.T) {
	e := newEnv(t)

	e.checkout.payment = &gateway.PaymentInfo{
		ID:                "123456",
		Status:            "approved",
		ExternalReference: uuid.New().String(),
	}

	err := e.paymentService().HandleWebhook(context.Background(), webhookReq())

	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodePaymentNotFound, bizErr.Code)
}

func TestHandleWebhook_NonPaymentTypeIgnored(t *testing.T) {
	e := newEnv(t)

	err := e.paymentService().HandleWebhook(context.Background(), &request.PaymentWebhookRequest{
		Type: "merchant_order",
		Data: request.PaymentWebhookData{ID: "99"},
	})

	require.NoError(t, err)
}

func TestHandleWebhook_SubscriptionRenewal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Lapsed tenant asks for a renewal checkout
	subscription := e.f.subscriptions[e.user.ID]
	subscription.Expiration = time.Now().Add(-24 * time.Hour)
	subscription.Expired = true

	_, err := e.subscriptionService().CreateCheckout(ctx, e.user.ID)
	require.NoError(t, err)

	e.checkout.payment = &gateway.PaymentInfo{
		ID:                "123456",
		Status:            "approved",
		ExternalReference: SubscriptionRefPrefix + e.user.ID.String(),
		PaymentMethod:     "pix",
	}

	require.NoError(t, e.paymentService().HandleWebhook(ctx, webhookReq()))

	// Extended one month from now, not from the stale expiration
	assert.False(t, subscription.Expired)
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), subscription.Expiration, time.Minute)

	var motives []notification.Motive
	for _, event := range e.dispatcher.events {
		motives = append(motives, event.Motive)
	}
	assert.Contains(t, motives, notification.MotiveSubscriptionPayment)
}
