package usecase

import (
	"context"
	"testing"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchReq(e *env, windows ...request.SlotWindow) *request.CreateSlotsRequest {
	return &request.CreateSlotsRequest{
		OfferingID: e.offering.ID.String(),
		ResourceID: e.resource.ID.String(),
		Windows:    windows,
	}
}

func TestCreateSlots_BackToBackAccepted(t *testing.T) {
	e := newEnv(t)
	service := e.slotService()

	start := e.slot.EndAt.Add(time.Hour)
	resp, err := service.CreateSlots(context.Background(), e.user.ID, batchReq(e,
		request.SlotWindow{StartAt: start, EndAt: start.Add(time.Hour)},
		request.SlotWindow{StartAt: start.Add(time.Hour), EndAt: start.Add(2 * time.Hour)},
	))

	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, e.offering.Capacity, resp[0].CapacityAvailable)
	assert.Equal(t, e.offering.Capacity, resp[0].MaxCapacity)

	// Seeded slot plus the two new ones
	assert.Len(t, e.f.slots, 3)
	assert.Contains(t, e.cache.dels, slotCacheKey(e.offering.ID))
}

func TestCreateSlots_OverlapWithinBatchRejectsAll(t *testing.T) {
	e := newEnv(t)
	service := e.slotService()

	start := e.slot.EndAt.Add(time.Hour)
	resp, err := service.CreateSlots(context.Background(), e.user.ID, batchReq(e,
		request.SlotWindow{StartAt: start, EndAt: start.Add(2 * time.Hour)},
		request.SlotWindow{StartAt: start.Add(time.Hour), EndAt: start.Add(3 * time.Hour)},
	))

	require.Nil(t, resp)
	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodeSlotOverlap, bizErr.Code)
	assert.NotNil(t, bizErr.Details["start_at"])

	// Nothing persisted
	assert.Len(t, e.f.slots, 1)
}

func TestCreateSlots_OverlapWithExistingRejected(t *testing.T) {
	e := newEnv(t)
	service := e.slotService()

	resp, err := service.CreateSlots(context.Background(), e.user.ID, batchReq(e,
		request.SlotWindow{StartAt: e.slot.StartAt.Add(15 * time.Minute), EndAt: e.slot.EndAt.Add(15 * time.Minute)},
	))

	require.Nil(t, resp)
	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodeSlotOverlap, bizErr.Code)
	assert.Len(t, e.f.slots, 1)
}

func TestCreateSlots_InvertedWindowRejected(t *testing.T) {
	e := newEnv(t)
	service := e.slotService()

	start := e.slot.EndAt.Add(time.Hour)
	_, err := service.CreateSlots(context.Background(), e.user.ID, batchReq(e,
		request.SlotWindow{StartAt: start.Add(time.Hour), EndAt: start},
	))

	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodeValidation, bizErr.Code)
}

func TestCreateSlots_OtherTenantsOfferingHidden(t *testing.T) {
	e := newEnv(t)
	service := e.slotService()

	start := e.slot.EndAt.Add(time.Hour)
	_, err := service.CreateSlots(context.Background(), uuid.New(), batchReq(e,
		request.SlotWindow{StartAt: start, EndAt: start.Add(time.Hour)},
	))

	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodeNotFound, bizErr.Code)
}

func TestDeleteSlot_GuardedByConfirmedBookings(t *testing.T) {
	e := newEnv(t)
	now := time.Now()
	e.f.bookings[uuid.New()] = &entity.Booking{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		SlotID:   e.slot.ID,
		Name:     "Carlos",
		Email:    "carlos@example.com",
		Quantity: 1,
		Status:   entity.BookingStatusConfirmed,
		Enabled:  true,
	}

	service := e.slotService()
	err := service.DeleteSlot(context.Background(), e.user.ID, e.slot.ID.String())

	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodeSlotHasBookings, bizErr.Code)
	assert.True(t, e.slot.Enabled)
}

func TestDeleteSlot_WithoutBookingsDisables(t *testing.T) {
	e := newEnv(t)
	service := e.slotService()

	require.NoError(t, service.DeleteSlot(context.Background(), e.user.ID, e.slot.ID.String()))
	assert.False(t, e.slot.Enabled)
	assert.Contains(t, e.cache.dels, slotCacheKey(e.offering.ID))
}

func TestGetUpcomingSlots_CachesFirstPage(t *testing.T) {
	e := newEnv(t)
	service := e.slotService()
	ctx := context.Background()

	req := &request.PaginatedRequest{Page: 1, PerPage: 10}

	first, err := service.GetUpcomingSlots(ctx, e.offering.ID.String(), req)
	require.NoError(t, err)
	require.Len(t, first.Data, 1)

	// A slot added behind the cache's back is not visible until invalidation
	now := time.Now()
	extra := &entity.Slot{
		Base:              entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		OfferingID:        e.offering.ID,
		ResourceID:        e.resource.ID,
		StartAt:           now.Add(48 * time.Hour),
		EndAt:             now.Add(49 * time.Hour),
		CapacityAvailable: 5,
		MaxCapacity:       5,
		Enabled:           true,
	}
	e.f.slots[extra.ID] = extra

	second, err := service.GetUpcomingSlots(ctx, e.offering.ID.String(), req)
	require.NoError(t, err)
	assert.Len(t, second.Data, 1)

	require.NoError(t, e.cache.Del(ctx, slotCacheKey(e.offering.ID)))

	third, err := service.GetUpcomingSlots(ctx, e.offering.ID.String(), req)
	require.NoError(t, err)
	assert.Len(t, third.Data, 2)
}

func TestGetUpcomingSlots_LapsedSubscriptionHidesPage(t *testing.T) {
	e := newEnv(t)
	e.f.subscriptions[e.user.ID].Expired = true

	service := e.slotService()
	_, err := service.GetUpcomingSlots(context.Background(), e.offering.ID.String(), &request.PaginatedRequest{Page: 1, PerPage: 10})

	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, CodeNotFound, bizErr.Code)
}
