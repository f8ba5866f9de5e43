package usecase

import (
	"context"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/gateway"
	"appointment-booking/internal/notification"

	"github.com/google/uuid"
)

// fixture is a shared in-memory backing store for the fake repositories so
// cross-repo behavior (booking -> slot capacity) can be asserted end to end.
type fixture struct {
	users         map[uuid.UUID]*entity.User
	sessions      map[string]*entity.Session
	resources     map[uuid.UUID]*entity.Resource
	offerings     map[uuid.UUID]*entity.Offering
	slots         map[uuid.UUID]*entity.Slot
	bookings      map[uuid.UUID]*entity.Booking
	payments      map[uuid.UUID]*entity.Payment
	subscriptions map[uuid.UUID]*entity.Subscription // keyed by user ID
}

func newFixture() *fixture {
	return &fixture{
		users:         make(map[uuid.UUID]*entity.User),
		sessions:      make(map[string]*entity.Session),
		resources:     make(map[uuid.UUID]*entity.Resource),
		offerings:     make(map[uuid.UUID]*entity.Offering),
		slots:         make(map[uuid.UUID]*entity.Slot),
		bookings:      make(map[uuid.UUID]*entity.Booking),
		payments:      make(map[uuid.UUID]*entity.Payment),
		subscriptions: make(map[uuid.UUID]*entity.Subscription),
	}
}

func (f *fixture) repository() *repository.Repository {
	return &repository.Repository{
		User:         &fakeUserRepo{f},
		Session:      &fakeSessionRepo{f},
		Resource:     &fakeResourceRepo{f},
		Offering:     &fakeOfferingRepo{f},
		Slot:         &fakeSlotRepo{f},
		Booking:      &fakeBookingRepo{f},
		Payment:      &fakePaymentRepo{f},
		Subscription: &fakeSubscriptionRepo{f},
	}
}

// ---- users

type fakeUserRepo struct{ f *fixture }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.f.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.f.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

// ---- sessions

type fakeSessionRepo struct{ f *fixture }

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.f.sessions[session.Token] = session
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	session, ok := r.f.sessions[token]
	if !ok || !session.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return session, nil
}

func (r *fakeSessionRepo) DeleteByToken(_ context.Context, token string) error {
	delete(r.f.sessions, token)
	return nil
}

// ---- resources

type fakeResourceRepo struct{ f *fixture }

func (r *fakeResourceRepo) Create(_ context.Context, resource *entity.Resource) error {
	r.f.resources[resource.ID] = resource
	return nil
}

func (r *fakeResourceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Resource, error) {
	return r.f.resources[id], nil
}

func (r *fakeResourceRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Resource, error) {
	var out []*entity.Resource
	for _, resource := range r.f.resources {
		if resource.UserID == userID && resource.Enabled {
			out = append(out, resource)
		}
	}
	return out, nil
}

func (r *fakeResourceRepo) CountEnabledByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, resource := range r.f.resources {
		if resource.UserID == userID && resource.Enabled {
			count++
		}
	}
	return count, nil
}

func (r *fakeResourceRepo) Update(_ context.Context, resource *entity.Resource) error {
	r.f.resources[resource.ID] = resource
	return nil
}

func (r *fakeResourceRepo) Disable(_ context.Context, id uuid.UUID) error {
	if resource, ok := r.f.resources[id]; ok {
		resource.Enabled = false
	}
	return nil
}

// ---- offerings

type fakeOfferingRepo struct{ f *fixture }

func (r *fakeOfferingRepo) Create(_ context.Context, offering *entity.Offering) error {
	r.f.offerings[offering.ID] = offering
	return nil
}

func (r *fakeOfferingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Offering, error) {
	return r.f.offerings[id], nil
}

func (r *fakeOfferingRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Offering, error) {
	var out []*entity.Offering
	for _, offering := range r.f.offerings {
		if offering.UserID == userID && offering.Enabled {
			out = append(out, offering)
		}
	}
	return out, nil
}

func (r *fakeOfferingRepo) Update(_ context.Context, offering *entity.Offering) error {
	r.f.offerings[offering.ID] = offering
	return nil
}

func (r *fakeOfferingRepo) Disable(_ context.Context, id uuid.UUID) error {
	if offering, ok := r.f.offerings[id]; ok {
		offering.Enabled = false
	}
	return nil
}

// ---- slots

type fakeSlotRepo struct{ f *fixture }

func (r *fakeSlotRepo) CreateBatch(_ context.Context, slots []*entity.Slot) error {
	for _, slot := range slots {
		r.f.slots[slot.ID] = slot
	}
	return nil
}

func (r *fakeSlotRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Slot, error) {
	return r.f.slots[id], nil
}

func (r *fakeSlotRepo) FindEnabledByOfferingID(_ context.Context, offeringID uuid.UUID) ([]*entity.Slot, error) {
	var out []*entity.Slot
	for _, slot := range r.f.slots {
		if slot.OfferingID == offeringID && slot.Enabled {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) FindUpcomingByOfferingID(_ context.Context, offeringID uuid.UUID, limit, offset int) ([]*entity.Slot, error) {
	var out []*entity.Slot
	now := time.Now()
	for _, slot := range r.f.slots {
		if slot.OfferingID == offeringID && slot.Enabled && slot.StartAt.After(now) {
			out = append(out, slot)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSlotRepo) CountUpcomingByOfferingID(_ context.Context, offeringID uuid.UUID) (int64, error) {
	var count int64
	now := time.Now()
	for _, slot := range r.f.slots {
		if slot.OfferingID == offeringID && slot.Enabled && slot.StartAt.After(now) {
			count++
		}
	}
	return count, nil
}

func (r *fakeSlotRepo) Update(_ context.Context, slot *entity.Slot) error {
	r.f.slots[slot.ID] = slot
	return nil
}

func (r *fakeSlotRepo) Disable(_ context.Context, id uuid.UUID) error {
	if slot, ok := r.f.slots[id]; ok {
		slot.Enabled = false
	}
	return nil
}

func (r *fakeSlotRepo) ReserveCapacity(_ context.Context, slotID uuid.UUID, quantity int) (bool, error) {
	slot, ok := r.f.slots[slotID]
	if !ok || slot.CapacityAvailable < quantity {
		return false, nil
	}
	slot.CapacityAvailable -= quantity
	return true, nil
}

func (r *fakeSlotRepo) ReleaseCapacity(_ context.Context, slotID uuid.UUID, quantity int) (bool, error) {
	slot, ok := r.f.slots[slotID]
	if !ok {
		return false, nil
	}
	overflowed := slot.CapacityAvailable+quantity > slot.MaxCapacity
	slot.CapacityAvailable += quantity
	if slot.CapacityAvailable > slot.MaxCapacity {
		slot.CapacityAvailable = slot.MaxCapacity
	}
	return overflowed, nil
}

// ---- bookings

type fakeBookingRepo struct{ f *fixture }

func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.f.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.f.bookings[id], nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.f.bookings, id)
	return nil
}

func (r *fakeBookingRepo) FindPageByOwner(_ context.Context, ownerID uuid.UUID, clientName string, offeringID *uuid.UUID, from *time.Time, limit, offset int) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, booking := range r.f.bookings {
		if r.ownedBy(booking, ownerID) {
			out = append(out, booking)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByOwner(_ context.Context, ownerID uuid.UUID, clientName string, offeringID *uuid.UUID, from *time.Time) (int64, error) {
	var count int64
	for _, booking := range r.f.bookings {
		if r.ownedBy(booking, ownerID) {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) ownedBy(booking *entity.Booking, ownerID uuid.UUID) bool {
	slot, ok := r.f.slots[booking.SlotID]
	if !ok {
		return false
	}
	offering, ok := r.f.offerings[slot.OfferingID]
	return ok && offering.UserID == ownerID
}

func (r *fakeBookingRepo) ExistsConfirmedOverlapForResource(_ context.Context, resourceID, excludeOfferingID uuid.UUID, startAt, endAt time.Time) (bool, error) {
	for _, booking := range r.f.bookings {
		if booking.Status != entity.BookingStatusConfirmed {
			continue
		}
		slot, ok := r.f.slots[booking.SlotID]
		if !ok || slot.ResourceID != resourceID || slot.OfferingID == excludeOfferingID {
			continue
		}
		if slot.StartAt.Before(endAt) && startAt.Before(slot.EndAt) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) CountIncomingConfirmedBySlotID(_ context.Context, slotID uuid.UUID, after time.Time) (int, error) {
	count := 0
	for _, booking := range r.f.bookings {
		if booking.SlotID != slotID || booking.Status != entity.BookingStatusConfirmed {
			continue
		}
		slot, ok := r.f.slots[slotID]
		if ok && slot.StartAt.After(after) {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) TransitionStatus(_ context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	booking, ok := r.f.bookings[id]
	if !ok || booking.Status != from {
		return false, nil
	}
	booking.Status = to
	return true, nil
}

// ---- payments

type fakePaymentRepo struct{ f *fixture }

func (r *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	r.f.payments[payment.ID] = payment
	return nil
}

func (r *fakePaymentRepo) FindByExternalID(_ context.Context, externalID string) (*entity.Payment, error) {
	for _, payment := range r.f.payments {
		if payment.ExternalID == externalID {
			return payment, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	for _, payment := range r.f.payments {
		if payment.BookingID != nil && *payment.BookingID == bookingID {
			return payment, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) TerminalizeIfPending(_ context.Context, externalID string, status entity.PaymentStatus, method string, paymentDate time.Time) (bool, error) {
	applied := false
	for _, payment := range r.f.payments {
		if payment.ExternalID == externalID && payment.Status == entity.PaymentStatusPending {
			payment.Status = status
			payment.PaymentMethod = &method
			payment.PaymentDate = &paymentDate
			applied = true
		}
	}
	return applied, nil
}

// ---- subscriptions

type fakeSubscriptionRepo struct{ f *fixture }

func (r *fakeSubscriptionRepo) Create(_ context.Context, subscription *entity.Subscription) error {
	r.f.subscriptions[subscription.UserID] = subscription
	return nil
}

func (r *fakeSubscriptionRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Subscription, error) {
	return r.f.subscriptions[userID], nil
}

func (r *fakeSubscriptionRepo) UpdateExpiration(_ context.Context, id uuid.UUID, expiration time.Time) error {
	for _, subscription := range r.f.subscriptions {
		if subscription.ID == id {
			subscription.Expiration = expiration
			subscription.Expired = false
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) SetCheckoutLink(_ context.Context, id uuid.UUID, checkoutLink string) error {
	for _, subscription := range r.f.subscriptions {
		if subscription.ID == id {
			subscription.CheckoutLink = checkoutLink
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) MarkExpired(_ context.Context, id uuid.UUID) error {
	for _, subscription := range r.f.subscriptions {
		if subscription.ID == id {
			subscription.Expired = true
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) FindNewlyExpired(_ context.Context, now time.Time) ([]*entity.Subscription, error) {
	var out []*entity.Subscription
	for _, subscription := range r.f.subscriptions {
		if !subscription.Expired && subscription.Expiration.Before(now) {
			out = append(out, subscription)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) FindExpiringOn(_ context.Context, day time.Time) ([]*entity.Subscription, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var out []*entity.Subscription
	for _, subscription := range r.f.subscriptions {
		if !subscription.Expired && !subscription.Expiration.Before(dayStart) && subscription.Expiration.Before(dayEnd) {
			out = append(out, subscription)
		}
	}
	return out, nil
}

// ---- cache

type fakeCache struct {
	values map[string]string
	dels   []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := c.values[key]
	return value, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
		c.dels = append(c.dels, key)
	}
	return nil
}

// ---- checkout gateway

type fakeCheckout struct {
	checkoutURL string
	createErr   error
	payment     *gateway.PaymentInfo
	getErr      error
	preferences []*gateway.PreferenceRequest
}

func (c *fakeCheckout) CreatePreference(_ context.Context, pref *gateway.PreferenceRequest) (string, error) {
	if c.createErr != nil {
		return "", c.createErr
	}
	c.preferences = append(c.preferences, pref)
	return c.checkoutURL, nil
}

func (c *fakeCheckout) GetPayment(_ context.Context, _ string) (*gateway.PaymentInfo, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.payment, nil
}

// ---- notifications

type fakeDispatcher struct {
	events []notification.Event
}

func (d *fakeDispatcher) Dispatch(_ context.Context, event notification.Event) {
	d.events = append(d.events, event)
}
