package usecase

import (
	"testing"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"
	"appointment-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// env seeds one active tenant with a resource, an offering and an open slot.
type env struct {
	f          *fixture
	repo       *repository.Repository
	cache      *fakeCache
	checkout   *fakeCheckout
	dispatcher *fakeDispatcher
	config     *utils.Config

	user     *entity.User
	resource *entity.Resource
	offering *entity.Offering
	slot     *entity.Slot
}

func newEnv(t *testing.T) *env {
	t.Helper()

	f := newFixture()
	now := time.Now()

	user := &entity.User{
		Base:    entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:    "Ana",
		Email:   "ana@example.com",
		Phone:   "11999990000",
		Enabled: true,
	}
	f.users[user.ID] = user

	f.subscriptions[user.ID] = &entity.Subscription{
		Base:       entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:     user.ID,
		Expired:    false,
		Expiration: now.AddDate(0, 1, 0),
	}

	resource := &entity.Resource{
		Base:    entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:  user.ID,
		Name:    "Room 1",
		Enabled: true,
	}
	f.resources[resource.ID] = resource

	offering := &entity.Offering{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:   user.ID,
		Name:     "Yoga class",
		Capacity: 5,
		Enabled:  true,
	}
	f.offerings[offering.ID] = offering

	slot := &entity.Slot{
		Base:              entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		OfferingID:        offering.ID,
		ResourceID:        resource.ID,
		StartAt:           now.Add(24 * time.Hour),
		EndAt:             now.Add(25 * time.Hour),
		CapacityAvailable: 5,
		MaxCapacity:       5,
		Enabled:           true,
	}
	f.slots[slot.ID] = slot

	return &env{
		f:          f,
		repo:       f.repository(),
		cache:      newFakeCache(),
		checkout:   &fakeCheckout{checkoutURL: "https://pay.example.com/checkout/abc"},
		dispatcher: &fakeDispatcher{},
		config: &utils.Config{
			App:          utils.AppConfig{BaseURL: "http://localhost:8080"},
			Subscription: utils.SubscriptionConfig{Price: 29.9, ReminderDays: []int{3, 1}, SweepIntervalMins: 60},
			Session:      utils.SessionConfig{ExpiryHours: 24},
		},
		user:     user,
		resource: resource,
		offering: offering,
		slot:     slot,
	}
}

func (e *env) bookingService() BookingService {
	return NewBookingService(e.repo, e.config, e.cache, e.checkout, e.dispatcher, zap.NewNop())
}

func (e *env) slotService() SlotService {
	return NewSlotService(e.repo, e.cache, zap.NewNop())
}

func (e *env) resourceService() ResourceService {
	return NewResourceService(e.repo, zap.NewNop())
}

func (e *env) subscriptionService() SubscriptionService {
	return NewSubscriptionService(e.repo, e.config, e.checkout, e.dispatcher, zap.NewNop())
}

func (e *env) paymentService() PaymentService {
	return NewPaymentService(e.repo, e.checkout, e.bookingService(), e.subscriptionService(), zap.NewNop())
}

// payRequired switches the seeded slot and offering into the advance payment
// flow.
func (e *env) payRequired(price float64, percentage int) {
	e.slot.Price = &price
	e.offering.AdvancePaymentPercentage = &percentage
}
