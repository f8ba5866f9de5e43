package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/dto/response"
	"appointment-booking/pkg/cache"
	"appointment-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const slotCacheTTL = time.Minute

type SlotService interface {
	CreateSlots(ctx context.Context, userID uuid.UUID, req *request.CreateSlotsRequest) ([]response.SlotResponse, error)
	UpdateSlot(ctx context.Context, userID uuid.UUID, slotID string, req *request.UpdateSlotRequest) (*response.SlotResponse, error)
	DeleteSlot(ctx context.Context, userID uuid.UUID, slotID string) error

	// Public listing, no auth
	GetUpcomingSlots(ctx context.Context, offeringID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.SlotResponse], error)
}

type slotService struct {
	repo  *repository.Repository
	store cache.Store
	log   *zap.Logger
}

func NewSlotService(repo *repository.Repository, store cache.Store, log *zap.Logger) SlotService {
	return &slotService{
		repo:  repo,
		store: store,
		log:   log.With(zap.String("service", "slot")),
	}
}

func slotCacheKey(offeringID uuid.UUID) string {
	return fmt.Sprintf("slots:upcoming:%s", offeringID.String())
}

func (s *slotService) CreateSlots(ctx context.Context, userID uuid.UUID, req *request.CreateSlotsRequest) ([]response.SlotResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create slots validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	offeringID, err := uuid.Parse(req.OfferingID)
	if err != nil {
		return nil, validationError("invalid offering ID format")
	}
	resourceID, err := uuid.Parse(req.ResourceID)
	if err != nil {
		return nil, validationError("invalid resource ID format")
	}

	offering, err := s.repo.Offering.FindByID(ctx, offeringID)
	if err != nil {
		return nil, fmt.Errorf("find offering: %w", err)
	}
	if offering == nil || offering.UserID != userID || !offering.Enabled {
		return nil, notFoundError("offering")
	}

	resource, err := s.repo.Resource.FindByID(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("find resource: %w", err)
	}
	if resource == nil || resource.UserID != userID || !resource.Enabled {
		return nil, notFoundError("resource")
	}

	now := time.Now()
	slots := make([]*entity.Slot, 0, len(req.Windows))
	for _, window := range req.Windows {
		if !window.StartAt.Before(window.EndAt) {
			return nil, newBusinessError(CodeValidation, "slot window must end after it starts", map[string]interface{}{
				"start_at": window.StartAt,
				"end_at":   window.EndAt,
			})
		}
		slots = append(slots, &entity.Slot{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			OfferingID:        offeringID,
			ResourceID:        resourceID,
			StartAt:           window.StartAt,
			EndAt:             window.EndAt,
			Price:             req.Price,
			CapacityAvailable: offering.Capacity,
			MaxCapacity:       offering.Capacity,
			Enabled:           true,
		})
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartAt.Before(slots[j].StartAt)
	})

	if a, b := firstPairConflict(slots); a != nil {
		return nil, overlapError(a, b)
	}

	existing, err := s.repo.Slot.FindEnabledByOfferingID(ctx, offeringID)
	if err != nil {
		return nil, fmt.Errorf("find existing slots: %w", err)
	}
	if a, b := firstConflictAgainst(slots, existing); a != nil {
		return nil, overlapError(a, b)
	}

	// All-or-nothing: one bad window rejects the whole batch
	if err := s.repo.Slot.CreateBatch(ctx, slots); err != nil {
		return nil, fmt.Errorf("create slots: %w", err)
	}

	s.invalidateListing(ctx, offeringID)

	s.log.Info("Slots created",
		zap.Int("count", len(slots)),
		zap.String("offering_id", offeringID.String()),
	)

	return response.SlotsToResponse(slots), nil
}

func (s *slotService) UpdateSlot(ctx context.Context, userID uuid.UUID, slotID string, req *request.UpdateSlotRequest) (*response.SlotResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update slot validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}
	if !req.StartAt.Before(req.EndAt) {
		return nil, validationError("slot window must end after it starts")
	}

	slot, err := s.findOwnedSlot(ctx, userID, slotID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNoIncomingBookings(ctx, slot.ID); err != nil {
		return nil, err
	}

	slot.StartAt = req.StartAt
	slot.EndAt = req.EndAt
	slot.Price = req.Price

	existing, err := s.repo.Slot.FindEnabledByOfferingID(ctx, slot.OfferingID)
	if err != nil {
		return nil, fmt.Errorf("find existing slots: %w", err)
	}
	others := make([]*entity.Slot, 0, len(existing))
	for _, current := range existing {
		if current.ID != slot.ID {
			others = append(others, current)
		}
	}
	if a, b := firstConflictAgainst([]*entity.Slot{slot}, others); a != nil {
		return nil, overlapError(a, b)
	}

	slot.UpdatedAt = time.Now()
	if err := s.repo.Slot.Update(ctx, slot); err != nil {
		return nil, fmt.Errorf("update slot: %w", err)
	}

	s.invalidateListing(ctx, slot.OfferingID)

	resp := response.SlotToResponse(slot)
	return &resp, nil
}

func (s *slotService) DeleteSlot(ctx context.Context, userID uuid.UUID, slotID string) error {
	slot, err := s.findOwnedSlot(ctx, userID, slotID)
	if err != nil {
		return err
	}

	if err := s.ensureNoIncomingBookings(ctx, slot.ID); err != nil {
		return err
	}

	if err := s.repo.Slot.Disable(ctx, slot.ID); err != nil {
		return fmt.Errorf("disable slot: %w", err)
	}

	s.invalidateListing(ctx, slot.OfferingID)

	s.log.Info("Slot disabled", zap.String("slot_id", slot.ID.String()))
	return nil
}

func (s *slotService) GetUpcomingSlots(ctx context.Context, offeringIDStr string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.SlotResponse], error) {
	offeringID, err := uuid.Parse(offeringIDStr)
	if err != nil {
		return nil, validationError("invalid offering ID format")
	}

	offering, err := s.repo.Offering.FindByID(ctx, offeringID)
	if err != nil {
		return nil, fmt.Errorf("find offering: %w", err)
	}
	if offering == nil || !offering.Enabled {
		return nil, notFoundError("offering")
	}

	active, err := tenantActive(ctx, s.repo, offering.UserID)
	if err != nil {
		return nil, fmt.Errorf("check subscription: %w", err)
	}
	if !active {
		return nil, notFoundError("offering")
	}

	// Only the first page is cached; it is the one the booking page hits
	cacheable := req.Offset() == 0
	key := slotCacheKey(offeringID)

	if cacheable {
		if raw, ok, err := s.store.Get(ctx, key); err == nil && ok {
			var cached response.PaginatedResponse[response.SlotResponse]
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	slots, err := s.repo.Slot.FindUpcomingByOfferingID(ctx, offeringID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list upcoming slots: %w", err)
	}
	total, err := s.repo.Slot.CountUpcomingByOfferingID(ctx, offeringID)
	if err != nil {
		return nil, fmt.Errorf("count upcoming slots: %w", err)
	}

	page := response.NewPaginatedResponse(response.SlotsToResponse(slots), req.Page, req.Limit(), total)

	if cacheable {
		if raw, err := json.Marshal(page); err == nil {
			if err := s.store.Set(ctx, key, string(raw), slotCacheTTL); err != nil {
				s.log.Warn("Failed to cache slot listing", zap.Error(err))
			}
		}
	}

	return page, nil
}

func (s *slotService) findOwnedSlot(ctx context.Context, userID uuid.UUID, slotID string) (*entity.Slot, error) {
	id, err := uuid.Parse(slotID)
	if err != nil {
		return nil, validationError("invalid slot ID format")
	}

	slot, err := s.repo.Slot.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find slot: %w", err)
	}
	if slot == nil || !slot.Enabled {
		return nil, notFoundError("slot")
	}

	offering, err := s.repo.Offering.FindByID(ctx, slot.OfferingID)
	if err != nil {
		return nil, fmt.Errorf("find offering: %w", err)
	}
	if offering == nil || offering.UserID != userID {
		return nil, notFoundError("slot")
	}

	return slot, nil
}

// ensureNoIncomingBookings guards slot edits: a window with confirmed future
// bookings cannot be moved or removed out from under the clients who booked it.
func (s *slotService) ensureNoIncomingBookings(ctx context.Context, slotID uuid.UUID) error {
	count, err := s.repo.Booking.CountIncomingConfirmedBySlotID(ctx, slotID, time.Now())
	if err != nil {
		return fmt.Errorf("count incoming bookings: %w", err)
	}
	if count > 0 {
		return newBusinessError(CodeSlotHasBookings, "slot has confirmed incoming bookings", map[string]interface{}{
			"confirmed_bookings": count,
		})
	}
	return nil
}

func (s *slotService) invalidateListing(ctx context.Context, offeringID uuid.UUID) {
	if err := s.store.Del(ctx, slotCacheKey(offeringID)); err != nil {
		s.log.Warn("Failed to invalidate slot listing cache",
			zap.Error(err),
			zap.String("offering_id", offeringID.String()),
		)
	}
}

func overlapError(a, b *entity.Slot) *BusinessRuleError {
	return newBusinessError(CodeSlotOverlap, "slot windows overlap", map[string]interface{}{
		"start_at":          a.StartAt,
		"end_at":            a.EndAt,
		"conflict_start_at": b.StartAt,
		"conflict_end_at":   b.EndAt,
	})
}
