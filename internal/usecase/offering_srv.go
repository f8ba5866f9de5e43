package usecase

import (
	"context"
	"fmt"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/dto/response"
	"appointment-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OfferingService interface {
	Create(ctx context.Context, userID uuid.UUID, req *request.CreateOfferingRequest) (*response.OfferingResponse, error)
	List(ctx context.Context, userID uuid.UUID) ([]response.OfferingResponse, error)
	Update(ctx context.Context, userID uuid.UUID, offeringID string, req *request.UpdateOfferingRequest) (*response.OfferingResponse, error)
	Delete(ctx context.Context, userID uuid.UUID, offeringID string) error
}

type offeringService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewOfferingService(repo *repository.Repository, log *zap.Logger) OfferingService {
	return &offeringService{
		repo: repo,
		log:  log.With(zap.String("service", "offering")),
	}
}

func (s *offeringService) Create(ctx context.Context, userID uuid.UUID, req *request.CreateOfferingRequest) (*response.OfferingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create offering validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	offering := &entity.Offering{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:                   userID,
		Name:                     req.Name,
		Description:              req.Description,
		Capacity:                 req.Capacity,
		AdvancePaymentPercentage: req.AdvancePaymentPercentage,
		Enabled:                  true,
	}

	if err := s.repo.Offering.Create(ctx, offering); err != nil {
		return nil, fmt.Errorf("create offering: %w", err)
	}

	s.log.Info("Offering created",
		zap.String("offering_id", offering.ID.String()),
		zap.String("user_id", userID.String()),
	)

	resp := response.OfferingToResponse(offering)
	return &resp, nil
}

func (s *offeringService) List(ctx context.Context, userID uuid.UUID) ([]response.OfferingResponse, error) {
	offerings, err := s.repo.Offering.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list offerings: %w", err)
	}
	return response.OfferingsToResponse(offerings), nil
}

func (s *offeringService) Update(ctx context.Context, userID uuid.UUID, offeringID string, req *request.UpdateOfferingRequest) (*response.OfferingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update offering validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	offering, err := s.findOwnedOffering(ctx, userID, offeringID)
	if err != nil {
		return nil, err
	}

	offering.Name = req.Name
	offering.Description = req.Description
	offering.Capacity = req.Capacity
	offering.AdvancePaymentPercentage = req.AdvancePaymentPercentage
	if req.Enabled != nil {
		offering.Enabled = *req.Enabled
	}
	offering.UpdatedAt = time.Now()

	if err := s.repo.Offering.Update(ctx, offering); err != nil {
		return nil, fmt.Errorf("update offering: %w", err)
	}

	resp := response.OfferingToResponse(offering)
	return &resp, nil
}

func (s *offeringService) Delete(ctx context.Context, userID uuid.UUID, offeringID string) error {
	offering, err := s.findOwnedOffering(ctx, userID, offeringID)
	if err != nil {
		return err
	}

	if err := s.repo.Offering.Disable(ctx, offering.ID); err != nil {
		return fmt.Errorf("disable offering: %w", err)
	}

	s.log.Info("Offering disabled", zap.String("offering_id", offering.ID.String()))
	return nil
}

func (s *offeringService) findOwnedOffering(ctx context.Context, userID uuid.UUID, offeringID string) (*entity.Offering, error) {
	id, err := uuid.Parse(offeringID)
	if err != nil {
		return nil, validationError("invalid offering ID format")
	}

	offering, err := s.repo.Offering.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find offering: %w", err)
	}
	if offering == nil || offering.UserID != userID {
		return nil, notFoundError("offering")
	}

	return offering, nil
}
