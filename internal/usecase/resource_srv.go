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

type ResourceService interface {
	Create(ctx context.Context, userID uuid.UUID, req *request.CreateResourceRequest) (*response.ResourceResponse, error)
	List(ctx context.Context, userID uuid.UUID) ([]response.ResourceResponse, error)
	Update(ctx context.Context, userID uuid.UUID, resourceID string, req *request.UpdateResourceRequest) (*response.ResourceResponse, error)
	Delete(ctx context.Context, userID uuid.UUID, resourceID string) error
}

type resourceService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewResourceService(repo *repository.Repository, log *zap.Logger) ResourceService {
	return &resourceService{
		repo: repo,
		log:  log.With(zap.String("service", "resource")),
	}
}

func (s *resourceService) Create(ctx context.Context, userID uuid.UUID, req *request.CreateResourceRequest) (*response.ResourceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create resource validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	resource := &entity.Resource{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:  userID,
		Name:    req.Name,
		Enabled: true,
	}

	if err := s.repo.Resource.Create(ctx, resource); err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	s.log.Info("Resource created",
		zap.String("resource_id", resource.ID.String()),
		zap.String("user_id", userID.String()),
	)

	resp := response.ResourceToResponse(resource)
	return &resp, nil
}

func (s *resourceService) List(ctx context.Context, userID uuid.UUID) ([]response.ResourceResponse, error) {
	resources, err := s.repo.Resource.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return response.ResourcesToResponse(resources), nil
}

func (s *resourceService) Update(ctx context.Context, userID uuid.UUID, resourceID string, req *request.UpdateResourceRequest) (*response.ResourceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update resource validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	resource, err := s.findOwnedResource(ctx, userID, resourceID)
	if err != nil {
		return nil, err
	}

	if req.Enabled != nil && !*req.Enabled && resource.Enabled {
		if err := s.ensureNotLastEnabled(ctx, userID); err != nil {
			return nil, err
		}
	}

	resource.Name = req.Name
	if req.Enabled != nil {
		resource.Enabled = *req.Enabled
	}
	resource.UpdatedAt = time.Now()

	if err := s.repo.Resource.Update(ctx, resource); err != nil {
		return nil, fmt.Errorf("update resource: %w", err)
	}

	resp := response.ResourceToResponse(resource)
	return &resp, nil
}

func (s *resourceService) Delete(ctx context.Context, userID uuid.UUID, resourceID string) error {
	resource, err := s.findOwnedResource(ctx, userID, resourceID)
	if err != nil {
		return err
	}

	if resource.Enabled {
		if err := s.ensureNotLastEnabled(ctx, userID); err != nil {
			return err
		}
	}

	if err := s.repo.Resource.Disable(ctx, resource.ID); err != nil {
		return fmt.Errorf("disable resource: %w", err)
	}

	s.log.Info("Resource disabled", zap.String("resource_id", resource.ID.String()))
	return nil
}

// ensureNotLastEnabled rejects disabling the tenant's only enabled resource,
// which would leave no schedulable target for new slots.
func (s *resourceService) ensureNotLastEnabled(ctx context.Context, userID uuid.UUID) error {
	count, err := s.repo.Resource.CountEnabledByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("count enabled resources: %w", err)
	}
	if count <= 1 {
		return newBusinessError(CodeLastResource, "at least one enabled resource is required", nil)
	}
	return nil
}

func (s *resourceService) findOwnedResource(ctx context.Context, userID uuid.UUID, resourceID string) (*entity.Resource, error) {
	id, err := uuid.Parse(resourceID)
	if err != nil {
		return nil, validationError("invalid resource ID format")
	}

	resource, err := s.repo.Resource.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find resource: %w", err)
	}
	if resource == nil || resource.UserID != userID {
		return nil, notFoundError("resource")
	}

	return resource, nil
}
