package repository

import (
	"context"
	"fmt"

	"appointment-booking/internal/data/entity"
	"appointment-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ResourceRepository interface {
	Create(ctx context.Context, resource *entity.Resource) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Resource, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Resource, error)
	CountEnabledByUserID(ctx context.Context, userID uuid.UUID) (int, error)
	Update(ctx context.Context, resource *entity.Resource) error
	Disable(ctx context.Context, id uuid.UUID) error
}

type resourceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewResourceRepository(db database.PgxIface, log *zap.Logger) ResourceRepository {
	return &resourceRepository{
		db:  db,
		log: log.With(zap.String("repository", "resource")),
	}
}

func (r *resourceRepository) Create(ctx context.Context, resource *entity.Resource) error {
	query := `
		INSERT INTO resources (id, user_id, name, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		resource.ID,
		resource.UserID,
		resource.Name,
		resource.Enabled,
		resource.CreatedAt,
		resource.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create resource",
			zap.Error(err),
			zap.String("resource_id", resource.ID.String()),
		)
		return fmt.Errorf("create resource %s: %w", resource.ID.String(), err)
	}

	return nil
}

func (r *resourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Resource, error) {
	query := `SELECT id, user_id, name, enabled, created_at, updated_at FROM resources WHERE id = $1`

	var resource entity.Resource
	err := r.db.QueryRow(ctx, query, id).Scan(
		&resource.ID,
		&resource.UserID,
		&resource.Name,
		&resource.Enabled,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find resource by ID",
			zap.Error(err),
			zap.String("resource_id", id.String()),
		)
		return nil, fmt.Errorf("find resource by ID %s: %w", id.String(), err)
	}

	return &resource, nil
}

func (r *resourceRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Resource, error) {
	query := `
		SELECT id, user_id, name, enabled, created_at, updated_at
		FROM resources
		WHERE user_id = $1 AND enabled = true
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find resources by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find resources by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var resources []*entity.Resource
	for rows.Next() {
		var resource entity.Resource
		err := rows.Scan(
			&resource.ID,
			&resource.UserID,
			&resource.Name,
			&resource.Enabled,
			&resource.CreatedAt,
			&resource.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan resource row", zap.Error(err))
			return nil, fmt.Errorf("scan resource row: %w", err)
		}
		resources = append(resources, &resource)
	}

	return resources, nil
}

func (r *resourceRepository) CountEnabledByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM resources WHERE user_id = $1 AND enabled = true`

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count enabled resources",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count enabled resources for user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *resourceRepository) Update(ctx context.Context, resource *entity.Resource) error {
	query := `UPDATE resources SET name = $2, enabled = $3, updated_at = $4 WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		resource.ID,
		resource.Name,
		resource.Enabled,
		resource.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update resource",
			zap.Error(err),
			zap.String("resource_id", resource.ID.String()),
		)
		return fmt.Errorf("update resource %s: %w", resource.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("resource %s not found", resource.ID.String())
	}

	return nil
}

func (r *resourceRepository) Disable(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE resources SET enabled = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to disable resource",
			zap.Error(err),
			zap.String("resource_id", id.String()),
		)
		return fmt.Errorf("disable resource %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("resource %s not found", id.String())
	}

	return nil
}
