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

type OfferingRepository interface {
	Create(ctx context.Context, offering *entity.Offering) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Offering, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Offering, error)
	Update(ctx context.Context, offering *entity.Offering) error
	Disable(ctx context.Context, id uuid.UUID) error
}

type offeringRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOfferingRepository(db database.PgxIface, log *zap.Logger) OfferingRepository {
	return &offeringRepository{
		db:  db,
		log: log.With(zap.String("repository", "offering")),
	}
}

const offeringColumns = `id, user_id, name, description, capacity, advance_payment_percentage, enabled, created_at, updated_at`

func scanOffering(row pgx.Row) (*entity.Offering, error) {
	var offering entity.Offering
	err := row.Scan(
		&offering.ID,
		&offering.UserID,
		&offering.Name,
		&offering.Description,
		&offering.Capacity,
		&offering.AdvancePaymentPercentage,
		&offering.Enabled,
		&offering.CreatedAt,
		&offering.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &offering, nil
}

func (r *offeringRepository) Create(ctx context.Context, offering *entity.Offering) error {
	query := `
		INSERT INTO offerings (id, user_id, name, description, capacity, advance_payment_percentage, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		offering.ID,
		offering.UserID,
		offering.Name,
		offering.Description,
		offering.Capacity,
		offering.AdvancePaymentPercentage,
		offering.Enabled,
		offering.CreatedAt,
		offering.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create offering",
			zap.Error(err),
			zap.String("offering_id", offering.ID.String()),
		)
		return fmt.Errorf("create offering %s: %w", offering.ID.String(), err)
	}

	return nil
}

func (r *offeringRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Offering, error) {
	query := `SELECT ` + offeringColumns + ` FROM offerings WHERE id = $1`

	offering, err := scanOffering(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find offering by ID",
			zap.Error(err),
			zap.String("offering_id", id.String()),
		)
		return nil, fmt.Errorf("find offering by ID %s: %w", id.String(), err)
	}

	return offering, nil
}

func (r *offeringRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Offering, error) {
	query := `
		SELECT ` + offeringColumns + `
		FROM offerings
		WHERE user_id = $1 AND enabled = true
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find offerings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find offerings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var offerings []*entity.Offering
	for rows.Next() {
		offering, err := scanOffering(rows)
		if err != nil {
			r.log.Error("Failed to scan offering row", zap.Error(err))
			return nil, fmt.Errorf("scan offering row: %w", err)
		}
		offerings = append(offerings, offering)
	}

	return offerings, nil
}

func (r *offeringRepository) Update(ctx context.Context, offering *entity.Offering) error {
	query := `
		UPDATE offerings
		SET name = $2, description = $3, capacity = $4, advance_payment_percentage = $5, enabled = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		offering.ID,
		offering.Name,
		offering.Description,
		offering.Capacity,
		offering.AdvancePaymentPercentage,
		offering.Enabled,
		offering.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update offering",
			zap.Error(err),
			zap.String("offering_id", offering.ID.String()),
		)
		return fmt.Errorf("update offering %s: %w", offering.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("offering %s not found", offering.ID.String())
	}

	return nil
}

func (r *offeringRepository) Disable(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE offerings SET enabled = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to disable offering",
			zap.Error(err),
			zap.String("offering_id", id.String()),
		)
		return fmt.Errorf("disable offering %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("offering %s not found", id.String())
	}

	return nil
}
