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

type SlotRepository interface {
	CreateBatch(ctx context.Context, slots []*entity.Slot) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	FindEnabledByOfferingID(ctx context.Context, offeringID uuid.UUID) ([]*entity.Slot, error)
	FindUpcomingByOfferingID(ctx context.Context, offeringID uuid.UUID, limit, offset int) ([]*entity.Slot, error)
	CountUpcomingByOfferingID(ctx context.Context, offeringID uuid.UUID) (int64, error)
	Update(ctx context.Context, slot *entity.Slot) error
	Disable(ctx context.Context, id uuid.UUID) error

	// Capacity ledger. Check-then-mutate runs inside a single conditional UPDATE so
	// concurrent reservations against the same slot cannot lose updates.
	ReserveCapacity(ctx context.Context, slotID uuid.UUID, quantity int) (bool, error)
	ReleaseCapacity(ctx context.Context, slotID uuid.UUID, quantity int) (overflowed bool, err error)
}

type slotRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSlotRepository(db database.PgxIface, log *zap.Logger) SlotRepository {
	return &slotRepository{
		db:  db,
		log: log.With(zap.String("repository", "slot")),
	}
}

const slotColumns = `id, offering_id, resource_id, start_at, end_at, price, capacity_available, max_capacity, enabled, created_at, updated_at`

func scanSlot(row pgx.Row) (*entity.Slot, error) {
	var slot entity.Slot
	err := row.Scan(
		&slot.ID,
		&slot.OfferingID,
		&slot.ResourceID,
		&slot.StartAt,
		&slot.EndAt,
		&slot.Price,
		&slot.CapacityAvailable,
		&slot.MaxCapacity,
		&slot.Enabled,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) CreateBatch(ctx context.Context, slots []*entity.Slot) error {
	// All-or-nothing: a failed insert must not leave a partial batch behind
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin slot batch: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO slots (id, offering_id, resource_id, start_at, end_at, price, capacity_available, max_capacity, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, slot := range slots {
		_, err := tx.Exec(ctx, query,
			slot.ID,
			slot.OfferingID,
			slot.ResourceID,
			slot.StartAt,
			slot.EndAt,
			slot.Price,
			slot.CapacityAvailable,
			slot.MaxCapacity,
			slot.Enabled,
			slot.CreatedAt,
			slot.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to insert slot in batch",
				zap.Error(err),
				zap.String("slot_id", slot.ID.String()),
			)
			return fmt.Errorf("insert slot %s: %w", slot.ID.String(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit slot batch: %w", err)
	}

	return nil
}

func (r *slotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find slot by ID",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return nil, fmt.Errorf("find slot by ID %s: %w", id.String(), err)
	}

	return slot, nil
}

func (r *slotRepository) FindEnabledByOfferingID(ctx context.Context, offeringID uuid.UUID) ([]*entity.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE offering_id = $1 AND enabled = true
		ORDER BY start_at
	`

	rows, err := r.db.Query(ctx, query, offeringID)
	if err != nil {
		r.log.Error("Failed to find enabled slots by offering ID",
			zap.Error(err),
			zap.String("offering_id", offeringID.String()),
		)
		return nil, fmt.Errorf("find enabled slots by offering ID %s: %w", offeringID.String(), err)
	}
	defer rows.Close()

	return collectSlots(rows)
}

func (r *slotRepository) FindUpcomingByOfferingID(ctx context.Context, offeringID uuid.UUID, limit, offset int) ([]*entity.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE offering_id = $1 AND enabled = true AND end_at >= NOW()
		ORDER BY start_at
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, offeringID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find upcoming slots",
			zap.Error(err),
			zap.String("offering_id", offeringID.String()),
		)
		return nil, fmt.Errorf("find upcoming slots by offering ID %s: %w", offeringID.String(), err)
	}
	defer rows.Close()

	return collectSlots(rows)
}

func (r *slotRepository) CountUpcomingByOfferingID(ctx context.Context, offeringID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM slots WHERE offering_id = $1 AND enabled = true AND end_at >= NOW()`

	var count int64
	if err := r.db.QueryRow(ctx, query, offeringID).Scan(&count); err != nil {
		r.log.Error("Failed to count upcoming slots", zap.Error(err))
		return 0, fmt.Errorf("count upcoming slots by offering ID %s: %w", offeringID.String(), err)
	}

	return count, nil
}

func (r *slotRepository) Update(ctx context.Context, slot *entity.Slot) error {
	query := `
		UPDATE slots
		SET start_at = $2, end_at = $3, price = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		slot.ID,
		slot.StartAt,
		slot.EndAt,
		slot.Price,
		slot.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update slot",
			zap.Error(err),
			zap.String("slot_id", slot.ID.String()),
		)
		return fmt.Errorf("update slot %s: %w", slot.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot %s not found", slot.ID.String())
	}

	return nil
}

func (r *slotRepository) Disable(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE slots SET enabled = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to disable slot",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return fmt.Errorf("disable slot %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot %s not found", id.String())
	}

	return nil
}

// ReserveCapacity decrements capacity_available only when enough units remain.
// Returns false when the slot has less capacity than requested.
func (r *slotRepository) ReserveCapacity(ctx context.Context, slotID uuid.UUID, quantity int) (bool, error) {
	query := `
		UPDATE slots
		SET capacity_available = capacity_available - $2, updated_at = NOW()
		WHERE id = $1 AND capacity_available >= $2
	`

	result, err := r.db.Exec(ctx, query, slotID, quantity)
	if err != nil {
		r.log.Error("Failed to reserve slot capacity",
			zap.Error(err),
			zap.String("slot_id", slotID.String()),
			zap.Int("quantity", quantity),
		)
		return false, fmt.Errorf("reserve capacity on slot %s: %w", slotID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

// ReleaseCapacity increments capacity_available, capped at max_capacity. The
// overflowed flag reports when the cap fired; the caller logs that as an anomaly
// because a correct reserve/release pairing can never exceed max_capacity.
func (r *slotRepository) ReleaseCapacity(ctx context.Context, slotID uuid.UUID, quantity int) (bool, error) {
	query := `
		WITH prev AS (
			SELECT capacity_available, max_capacity FROM slots WHERE id = $1 FOR UPDATE
		)
		UPDATE slots s
		SET capacity_available = LEAST(prev.capacity_available + $2, prev.max_capacity), updated_at = NOW()
		FROM prev
		WHERE s.id = $1
		RETURNING prev.capacity_available + $2 > prev.max_capacity
	`

	var overflowed bool
	err := r.db.QueryRow(ctx, query, slotID, quantity).Scan(&overflowed)
	if err == pgx.ErrNoRows {
		return false, fmt.Errorf("slot %s not found", slotID.String())
	}
	if err != nil {
		r.log.Error("Failed to release slot capacity",
			zap.Error(err),
			zap.String("slot_id", slotID.String()),
			zap.Int("quantity", quantity),
		)
		return false, fmt.Errorf("release capacity on slot %s: %w", slotID.String(), err)
	}

	return overflowed, nil
}

func collectSlots(rows pgx.Rows) ([]*entity.Slot, error) {
	var slots []*entity.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
