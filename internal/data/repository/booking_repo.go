package repository

import (
	"context"
	"fmt"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Owner-facing grid
	FindPageByOwner(ctx context.Context, ownerID uuid.UUID, clientName string, offeringID *uuid.UUID, from *time.Time, limit, offset int) ([]*entity.Booking, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID, clientName string, offeringID *uuid.UUID, from *time.Time) (int64, error)

	// Business queries
	ExistsConfirmedOverlapForResource(ctx context.Context, resourceID, excludeOfferingID uuid.UUID, startAt, endAt time.Time) (bool, error)
	CountIncomingConfirmedBySlotID(ctx context.Context, slotID uuid.UUID, after time.Time) (int, error)

	// TransitionStatus compare-and-sets the booking status so a cancel and a
	// webhook confirm racing on the same booking cannot both apply.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, slot_id, name, email, phone_number, quantity, status, enabled, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.SlotID,
		&booking.Name,
		&booking.Email,
		&booking.PhoneNumber,
		&booking.Quantity,
		&booking.Status,
		&booking.Enabled,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, slot_id, name, email, phone_number, quantity, status, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.SlotID,
		booking.Name,
		booking.Email,
		booking.PhoneNumber,
		booking.Quantity,
		booking.Status,
		booking.Enabled,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("slot_id", booking.SlotID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) FindPageByOwner(ctx context.Context, ownerID uuid.UUID, clientName string, offeringID *uuid.UUID, from *time.Time, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT b.id, b.slot_id, b.name, b.email, b.phone_number, b.quantity, b.status, b.enabled, b.created_at, b.updated_at
		FROM bookings b
		JOIN slots s ON s.id = b.slot_id
		JOIN offerings o ON o.id = s.offering_id
		WHERE o.user_id = $1
		  AND ($2 = '' OR b.name ILIKE '%' || $2 || '%')
		  AND ($3::uuid IS NULL OR o.id = $3)
		  AND ($4::timestamptz IS NULL OR s.start_at >= $4)
		ORDER BY s.start_at DESC
		LIMIT $5 OFFSET $6
	`

	rows, err := r.db.Query(ctx, query, ownerID, clientName, offeringID, from, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by owner",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return nil, fmt.Errorf("find bookings by owner %s: %w", ownerID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID, clientName string, offeringID *uuid.UUID, from *time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings b
		JOIN slots s ON s.id = b.slot_id
		JOIN offerings o ON o.id = s.offering_id
		WHERE o.user_id = $1
		  AND ($2 = '' OR b.name ILIKE '%' || $2 || '%')
		  AND ($3::uuid IS NULL OR o.id = $3)
		  AND ($4::timestamptz IS NULL OR s.start_at >= $4)
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, ownerID, clientName, offeringID, from).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by owner", zap.Error(err))
		return 0, fmt.Errorf("count bookings by owner %s: %w", ownerID.String(), err)
	}

	return count, nil
}

// ExistsConfirmedOverlapForResource reports whether the resource already has a
// confirmed booking on another offering whose slot window overlaps [startAt, endAt).
func (r *bookingRepository) ExistsConfirmedOverlapForResource(ctx context.Context, resourceID, excludeOfferingID uuid.UUID, startAt, endAt time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM bookings b
			JOIN slots s ON s.id = b.slot_id
			WHERE s.resource_id = $1
			  AND s.offering_id <> $2
			  AND b.status = 'confirmed'
			  AND s.start_at < $4
			  AND $3 < s.end_at
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, resourceID, excludeOfferingID, startAt, endAt).Scan(&exists); err != nil {
		r.log.Error("Failed to check resource overlap",
			zap.Error(err),
			zap.String("resource_id", resourceID.String()),
		)
		return false, fmt.Errorf("check resource overlap for %s: %w", resourceID.String(), err)
	}

	return exists, nil
}

func (r *bookingRepository) CountIncomingConfirmedBySlotID(ctx context.Context, slotID uuid.UUID, after time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings b
		JOIN slots s ON s.id = b.slot_id
		WHERE b.slot_id = $1 AND b.status = 'confirmed' AND s.end_at > $2
	`

	var count int
	if err := r.db.QueryRow(ctx, query, slotID, after).Scan(&count); err != nil {
		r.log.Error("Failed to count incoming confirmed bookings",
			zap.Error(err),
			zap.String("slot_id", slotID.String()),
		)
		return 0, fmt.Errorf("count incoming bookings for slot %s: %w", slotID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to transition booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("transition booking %s from %s to %s: %w", id.String(), string(from), string(to), err)
	}

	return result.RowsAffected() > 0, nil
}
