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

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByExternalID(ctx context.Context, externalID string) (*entity.Payment, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error)

	// TerminalizeIfPending applies the provider outcome exactly once: a payment
	// that already reached a terminal status is left untouched (returns false).
	TerminalizeIfPending(ctx context.Context, externalID string, status entity.PaymentStatus, method string, paymentDate time.Time) (bool, error)
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, external_id, amount, payment_method, status, payment_date, booking_id, subscription_id, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.ExternalID,
		&payment.Amount,
		&payment.PaymentMethod,
		&payment.Status,
		&payment.PaymentDate,
		&payment.BookingID,
		&payment.SubscriptionID,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, external_id, amount, payment_method, status, payment_date, booking_id, subscription_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.ExternalID,
		payment.Amount,
		payment.PaymentMethod,
		payment.Status,
		payment.PaymentDate,
		payment.BookingID,
		payment.SubscriptionID,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("external_id", payment.ExternalID),
		)
		return fmt.Errorf("create payment %s: %w", payment.ExternalID, err)
	}

	return nil
}

func (r *paymentRepository) FindByExternalID(ctx context.Context, externalID string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE external_id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, externalID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by external ID",
			zap.Error(err),
			zap.String("external_id", externalID),
		)
		return nil, fmt.Errorf("find payment by external ID %s: %w", externalID, err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, bookingID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find payment by booking ID %s: %w", bookingID.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) TerminalizeIfPending(ctx context.Context, externalID string, status entity.PaymentStatus, method string, paymentDate time.Time) (bool, error) {
	query := `
		UPDATE payments
		SET status = $2, payment_method = $3, payment_date = $4, updated_at = NOW()
		WHERE external_id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, externalID, status, method, paymentDate)
	if err != nil {
		r.log.Error("Failed to terminalize payment",
			zap.Error(err),
			zap.String("external_id", externalID),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("terminalize payment %s: %w", externalID, err)
	}

	return result.RowsAffected() > 0, nil
}
