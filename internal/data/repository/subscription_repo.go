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

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Subscription, error)
	UpdateExpiration(ctx context.Context, id uuid.UUID, expiration time.Time) error
	SetCheckoutLink(ctx context.Context, id uuid.UUID, checkoutLink string) error
	MarkExpired(ctx context.Context, id uuid.UUID) error

	// Sweep queries
	FindNewlyExpired(ctx context.Context, now time.Time) ([]*entity.Subscription, error)
	FindExpiringOn(ctx context.Context, day time.Time) ([]*entity.Subscription, error)
}

type subscriptionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSubscriptionRepository(db database.PgxIface, log *zap.Logger) SubscriptionRepository {
	return &subscriptionRepository{
		db:  db,
		log: log.With(zap.String("repository", "subscription")),
	}
}

const subscriptionColumns = `id, user_id, expired, expiration, checkout_link, created_at, updated_at`

func scanSubscription(row pgx.Row) (*entity.Subscription, error) {
	var subscription entity.Subscription
	err := row.Scan(
		&subscription.ID,
		&subscription.UserID,
		&subscription.Expired,
		&subscription.Expiration,
		&subscription.CheckoutLink,
		&subscription.CreatedAt,
		&subscription.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, user_id, expired, expiration, checkout_link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		subscription.ID,
		subscription.UserID,
		subscription.Expired,
		subscription.Expiration,
		subscription.CheckoutLink,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create subscription",
			zap.Error(err),
			zap.String("user_id", subscription.UserID.String()),
		)
		return fmt.Errorf("create subscription for user %s: %w", subscription.UserID.String(), err)
	}

	return nil
}

func (r *subscriptionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1`

	subscription, err := scanSubscription(r.db.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find subscription by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find subscription by user ID %s: %w", userID.String(), err)
	}

	return subscription, nil
}

func (r *subscriptionRepository) UpdateExpiration(ctx context.Context, id uuid.UUID, expiration time.Time) error {
	query := `UPDATE subscriptions SET expiration = $2, expired = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, expiration)
	if err != nil {
		r.log.Error("Failed to update subscription expiration",
			zap.Error(err),
			zap.String("subscription_id", id.String()),
		)
		return fmt.Errorf("update subscription %s expiration: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("subscription %s not found", id.String())
	}

	return nil
}

func (r *subscriptionRepository) SetCheckoutLink(ctx context.Context, id uuid.UUID, checkoutLink string) error {
	query := `UPDATE subscriptions SET checkout_link = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, checkoutLink)
	if err != nil {
		r.log.Error("Failed to set subscription checkout link",
			zap.Error(err),
			zap.String("subscription_id", id.String()),
		)
		return fmt.Errorf("set checkout link on subscription %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("subscription %s not found", id.String())
	}

	return nil
}

func (r *subscriptionRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE subscriptions SET expired = true, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark subscription expired",
			zap.Error(err),
			zap.String("subscription_id", id.String()),
		)
		return fmt.Errorf("mark subscription %s expired: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("subscription %s not found", id.String())
	}

	return nil
}

func (r *subscriptionRepository) FindNewlyExpired(ctx context.Context, now time.Time) ([]*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE expired = false AND expiration < $1`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to find newly expired subscriptions", zap.Error(err))
		return nil, fmt.Errorf("find newly expired subscriptions: %w", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

func (r *subscriptionRepository) FindExpiringOn(ctx context.Context, day time.Time) ([]*entity.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE expired = false AND expiration >= $1 AND expiration < $2
	`

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := r.db.Query(ctx, query, dayStart, dayEnd)
	if err != nil {
		r.log.Error("Failed to find expiring subscriptions", zap.Error(err))
		return nil, fmt.Errorf("find subscriptions expiring on %s: %w", dayStart.Format("2006-01-02"), err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

func collectSubscriptions(rows pgx.Rows) ([]*entity.Subscription, error) {
	var subscriptions []*entity.Subscription
	for rows.Next() {
		subscription, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription row: %w", err)
		}
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions, nil
}
