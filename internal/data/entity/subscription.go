package entity

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	Base
	UserID       uuid.UUID `db:"user_id"`
	Expired      bool      `db:"expired"`
	Expiration   time.Time `db:"expiration"`
	CheckoutLink string    `db:"checkout_link"`
}
