package entity

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a concrete time window [StartAt, EndAt) for one offering on one resource.
// Invariant: 0 <= CapacityAvailable <= MaxCapacity.
type Slot struct {
	Base
	OfferingID        uuid.UUID `db:"offering_id"`
	ResourceID        uuid.UUID `db:"resource_id"`
	StartAt           time.Time `db:"start_at"`
	EndAt             time.Time `db:"end_at"`
	Price             *float64  `db:"price"`
	CapacityAvailable int       `db:"capacity_available"`
	MaxCapacity       int       `db:"max_capacity"`
	Enabled           bool      `db:"enabled"`
}
