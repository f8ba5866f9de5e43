package entity

import (
	"github.com/google/uuid"
)

// Resource is the schedulable entity (staff member, room) a slot is assigned to
type Resource struct {
	Base
	UserID  uuid.UUID `db:"user_id"`
	Name    string    `db:"name"`
	Enabled bool      `db:"enabled"`
}
