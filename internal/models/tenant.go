package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an isolated customer organization ("company"). Records never
// cross tenant boundaries.
type Tenant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
