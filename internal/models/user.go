package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a provisioned tenant member account. One is created per accepted
// invitation, or for the founding admin at company signup.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TenantID     uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Name         string    `json:"name" db:"name"`
	Role         Role      `json:"role" db:"role"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Principal is the authenticated actor attached to a request after token
// verification. Immutable per request; role changes take effect on the next
// resolution, not retroactively.
type Principal struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	TenantID uuid.UUID `json:"tenant_id"`
}
