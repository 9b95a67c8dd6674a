package models

import (
	"time"

	"github.com/google/uuid"
)

type Deal struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	OwnerID    uuid.UUID `json:"owner_id" db:"owner_id"`
	CustomerID uuid.UUID `json:"customer_id" db:"customer_id"`
	Title      string    `json:"title" db:"title"`
	Stage      string    `json:"stage" db:"stage"`
	Value      float64   `json:"value" db:"value"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
