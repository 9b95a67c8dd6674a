package models

import (
	"time"

	"github.com/google/uuid"
)

type Quote struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	CustomerID  uuid.UUID `json:"customer_id" db:"customer_id"`
	QuoteNumber string    `json:"quote_number" db:"quote_number"`
	Title       string    `json:"title" db:"title"`
	Status      string    `json:"status" db:"status"`
	Total       float64   `json:"total" db:"total"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
