package models

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TenantID  uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	OwnerID   uuid.UUID  `json:"owner_id" db:"owner_id"`
	Title     string     `json:"title" db:"title"`
	Status    string     `json:"status" db:"status"`
	DueDate   *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
