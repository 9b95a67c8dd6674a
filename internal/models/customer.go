package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerKind discriminates the two variants stored in the customers
// collection: established customers, which are shared across the tenant, and
// leads, which are assigned to a single member.
type CustomerKind string

const (
	CustomerKindCustomer CustomerKind = "customer"
	CustomerKindLead     CustomerKind = "lead"
)

// Customer is the shared core record. When Kind is CustomerKindLead the Lead
// payload is populated; for established customers it is nil.
type Customer struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	TenantID  uuid.UUID    `json:"tenant_id" db:"tenant_id"`
	OwnerID   uuid.UUID    `json:"owner_id" db:"owner_id"`
	Kind      CustomerKind `json:"kind" db:"kind"`
	Name      string       `json:"name" db:"name"`
	Email     string       `json:"email" db:"email"`
	Phone     string       `json:"phone" db:"phone"`
	Address   string       `json:"address" db:"address"`
	Lead      *LeadDetails `json:"lead,omitempty"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// LeadDetails is the lead-only payload of the customer record.
type LeadDetails struct {
	Source       string    `json:"source" db:"lead_source"`
	Stage        string    `json:"stage" db:"lead_stage"`
	AssignedToID uuid.UUID `json:"assigned_to_id" db:"lead_assigned_to_id"`
}
