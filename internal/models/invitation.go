package models

import (
	"time"

	"github.com/google/uuid"
)

// InvitationStatus is the lifecycle state of an invitation. Transitions only
// move forward: pending -> accepted | cancelled | expired. The terminal states
// have no outgoing edges.
type InvitationStatus string

const (
	InvitationStatusPending   InvitationStatus = "pending"
	InvitationStatusAccepted  InvitationStatus = "accepted"
	InvitationStatusCancelled InvitationStatus = "cancelled"
	InvitationStatusExpired   InvitationStatus = "expired"
)

// InvitationTTL is the fixed validity window applied at creation time.
const InvitationTTL = 7 * 24 * time.Hour

type Invitation struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	TenantID      uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	Email         string           `json:"email" db:"email"`
	Role          Role             `json:"role" db:"role"`
	Status        InvitationStatus `json:"status" db:"status"`
	InvitedByID   uuid.UUID        `json:"invited_by_id" db:"invited_by_id"`
	InvitedByName string           `json:"invited_by_name" db:"invited_by_name"`
	Token         string           `json:"-" db:"token"` // Never serialize in JSON
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	ExpiresAt     time.Time        `json:"expires_at" db:"expires_at"`
}

// Terminal reports whether the invitation has reached a state with no
// outgoing transitions.
func (i *Invitation) Terminal() bool {
	return i.Status != InvitationStatusPending
}

// Expired reports whether the invitation's validity window has elapsed at
// the given instant, regardless of whether the sweep has run yet.
func (i *Invitation) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}
