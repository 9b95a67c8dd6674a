package models

import "github.com/google/uuid"

// RecordKind identifies one of the tenant record collections the scope
// resolver knows how to scope.
type RecordKind string

const (
	RecordKindCustomers RecordKind = "customers"
	RecordKindLeads     RecordKind = "leads"
	RecordKindQuotes    RecordKind = "quotes"
	RecordKindDeals     RecordKind = "deals"
	RecordKindTasks     RecordKind = "tasks"
)

// Valid reports whether k names a known record collection.
func (k RecordKind) Valid() bool {
	switch k {
	case RecordKindCustomers, RecordKindLeads, RecordKindQuotes, RecordKindDeals, RecordKindTasks:
		return true
	}
	return false
}

// SupportsOwnerFilter reports whether admins and sales managers may narrow
// this kind down to a single member's records via an explicit filter.
func (k RecordKind) SupportsOwnerFilter() bool {
	return k == RecordKindQuotes || k == RecordKindDeals
}

// Scope is the visibility predicate a record store applies when listing a
// collection on behalf of a principal. It is derived per request and never
// persisted. A nil OwnerID means every record in the tenant is visible;
// otherwise only records owned by (or, for leads, assigned to) that member.
type Scope struct {
	TenantID uuid.UUID  `json:"tenant_id"`
	OwnerID  *uuid.UUID `json:"owner_id,omitempty"`
}

// AllTenant reports whether the scope covers the whole tenant.
func (s Scope) AllTenant() bool {
	return s.OwnerID == nil
}
