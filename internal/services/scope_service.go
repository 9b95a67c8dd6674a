package services

import (
	"github.com/CammoPaint/QuoteGen-sub000/internal/common"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"

	"github.com/google/uuid"
)

// ScopeResolver computes the visibility predicate for a record collection on
// behalf of a principal. It is a pure function of its arguments: it never
// consults record data and holds no state, so the result must be recomputed
// per request, never cached across role or tenant changes.
type ScopeResolver interface {
	Resolve(principal models.Principal, kind models.RecordKind, filterUserID *uuid.UUID) (models.Scope, error)
}

type scopeResolver struct{}

func NewScopeResolver() ScopeResolver {
	return &scopeResolver{}
}

// Resolve applies the fixed policy table.
//
//	role          customers   leads       quotes         deals          tasks
//	admin         all tenant  all tenant  all or filter  all or filter  all tenant
//	sales_manager all tenant  all tenant  all or filter  all or filter  all tenant
//	standard      all tenant  self        self           self           self
//
// Customers are shared across the tenant for every role. The explicit filter
// narrows "all tenant" to a single member's records for the kinds that
// support it; a standard principal can never widen their own scope, so any
// supplied filter is overridden to self. An unknown role fails closed.
func (s *scopeResolver) Resolve(principal models.Principal, kind models.RecordKind, filterUserID *uuid.UUID) (models.Scope, error) {
	if !kind.Valid() {
		return models.Scope{}, common.NewErrorf(common.KindInvalidInput, "unknown record kind %q", kind)
	}

	scope := models.Scope{TenantID: principal.TenantID}

	switch principal.Role {
	case models.RoleAdmin, models.RoleSalesManager:
		if filterUserID != nil && kind.SupportsOwnerFilter() {
			owner := *filterUserID
			scope.OwnerID = &owner
		}
		return scope, nil

	case models.RoleStandard:
		if kind == models.RecordKindCustomers {
			return scope, nil
		}
		self := principal.ID
		scope.OwnerID = &self
		return scope, nil
	}

	return models.Scope{}, common.NewErrorf(common.KindPermissionDenied, "role %q has no visibility policy", principal.Role)
}
