package services

import (
	"testing"

	"github.com/CammoPaint/QuoteGen-sub000/internal/common"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_PolicyTable(t *testing.T) {
	resolver := NewScopeResolver()
	tenantID := uuid.New()
	selfID := uuid.New()
	otherID := uuid.New()

	allKinds := []models.RecordKind{
		models.RecordKindCustomers,
		models.RecordKindLeads,
		models.RecordKindQuotes,
		models.RecordKindDeals,
		models.RecordKindTasks,
	}

	principal := func(role models.Role) models.Principal {
		return models.Principal{ID: selfID, Email: "user@example.com", Role: role, TenantID: tenantID}
	}

	t.Run("admin and sales_manager see the whole tenant without a filter", func(t *testing.T) {
		for _, role := range []models.Role{models.RoleAdmin, models.RoleSalesManager} {
			for _, kind := range allKinds {
				scope, err := resolver.Resolve(principal(role), kind, nil)
				require.NoError(t, err)
				assert.Equal(t, tenantID, scope.TenantID)
				assert.True(t, scope.AllTenant(), "role %s kind %s", role, kind)
			}
		}
	})

	t.Run("admin filter narrows quotes and deals to one member", func(t *testing.T) {
		for _, kind := range []models.RecordKind{models.RecordKindQuotes, models.RecordKindDeals} {
			scope, err := resolver.Resolve(principal(models.RoleAdmin), kind, &otherID)
			require.NoError(t, err)
			require.NotNil(t, scope.OwnerID)
			assert.Equal(t, otherID, *scope.OwnerID)
		}
	})

	t.Run("filter is ignored for kinds that do not support it", func(t *testing.T) {
		for _, kind := range []models.RecordKind{models.RecordKindCustomers, models.RecordKindLeads, models.RecordKindTasks} {
			scope, err := resolver.Resolve(principal(models.RoleAdmin), kind, &otherID)
			require.NoError(t, err)
			assert.True(t, scope.AllTenant(), "kind %s", kind)
		}
	})

	t.Run("standard sees shared customers but only own records elsewhere", func(t *testing.T) {
		scope, err := resolver.Resolve(principal(models.RoleStandard), models.RecordKindCustomers, nil)
		require.NoError(t, err)
		assert.True(t, scope.AllTenant())

		for _, kind := range []models.RecordKind{models.RecordKindLeads, models.RecordKindQuotes, models.RecordKindDeals, models.RecordKindTasks} {
			scope, err := resolver.Resolve(principal(models.RoleStandard), kind, nil)
			require.NoError(t, err)
			require.NotNil(t, scope.OwnerID, "kind %s", kind)
			assert.Equal(t, selfID, *scope.OwnerID)
		}
	})

	t.Run("standard cannot widen scope with a filter", func(t *testing.T) {
		for _, kind := range []models.RecordKind{models.RecordKindLeads, models.RecordKindQuotes, models.RecordKindDeals, models.RecordKindTasks} {
			scope, err := resolver.Resolve(principal(models.RoleStandard), kind, &otherID)
			require.NoError(t, err)
			require.NotNil(t, scope.OwnerID, "kind %s", kind)
			assert.Equal(t, selfID, *scope.OwnerID, "filter must be overridden to self for kind %s", kind)
		}
	})
}

func TestResolve_FailsClosed(t *testing.T) {
	resolver := NewScopeResolver()
	p := models.Principal{ID: uuid.New(), Role: models.Role("superuser"), TenantID: uuid.New()}

	_, err := resolver.Resolve(p, models.RecordKindQuotes, nil)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindPermissionDenied), "unknown role must fail closed, got %v", err)
}

func TestResolve_UnknownKind(t *testing.T) {
	resolver := NewScopeResolver()
	p := models.Principal{ID: uuid.New(), Role: models.RoleAdmin, TenantID: uuid.New()}

	_, err := resolver.Resolve(p, models.RecordKind("invoices"), nil)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindInvalidInput))
}
