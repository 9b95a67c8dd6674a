package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CammoPaint/QuoteGen-sub000/internal/common"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scopeRequest(t *testing.T, target string, p *models.Principal) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if p != nil {
		req = req.WithContext(common.WithPrincipal(req.Context(), *p))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestResolveScope_AdminWithFilter(t *testing.T) {
	h := NewScopeHandlers(services.NewScopeResolver())
	admin := models.Principal{ID: uuid.New(), Email: "admin@example.com", Role: models.RoleAdmin, TenantID: uuid.New()}
	filterID := uuid.New()

	c, rec := scopeRequest(t, "/v1/scope?recordKind=quotes&filterUserId="+filterID.String(), &admin)

	require.NoError(t, h.Resolve(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var scope models.Scope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scope))
	assert.Equal(t, admin.TenantID, scope.TenantID)
	require.NotNil(t, scope.OwnerID)
	assert.Equal(t, filterID, *scope.OwnerID)
}

func TestResolveScope_StandardIgnoresFilter(t *testing.T) {
	h := NewScopeHandlers(services.NewScopeResolver())
	standard := models.Principal{ID: uuid.New(), Email: "rep@example.com", Role: models.RoleStandard, TenantID: uuid.New()}

	c, rec := scopeRequest(t, "/v1/scope?recordKind=deals&filterUserId="+uuid.NewString(), &standard)

	require.NoError(t, h.Resolve(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var scope models.Scope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scope))
	require.NotNil(t, scope.OwnerID)
	assert.Equal(t, standard.ID, *scope.OwnerID)
}

func TestResolveScope_UnknownKind(t *testing.T) {
	h := NewScopeHandlers(services.NewScopeResolver())
	admin := models.Principal{ID: uuid.New(), Email: "admin@example.com", Role: models.RoleAdmin, TenantID: uuid.New()}

	c, rec := scopeRequest(t, "/v1/scope?recordKind=invoices", &admin)

	require.NoError(t, h.Resolve(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestResolveScope_BadFilter(t *testing.T) {
	h := NewScopeHandlers(services.NewScopeResolver())
	admin := models.Principal{ID: uuid.New(), Email: "admin@example.com", Role: models.RoleAdmin, TenantID: uuid.New()}

	c, rec := scopeRequest(t, "/v1/scope?recordKind=quotes&filterUserId=nope", &admin)

	require.NoError(t, h.Resolve(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveScope_Unauthenticated(t *testing.T) {
	h := NewScopeHandlers(services.NewScopeResolver())

	c, rec := scopeRequest(t, "/v1/scope?recordKind=quotes", nil)

	require.NoError(t, h.Resolve(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
