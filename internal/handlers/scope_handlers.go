package handlers

import (
	"net/http"

	"github.com/CammoPaint/QuoteGen-sub000/internal/common"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ScopeHandlers exposes the scope resolution used by every list screen
type ScopeHandlers struct {
	resolver services.ScopeResolver
}

// NewScopeHandlers creates a new scope handlers instance
func NewScopeHandlers(resolver services.ScopeResolver) *ScopeHandlers {
	return &ScopeHandlers{resolver: resolver}
}

// Resolve computes the caller's visibility scope for a record kind
func (h *ScopeHandlers) Resolve(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	kind := models.RecordKind(c.QueryParam("recordKind"))
	filterUserID, err := parseFilterUserID(c)
	if err != nil {
		return common.SendValidationError(c, "filterUserId", err.Error())
	}

	scope, err := h.resolver.Resolve(principal, kind, filterUserID)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, scope)
}

// parseFilterUserID reads the optional filterUserId query parameter.
func parseFilterUserID(c echo.Context) (*uuid.UUID, error) {
	raw := c.QueryParam("filterUserId")
	if raw == "" {
		return nil, nil
	}
	id, err := common.ValidateUUID(raw, "filterUserId")
	if err != nil {
		return nil, err
	}
	return &id, nil
}
