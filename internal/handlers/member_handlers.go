package handlers

import (
	"net/http"

	"github.com/CammoPaint/QuoteGen-sub000/internal/common"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/internal/repositories"
	"github.com/CammoPaint/QuoteGen-sub000/internal/services"

	"github.com/labstack/echo/v4"
)

// MemberHandlers serves the tenant member directory, which backs the "filter
// by user" selector in the dashboard.
type MemberHandlers struct {
	directoryService services.DirectoryService
	userRepo         repositories.UserRepository
}

// NewMemberHandlers creates a new member handlers instance
func NewMemberHandlers(directoryService services.DirectoryService, userRepo repositories.UserRepository) *MemberHandlers {
	return &MemberHandlers{directoryService: directoryService, userRepo: userRepo}
}

// ListMembers returns the caller's tenant members
func (h *MemberHandlers) ListMembers(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	req.normalize()

	members, err := h.directoryService.ListMembers(c.Request().Context(), principal.TenantID, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list members")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"members": members,
		"limit":   req.Limit,
		"offset":  req.Offset,
	})
}

// UpdateMemberRoleRequest represents the role change payload
type UpdateMemberRoleRequest struct {
	Role models.Role `json:"role" validate:"required"`
}

// UpdateMemberRole changes another member's role. Takes effect on the
// member's next request, not retroactively.
func (h *MemberHandlers) UpdateMemberRole(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	if principal.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Only admins may change member roles")
	}

	id, err := common.ValidateUUID(c.Param("id"), "member id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateMemberRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if !req.Role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown role")
	}

	if err := h.userRepo.UpdateRole(c.Request().Context(), principal.TenantID, id, req.Role); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update role")
	}
	return c.NoContent(http.StatusNoContent)
}
