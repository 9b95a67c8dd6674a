package handlers

import (
	"net/http"
	"time"

	"github.com/CammoPaint/QuoteGen-sub000/internal/caching"
	"github.com/CammoPaint/QuoteGen-sub000/internal/common"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/internal/services"

	"github.com/labstack/echo/v4"
)

// acceptAttemptLimit caps token-guessing on the public accept endpoint.
const acceptAttemptLimit = 10

// InvitationHandlers handles invitation lifecycle HTTP requests
type InvitationHandlers struct {
	invitationService services.InvitationService
	onboardingService services.OnboardingService
	directoryService  services.DirectoryService
	authService       services.AuthService
	cacheSvc          caching.CacheService
}

// NewInvitationHandlers creates a new invitation handlers instance
func NewInvitationHandlers(
	invitationService services.InvitationService,
	onboardingService services.OnboardingService,
	directoryService services.DirectoryService,
	authService services.AuthService,
	cacheSvc caching.CacheService,
) *InvitationHandlers {
	return &InvitationHandlers{
		invitationService: invitationService,
		onboardingService: onboardingService,
		directoryService:  directoryService,
		authService:       authService,
		cacheSvc:          cacheSvc,
	}
}

// CreateInvitationRequest represents the invitation creation payload
type CreateInvitationRequest struct {
	Email string      `json:"email" validate:"required,email"`
	Role  models.Role `json:"role" validate:"required"`
}

// Create issues an invitation for a new member of the caller's company
func (h *InvitationHandlers) Create(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req CreateInvitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	inv, err := h.invitationService.Create(c.Request().Context(), principal, req.Email, req.Role)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, inv)
}

// ListInvitationsRequest represents query parameters for listing invitations
type ListInvitationsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// List returns the caller's tenant invitations, newest first
func (h *InvitationHandlers) List(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListInvitationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	invitations, err := h.invitationService.List(c.Request().Context(), principal.TenantID, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list invitations")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"invitations": invitations,
	})
}

// InvitationSummary is the public pre-acceptance view of an invitation. It
// deliberately omits the token and internal ids.
type InvitationSummary struct {
	Email         string                  `json:"email"`
	InvitedByName string                  `json:"invited_by_name"`
	CompanyName   string                  `json:"company_name"`
	Role          models.Role             `json:"role"`
	Status        models.InvitationStatus `json:"status"`
	ExpiresAt     time.Time               `json:"expires_at"`
}

// Lookup resolves an invitation token to its summary for the accept screen
func (h *InvitationHandlers) Lookup(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Token is required")
	}

	inv, err := h.invitationService.GetByToken(c.Request().Context(), token)
	if err != nil {
		return common.RespondError(c, err)
	}

	summary := InvitationSummary{
		Email:         inv.Email,
		InvitedByName: inv.InvitedByName,
		Role:          inv.Role,
		Status:        inv.Status,
		ExpiresAt:     inv.ExpiresAt,
	}
	if tenant, err := h.directoryService.GetTenant(c.Request().Context(), inv.TenantID); err == nil {
		summary.CompanyName = tenant.Name
	}

	return c.JSON(http.StatusOK, summary)
}

// Cancel transitions a pending invitation to cancelled
func (h *InvitationHandlers) Cancel(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "invitation id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.invitationService.Cancel(c.Request().Context(), principal, id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Resend triggers a fresh notification for a still-pending invitation
func (h *InvitationHandlers) Resend(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "invitation id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.invitationService.Resend(c.Request().Context(), principal, id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AcceptInvitationRequest represents the acceptance payload
type AcceptInvitationRequest struct {
	Token    string `json:"token" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// AcceptInvitationResponse carries the new account plus login credentials so
// the invitee lands signed in.
type AcceptInvitationResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

// Accept consumes an invitation token and provisions the member account
func (h *InvitationHandlers) Accept(c echo.Context) error {
	ctx := c.Request().Context()

	var req AcceptInvitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Token is required")
	}

	limited, err := h.cacheSvc.IsRateLimited(ctx, "accept:"+c.RealIP(), acceptAttemptLimit, time.Minute)
	if err == nil && limited {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many attempts, try again shortly")
	}

	user, err := h.onboardingService.Accept(ctx, req.Token, req.Name, req.Password)
	if err != nil {
		return common.RespondError(c, err)
	}

	tokenResponse, err := h.authService.GenerateTokens(ctx, user)
	if err != nil {
		// The account exists; the invitee can still log in normally.
		return c.JSON(http.StatusCreated, AcceptInvitationResponse{User: user})
	}

	return c.JSON(http.StatusCreated, AcceptInvitationResponse{
		TokenResponse: *tokenResponse,
		User:          user,
	})
}
