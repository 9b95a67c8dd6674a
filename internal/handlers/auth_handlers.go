package handlers

import (
	"net/http"

	"github.com/CammoPaint/QuoteGen-sub000/internal/common"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/internal/repositories"
	"github.com/CammoPaint/QuoteGen-sub000/internal/services"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService      services.AuthService
	directoryService services.DirectoryService
	userRepo         repositories.UserRepository
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, directoryService services.DirectoryService, userRepo repositories.UserRepository) *AuthHandlers {
	return &AuthHandlers{
		authService:      authService,
		directoryService: directoryService,
		userRepo:         userRepo,
	}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

// Login handles user login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if user.Status != "active" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account is not active")
	}

	tokenResponse, err := h.authService.GenerateTokens(ctx, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate tokens")
	}

	return c.JSON(http.StatusOK, LoginResponse{
		TokenResponse: *tokenResponse,
		User:          user,
	})
}

// Signup handles company bootstrap: a new tenant plus its founding admin.
// Every other account is provisioned through an invitation.
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.BootstrapRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user, err := h.directoryService.Bootstrap(ctx, &req)
	if err != nil {
		return common.RespondError(c, err)
	}

	tokenResponse, err := h.authService.GenerateTokens(ctx, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate tokens")
	}

	return c.JSON(http.StatusCreated, LoginResponse{
		TokenResponse: *tokenResponse,
		User:          user,
	})
}

// RefreshRequest represents the token refresh payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a refresh token for a new credential pair
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh token is required")
	}

	tokenResponse, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	return c.JSON(http.StatusOK, tokenResponse)
}

// Logout revokes the presented refresh token
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.RefreshToken != "" {
		if err := h.authService.Revoke(c.Request().Context(), req.RefreshToken); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to revoke token")
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated principal
func (h *AuthHandlers) Me(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, principal)
}
