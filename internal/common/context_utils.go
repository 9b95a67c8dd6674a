package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/CammoPaint/QuoteGen-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	TenantIDKey  contextKey = "tenant_id"
	UserEmailKey contextKey = "user_email"
	UserRoleKey  contextKey = "user_role"
)

// WithPrincipal attaches the authenticated principal's fields to the context.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, p.ID)
	ctx = context.WithValue(ctx, TenantIDKey, p.TenantID)
	ctx = context.WithValue(ctx, UserEmailKey, p.Email)
	ctx = context.WithValue(ctx, UserRoleKey, p.Role)
	return ctx
}

// GetUserIDFromContext extracts the authenticated user ID from the context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetTenantIDFromContext extracts the tenant ID from the context.
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}

// PrincipalFromContext reassembles the principal set by the JWT middleware.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	if !ok {
		return models.Principal{}, false
	}
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	if !ok {
		return models.Principal{}, false
	}
	email, _ := ctx.Value(UserEmailKey).(string)
	role, ok := ctx.Value(UserRoleKey).(models.Role)
	if !ok {
		return models.Principal{}, false
	}
	return models.Principal{ID: userID, Email: email, Role: role, TenantID: tenantID}, true
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// RespondError writes the JSON error envelope for err. Kinded errors keep
// their code and message; anything else becomes an opaque 500.
func RespondError(c echo.Context, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return c.JSON(e.HTTPStatus(), CreateErrorResponse(string(e.Kind), e.Message, nil))
	}
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "Internal server error", nil))
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// ValidateUUID validates UUID path/query parameters.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID", fieldName)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%s cannot be the nil UUID", fieldName)
	}
	return id, nil
}
