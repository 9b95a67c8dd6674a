package handlers

import (
	"net/http"

	"github.com/CammoPaint/QuoteGen-sub000/internal/common"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/internal/repositories"
	"github.com/CammoPaint/QuoteGen-sub000/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DealHandlers serves the deals collection
type DealHandlers struct {
	dealRepo repositories.DealRepository
	resolver services.ScopeResolver
}

// NewDealHandlers creates a new deal handlers instance
func NewDealHandlers(dealRepo repositories.DealRepository, resolver services.ScopeResolver) *DealHandlers {
	return &DealHandlers{dealRepo: dealRepo, resolver: resolver}
}

// ListDeals returns the deals visible to the caller
func (h *DealHandlers) ListDeals(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	req.normalize()

	filterUserID, err := parseFilterUserID(c)
	if err != nil {
		return common.SendValidationError(c, "filterUserId", err.Error())
	}

	scope, err := h.resolver.Resolve(principal, models.RecordKindDeals, filterUserID)
	if err != nil {
		return common.RespondError(c, err)
	}

	deals, err := h.dealRepo.List(c.Request().Context(), scope, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list deals")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"deals":  deals,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// CreateDealRequest represents the deal creation payload
type CreateDealRequest struct {
	CustomerID string  `json:"customer_id" validate:"required"`
	Title      string  `json:"title" validate:"required"`
	Stage      string  `json:"stage"`
	Value      float64 `json:"value"`
}

// CreateDeal creates a deal owned by the caller
func (h *DealHandlers) CreateDeal(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req CreateDealRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Title is required")
	}
	customerID, err := common.ValidateUUID(req.CustomerID, "customer_id")
	if err != nil {
		return common.SendValidationError(c, "customer_id", err.Error())
	}
	if req.Stage == "" {
		req.Stage = "open"
	}

	deal := &models.Deal{
		ID:         uuid.New(),
		TenantID:   principal.TenantID,
		OwnerID:    principal.ID,
		CustomerID: customerID,
		Title:      req.Title,
		Stage:      req.Stage,
		Value:      req.Value,
	}

	if err := h.dealRepo.Create(c.Request().Context(), deal); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create deal")
	}

	return c.JSON(http.StatusCreated, deal)
}
