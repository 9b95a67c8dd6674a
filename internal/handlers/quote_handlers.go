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

// QuoteHandlers serves the quotes collection
type QuoteHandlers struct {
	quoteRepo repositories.QuoteRepository
	resolver  services.ScopeResolver
}

// NewQuoteHandlers creates a new quote handlers instance
func NewQuoteHandlers(quoteRepo repositories.QuoteRepository, resolver services.ScopeResolver) *QuoteHandlers {
	return &QuoteHandlers{quoteRepo: quoteRepo, resolver: resolver}
}

// ListQuotes returns the quotes visible to the caller
func (h *QuoteHandlers) ListQuotes(c echo.Context) error {
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

	scope, err := h.resolver.Resolve(principal, models.RecordKindQuotes, filterUserID)
	if err != nil {
		return common.RespondError(c, err)
	}

	quotes, err := h.quoteRepo.List(c.Request().Context(), scope, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list quotes")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"quotes": quotes,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// CreateQuoteRequest represents the quote creation payload
type CreateQuoteRequest struct {
	CustomerID  string  `json:"customer_id" validate:"required"`
	QuoteNumber string  `json:"quote_number"`
	Title       string  `json:"title" validate:"required"`
	Total       float64 `json:"total"`
}

// CreateQuote creates a quote owned by the caller
func (h *QuoteHandlers) CreateQuote(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req CreateQuoteRequest
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

	quote := &models.Quote{
		ID:          uuid.New(),
		TenantID:    principal.TenantID,
		OwnerID:     principal.ID,
		CustomerID:  customerID,
		QuoteNumber: req.QuoteNumber,
		Title:       req.Title,
		Status:      "draft",
		Total:       req.Total,
	}

	if err := h.quoteRepo.Create(c.Request().Context(), quote); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create quote")
	}

	return c.JSON(http.StatusCreated, quote)
}
