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

// CustomerHandlers serves the customers collection and its lead variant.
// Every list passes the principal through the scope resolver before touching
// the store.
type CustomerHandlers struct {
	customerRepo repositories.CustomerRepository
	resolver     services.ScopeResolver
}

// NewCustomerHandlers creates a new customer handlers instance
func NewCustomerHandlers(customerRepo repositories.CustomerRepository, resolver services.ScopeResolver) *CustomerHandlers {
	return &CustomerHandlers{customerRepo: customerRepo, resolver: resolver}
}

// ListRequest represents shared pagination query parameters
type ListRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (r *ListRequest) normalize() {
	if r.Limit <= 0 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

// ListCustomers returns the tenant's established customers
func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
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

	scope, err := h.resolver.Resolve(principal, models.RecordKindCustomers, filterUserID)
	if err != nil {
		return common.RespondError(c, err)
	}

	customers, err := h.customerRepo.ListCustomers(c.Request().Context(), scope, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list customers")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"customers": customers,
		"limit":     req.Limit,
		"offset":    req.Offset,
	})
}

// ListLeads returns the leads visible to the caller
func (h *CustomerHandlers) ListLeads(c echo.Context) error {
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

	scope, err := h.resolver.Resolve(principal, models.RecordKindLeads, filterUserID)
	if err != nil {
		return common.RespondError(c, err)
	}

	leads, err := h.customerRepo.ListLeads(c.Request().Context(), scope, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list leads")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"leads":  leads,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// CreateCustomerRequest represents the customer creation payload
type CreateCustomerRequest struct {
	Kind    models.CustomerKind `json:"kind"`
	Name    string              `json:"name" validate:"required"`
	Email   string              `json:"email"`
	Phone   string              `json:"phone"`
	Address string              `json:"address"`
	Lead    *models.LeadDetails `json:"lead,omitempty"`
}

// CreateCustomer creates a customer or lead owned by the caller
func (h *CustomerHandlers) CreateCustomer(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if req.Kind == "" {
		req.Kind = models.CustomerKindCustomer
	}
	if req.Kind != models.CustomerKindCustomer && req.Kind != models.CustomerKindLead {
		return echo.NewHTTPError(http.StatusBadRequest, "Kind must be customer or lead")
	}

	customer := &models.Customer{
		ID:       uuid.New(),
		TenantID: principal.TenantID,
		OwnerID:  principal.ID,
		Kind:     req.Kind,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if req.Kind == models.CustomerKindLead {
		customer.Lead = req.Lead
		if customer.Lead == nil {
			customer.Lead = &models.LeadDetails{}
		}
		if customer.Lead.AssignedToID == uuid.Nil {
			customer.Lead.AssignedToID = principal.ID
		}
	}

	if err := h.customerRepo.Create(c.Request().Context(), customer); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create customer")
	}

	return c.JSON(http.StatusCreated, customer)
}
