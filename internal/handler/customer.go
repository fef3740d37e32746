package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/repository"
)

// CustomerHandler manages CRM records inside the request's tenant database.
type CustomerHandler struct{}

// NewCustomerHandler creates a CustomerHandler.
func NewCustomerHandler() *CustomerHandler {
	return &CustomerHandler{}
}

// Register wires customer routes onto a tenant-scoped group.
func (h *CustomerHandler) Register(g *echo.Group) {
	g.POST("/customers", h.Create)
	g.GET("/customers", h.List)
	g.GET("/customers/:id", h.Get)
	g.PATCH("/customers/:id", h.Update)
	g.DELETE("/customers/:id", h.Deactivate)
}

func (h *CustomerHandler) repo(c echo.Context) *repository.CustomerRepository {
	return repository.NewCustomerRepository(TenantDB(c))
}

type createCustomerRequest struct {
	FirstName    string  `json:"first_name" validate:"required,max=100"`
	LastName     string  `json:"last_name" validate:"required,max=100"`
	Email        string  `json:"email" validate:"required,email"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	CompanyName  *string `json:"company_name" validate:"omitempty,max=200"`
	CustomerType string  `json:"customer_type" validate:"omitempty,oneof=prospect lead client"`
	PaymentTerms string  `json:"payment_terms" validate:"omitempty,max=50"`
	Notes        *string `json:"notes" validate:"omitempty,max=5000"`
}

// Create adds a customer. Email is unique within this tenant only.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req createCustomerRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	customer, err := h.repo(c).Create(c.Request().Context(), domain.Customer{
		OrganizationID: TenantID(c),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          strings.ToLower(req.Email),
		Phone:          req.Phone,
		CompanyName:    req.CompanyName,
		CustomerType:   domain.CustomerType(req.CustomerType),
		PaymentTerms:   req.PaymentTerms,
		Notes:          req.Notes,
		IsActive:       true,
	})
	if err != nil {
		return err
	}
	return OK(c, http.StatusCreated, customer)
}

// List returns the tenant's customers. ?include_inactive=true includes
// deactivated ones.
func (h *CustomerHandler) List(c echo.Context) error {
	includeInactive := c.QueryParam("include_inactive") == "true"
	customers, err := h.repo(c).List(c.Request().Context(), includeInactive)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, customers)
}

// Get returns one customer.
func (h *CustomerHandler) Get(c echo.Context) error {
	customer, err := h.repo(c).GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, customer)
}

type updateCustomerRequest struct {
	FirstName    *string `json:"first_name" validate:"omitempty,max=100"`
	LastName     *string `json:"last_name" validate:"omitempty,max=100"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	CompanyName  *string `json:"company_name" validate:"omitempty,max=200"`
	CustomerType *string `json:"customer_type" validate:"omitempty,oneof=prospect lead client"`
	PaymentTerms *string `json:"payment_terms" validate:"omitempty,max=50"`
	Notes        *string `json:"notes" validate:"omitempty,max=5000"`
}

// Update applies partial changes to a customer.
func (h *CustomerHandler) Update(c echo.Context) error {
	var req updateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	repo := h.repo(c)
	customer, err := repo.GetByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.Email != nil {
		customer.Email = strings.ToLower(*req.Email)
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.CompanyName != nil {
		customer.CompanyName = req.CompanyName
	}
	if req.CustomerType != nil {
		customer.CustomerType = domain.CustomerType(*req.CustomerType)
	}
	if req.PaymentTerms != nil {
		customer.PaymentTerms = *req.PaymentTerms
	}
	if req.Notes != nil {
		customer.Notes = req.Notes
	}

	updated, err := repo.Update(ctx, *customer)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, updated)
}

// Deactivate soft-deletes a customer, keeping the row for invoice history.
func (h *CustomerHandler) Deactivate(c echo.Context) error {
	if err := h.repo(c).Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return OK(c, http.StatusOK, map[string]string{"status": "deactivated"})
}
