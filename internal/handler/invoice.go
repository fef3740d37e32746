package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/repository"
	"github.com/zphere-app/zphere/internal/service"
)

// InvoiceHandler manages invoices inside the request's tenant database.
type InvoiceHandler struct {
	numbers *service.InvoiceNumbers
}

// NewInvoiceHandler creates an InvoiceHandler.
func NewInvoiceHandler(numbers *service.InvoiceNumbers) *InvoiceHandler {
	return &InvoiceHandler{numbers: numbers}
}

// Register wires invoice routes onto a tenant-scoped group.
func (h *InvoiceHandler) Register(g *echo.Group) {
	g.POST("/invoices", h.Create)
	g.GET("/invoices", h.List)
	g.GET("/invoices/:id", h.Get)
	g.POST("/invoices/:id/status", h.SetStatus)
}

func (h *InvoiceHandler) repo(c echo.Context) *repository.InvoiceRepository {
	return repository.NewInvoiceRepository(TenantDB(c))
}

type createInvoiceRequest struct {
	ProjectID   *string    `json:"project_id" validate:"omitempty,uuid"`
	CustomerID  *string    `json:"customer_id" validate:"omitempty,uuid"`
	AmountCents int64      `json:"amount_cents" validate:"required,gt=0"`
	Currency    string     `json:"currency" validate:"omitempty,len=3,uppercase"`
	DueAt       *time.Time `json:"due_at"`
}

// Create issues a draft invoice with a generated number.
func (h *InvoiceHandler) Create(c echo.Context) error {
	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	invoice, err := h.repo(c).Create(c.Request().Context(), domain.Invoice{
		OrganizationID: TenantID(c),
		ProjectID:      req.ProjectID,
		CustomerID:     req.CustomerID,
		Number:         h.numbers.Next(),
		AmountCents:    req.AmountCents,
		Currency:       req.Currency,
		DueAt:          req.DueAt,
	})
	if err != nil {
		return err
	}
	return OK(c, http.StatusCreated, invoice)
}

// List returns the tenant's invoices, newest first.
func (h *InvoiceHandler) List(c echo.Context) error {
	invoices, err := h.repo(c).List(c.Request().Context())
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, invoices)
}

// Get returns one invoice.
func (h *InvoiceHandler) Get(c echo.Context) error {
	invoice, err := h.repo(c).GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, invoice)
}

type setInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent paid void"`
}

// SetStatus transitions an invoice through its lifecycle.
func (h *InvoiceHandler) SetStatus(c echo.Context) error {
	var req setInvoiceStatusRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	invoice, err := h.repo(c).SetStatus(c.Request().Context(), c.Param("id"), domain.InvoiceStatus(req.Status))
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, invoice)
}
