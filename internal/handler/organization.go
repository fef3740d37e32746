package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/repository"
	"github.com/zphere-app/zphere/internal/tenantdb"
)

// OrganizationHandler manages the caller's organization in the master
// database.
type OrganizationHandler struct {
	orgs    *repository.OrganizationRepository
	users   *repository.UserRepository
	tenants *tenantdb.Manager
}

// NewOrganizationHandler creates an OrganizationHandler.
func NewOrganizationHandler(orgs *repository.OrganizationRepository, users *repository.UserRepository, tenants *tenantdb.Manager) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs, users: users, tenants: tenants}
}

// Register wires organization routes onto an authenticated group.
func (h *OrganizationHandler) Register(g *echo.Group) {
	g.GET("/organization", h.Get)
	g.PATCH("/organization", h.Update)
	g.GET("/organization/members", h.Members)
	g.DELETE("/organization", h.Delete)
}

// Get returns the caller's organization.
func (h *OrganizationHandler) Get(c echo.Context) error {
	user := CurrentUser(c)
	org, err := h.orgs.GetByID(c.Request().Context(), user.OrganizationID)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, org)
}

type updateOrganizationRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Domain      *string `json:"domain" validate:"omitempty,fqdn"`
}

// Update applies partial changes to the caller's organization. Admin only.
func (h *OrganizationHandler) Update(c echo.Context) error {
	user := CurrentUser(c)
	if user.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	var req updateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	org, err := h.orgs.GetByID(ctx, user.OrganizationID)
	if err != nil {
		return err
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Description != nil {
		org.Description = req.Description
	}
	if req.Domain != nil {
		org.Domain = req.Domain
	}

	updated, err := h.orgs.Update(ctx, *org)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, updated)
}

// Members lists the users in the caller's organization.
func (h *OrganizationHandler) Members(c echo.Context) error {
	user := CurrentUser(c)
	members, err := h.users.ListByOrganization(c.Request().Context(), user.OrganizationID)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, members)
}

// Delete deactivates the organization and drops its tenant database. Admin
// only. Master rows are kept deactivated for audit.
func (h *OrganizationHandler) Delete(c echo.Context) error {
	user := CurrentUser(c)
	if user.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	ctx := c.Request().Context()
	org, err := h.orgs.GetByID(ctx, user.OrganizationID)
	if err != nil {
		return err
	}

	org.IsActive = false
	if _, err := h.orgs.Update(ctx, *org); err != nil {
		return err
	}
	if err := h.tenants.DeleteTenant(ctx, org.ID); err != nil {
		return err
	}
	return OK(c, http.StatusOK, map[string]string{"status": "deleted"})
}
