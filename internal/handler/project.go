package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/repository"
	"github.com/zphere-app/zphere/internal/service"
)

// ProjectHandler manages projects inside the request's tenant database.
type ProjectHandler struct{}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{}
}

// Register wires project routes onto a tenant-scoped group.
func (h *ProjectHandler) Register(g *echo.Group) {
	g.POST("/projects", h.Create)
	g.GET("/projects", h.List)
	g.GET("/projects/:id", h.Get)
	g.PATCH("/projects/:id", h.Update)
	g.DELETE("/projects/:id", h.Archive)
}

func (h *ProjectHandler) repo(c echo.Context) *repository.ProjectRepository {
	return repository.NewProjectRepository(TenantDB(c))
}

type createProjectRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	CustomerID  *string `json:"customer_id" validate:"omitempty,uuid"`
	Status      string  `json:"status" validate:"omitempty,oneof=planning active on_hold completed cancelled"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	BudgetCents *int64  `json:"budget_cents" validate:"omitempty,gte=0"`
}

// Create adds a project owned by the caller.
func (h *ProjectHandler) Create(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := CurrentUser(c)
	project, err := h.repo(c).Create(c.Request().Context(), domain.Project{
		OrganizationID: TenantID(c),
		OwnerID:        user.ID,
		CustomerID:     req.CustomerID,
		Name:           req.Name,
		Slug:           service.Slugify(req.Name),
		Description:    req.Description,
		Status:         domain.ProjectStatus(req.Status),
		Priority:       domain.ProjectPriority(req.Priority),
		BudgetCents:    req.BudgetCents,
	})
	if err != nil {
		return err
	}
	return OK(c, http.StatusCreated, project)
}

// List returns the tenant's projects. ?include_archived=true includes
// archived ones.
func (h *ProjectHandler) List(c echo.Context) error {
	includeArchived := c.QueryParam("include_archived") == "true"
	projects, err := h.repo(c).List(c.Request().Context(), includeArchived)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, projects)
}

// Get returns one project.
func (h *ProjectHandler) Get(c echo.Context) error {
	project, err := h.repo(c).GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, project)
}

type updateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Status      *string `json:"status" validate:"omitempty,oneof=planning active on_hold completed cancelled"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	BudgetCents *int64  `json:"budget_cents" validate:"omitempty,gte=0"`
}

// Update applies partial changes to a project.
func (h *ProjectHandler) Update(c echo.Context) error {
	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	repo := h.repo(c)
	project, err := repo.GetByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	if req.Name != nil {
		project.Name = *req.Name
		project.Slug = service.Slugify(*req.Name)
	}
	if req.Description != nil {
		project.Description = req.Description
	}
	if req.Status != nil {
		project.Status = domain.ProjectStatus(*req.Status)
	}
	if req.Priority != nil {
		project.Priority = domain.ProjectPriority(*req.Priority)
	}
	if req.BudgetCents != nil {
		project.BudgetCents = req.BudgetCents
	}

	updated, err := repo.Update(ctx, *project)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, updated)
}

// Archive soft-deletes a project.
func (h *ProjectHandler) Archive(c echo.Context) error {
	if err := h.repo(c).Archive(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return OK(c, http.StatusOK, map[string]string{"status": "archived"})
}
