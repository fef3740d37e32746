package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/repository"
)

// GoalHandler manages goals inside the request's tenant database.
type GoalHandler struct{}

// NewGoalHandler creates a GoalHandler.
func NewGoalHandler() *GoalHandler {
	return &GoalHandler{}
}

// Register wires goal routes onto a tenant-scoped group.
func (h *GoalHandler) Register(g *echo.Group) {
	g.POST("/goals", h.Create)
	g.GET("/goals", h.List)
	g.GET("/goals/:id", h.Get)
	g.POST("/goals/:id/progress", h.UpdateProgress)
	g.DELETE("/goals/:id", h.Archive)
}

func (h *GoalHandler) repo(c echo.Context) *repository.GoalRepository {
	return repository.NewGoalRepository(TenantDB(c))
}

type createGoalRequest struct {
	ProjectID   *string   `json:"project_id" validate:"omitempty,uuid"`
	Title       string    `json:"title" validate:"required,min=1,max=300"`
	Description *string   `json:"description" validate:"omitempty,max=5000"`
	GoalType    string    `json:"goal_type" validate:"omitempty,oneof=personal team company"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	TargetValue float64   `json:"target_value" validate:"gte=0"`
	Unit        *string   `json:"unit" validate:"omitempty,max=50"`
}

// Create adds a goal created by the caller.
func (h *GoalHandler) Create(c echo.Context) error {
	var req createGoalRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := CurrentUser(c)
	goal, err := h.repo(c).Create(c.Request().Context(), domain.Goal{
		OrganizationID: TenantID(c),
		ProjectID:      req.ProjectID,
		CreatedBy:      user.ID,
		Title:          req.Title,
		Description:    req.Description,
		GoalType:       domain.GoalType(req.GoalType),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		TargetValue:    req.TargetValue,
		Unit:           req.Unit,
	})
	if err != nil {
		return err
	}
	return OK(c, http.StatusCreated, goal)
}

// List returns the tenant's non-archived goals.
func (h *GoalHandler) List(c echo.Context) error {
	goals, err := h.repo(c).List(c.Request().Context())
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, goals)
}

// Get returns one goal.
func (h *GoalHandler) Get(c echo.Context) error {
	goal, err := h.repo(c).GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, goal)
}

type updateGoalProgressRequest struct {
	CurrentValue float64 `json:"current_value" validate:"gte=0"`
}

// UpdateProgress records a new current value. The completion percentage and
// status transitions are computed server-side.
func (h *GoalHandler) UpdateProgress(c echo.Context) error {
	var req updateGoalProgressRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	goal, err := h.repo(c).UpdateProgress(c.Request().Context(), c.Param("id"), req.CurrentValue)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, goal)
}

// Archive soft-deletes a goal.
func (h *GoalHandler) Archive(c echo.Context) error {
	if err := h.repo(c).Archive(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return OK(c, http.StatusOK, map[string]string{"status": "archived"})
}
