package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/repository"
)

// TaskHandler manages tasks inside the request's tenant database.
type TaskHandler struct{}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler() *TaskHandler {
	return &TaskHandler{}
}

// Register wires task routes onto a tenant-scoped group.
func (h *TaskHandler) Register(g *echo.Group) {
	g.POST("/tasks", h.Create)
	g.GET("/projects/:project_id/tasks", h.ListByProject)
	g.GET("/tasks/:id", h.Get)
	g.PATCH("/tasks/:id", h.Update)
	g.DELETE("/tasks/:id", h.Archive)
}

func (h *TaskHandler) repo(c echo.Context) *repository.TaskRepository {
	return repository.NewTaskRepository(TenantDB(c))
}

type createTaskRequest struct {
	ProjectID      string     `json:"project_id" validate:"required,uuid"`
	ParentTaskID   *string    `json:"parent_task_id" validate:"omitempty,uuid"`
	Title          string     `json:"title" validate:"required,min=1,max=300"`
	Description    *string    `json:"description" validate:"omitempty,max=5000"`
	Status         string     `json:"status" validate:"omitempty,oneof=todo in_progress in_review done cancelled"`
	Priority       string     `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	AssigneeID     *string    `json:"assignee_id" validate:"omitempty,uuid"`
	Position       int        `json:"position" validate:"gte=0"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours" validate:"omitempty,gte=0"`
}

// Create adds a task. The project must exist in this tenant database.
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := repository.NewProjectRepository(TenantDB(c)).GetByID(ctx, req.ProjectID); err != nil {
		return err
	}

	user := CurrentUser(c)
	task, err := h.repo(c).Create(ctx, domain.Task{
		ProjectID:      req.ProjectID,
		ParentTaskID:   req.ParentTaskID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         domain.TaskStatus(req.Status),
		Priority:       domain.ProjectPriority(req.Priority),
		AssigneeID:     req.AssigneeID,
		CreatedBy:      user.ID,
		Position:       req.Position,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		return err
	}
	return OK(c, http.StatusCreated, task)
}

// ListByProject returns the non-archived tasks for one project.
func (h *TaskHandler) ListByProject(c echo.Context) error {
	tasks, err := h.repo(c).ListByProject(c.Request().Context(), c.Param("project_id"))
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, tasks)
}

// Get returns one task.
func (h *TaskHandler) Get(c echo.Context) error {
	task, err := h.repo(c).GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, task)
}

type updateTaskRequest struct {
	Title          *string    `json:"title" validate:"omitempty,min=1,max=300"`
	Description    *string    `json:"description" validate:"omitempty,max=5000"`
	Status         *string    `json:"status" validate:"omitempty,oneof=todo in_progress in_review done cancelled"`
	Priority       *string    `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	AssigneeID     *string    `json:"assignee_id" validate:"omitempty,uuid"`
	Position       *int       `json:"position" validate:"omitempty,gte=0"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours" validate:"omitempty,gte=0"`
	ActualHours    *float64   `json:"actual_hours" validate:"omitempty,gte=0"`
}

// Update applies partial changes to a task. Moving to done stamps the
// completion date; moving away clears it.
func (h *TaskHandler) Update(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	repo := h.repo(c)
	task, err := repo.GetByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Status != nil {
		task.Status = domain.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		task.Priority = domain.ProjectPriority(*req.Priority)
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}
	if req.Position != nil {
		task.Position = *req.Position
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = req.EstimatedHours
	}
	if req.ActualHours != nil {
		task.ActualHours = *req.ActualHours
	}

	updated, err := repo.Update(ctx, *task)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, updated)
}

// Archive soft-deletes a task.
func (h *TaskHandler) Archive(c echo.Context) error {
	if err := h.repo(c).Archive(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return OK(c, http.StatusOK, map[string]string{"status": "archived"})
}
