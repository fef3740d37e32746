package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zphere-app/zphere/internal/domain"
)

// TaskRepository handles task rows in a tenant database.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a TaskRepository bound to a tenant handle.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, project_id, parent_task_id, title, description, status, priority,
	assignee_id, created_by, position, start_date, due_date, completed_date,
	estimated_hours, actual_hours, is_archived, created_at, updated_at`

// Create inserts a new task, assigning id and timestamps.
func (r *TaskRepository) Create(ctx context.Context, t domain.Task) (*domain.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = domain.TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO tasks (id, project_id, parent_task_id, title, description, status, priority,
		                    assignee_id, created_by, position, start_date, due_date, completed_date,
		                    estimated_hours, actual_hours, is_archived, created_at, updated_at)
		 VALUES (:id, :project_id, :parent_task_id, :title, :description, :status, :priority,
		         :assignee_id, :created_by, :position, :start_date, :due_date, :completed_date,
		         :estimated_hours, :actual_hours, :is_archived, :created_at, :updated_at)`, t)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &t, nil
}

// GetByID retrieves a task by id.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.GetContext(ctx, &t, r.db.Rebind(
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return &t, nil
}

// ListByProject retrieves all non-archived tasks of a project in board order.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(
		`SELECT `+taskColumns+` FROM tasks
		 WHERE project_id = ? AND is_archived = FALSE
		 ORDER BY position, created_at`), projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks for project %s: %w", projectID, err)
	}
	return tasks, nil
}

// Update persists mutable task fields. Setting status to done stamps the
// completion date; leaving done clears it.
func (r *TaskRepository) Update(ctx context.Context, t domain.Task) (*domain.Task, error) {
	now := time.Now().UTC()
	t.UpdatedAt = now
	if t.Status == domain.TaskStatusDone && t.CompletedDate == nil {
		t.CompletedDate = &now
	}
	if t.Status != domain.TaskStatusDone {
		t.CompletedDate = nil
	}

	res, err := r.db.NamedExecContext(ctx,
		`UPDATE tasks
		 SET title = :title, description = :description, status = :status, priority = :priority,
		     assignee_id = :assignee_id, position = :position, start_date = :start_date,
		     due_date = :due_date, completed_date = :completed_date,
		     estimated_hours = :estimated_hours, actual_hours = :actual_hours,
		     updated_at = :updated_at
		 WHERE id = :id`, t)
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", t.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

// Archive soft-deletes a task.
func (r *TaskRepository) Archive(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE tasks SET is_archived = TRUE, updated_at = ? WHERE id = ?`),
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("archive task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
