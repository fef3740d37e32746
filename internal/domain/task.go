package domain

import "time"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusInReview   TaskStatus = "in_review"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Task belongs to a project inside a tenant database. Assignee and creator
// reference mirrored user rows, which is why identity reconciliation must run
// before task writes.
type Task struct {
	ID             string          `json:"id" db:"id"`
	ProjectID      string          `json:"project_id" db:"project_id"`
	ParentTaskID   *string         `json:"parent_task_id,omitempty" db:"parent_task_id"`
	Title          string          `json:"title" db:"title"`
	Description    *string         `json:"description,omitempty" db:"description"`
	Status         TaskStatus      `json:"status" db:"status"`
	Priority       ProjectPriority `json:"priority" db:"priority"`
	AssigneeID     *string         `json:"assignee_id,omitempty" db:"assignee_id"`
	CreatedBy      string          `json:"created_by" db:"created_by"`
	Position       int             `json:"position" db:"position"`
	StartDate      *time.Time      `json:"start_date,omitempty" db:"start_date"`
	DueDate        *time.Time      `json:"due_date,omitempty" db:"due_date"`
	CompletedDate  *time.Time      `json:"completed_date,omitempty" db:"completed_date"`
	EstimatedHours *float64        `json:"estimated_hours,omitempty" db:"estimated_hours"`
	ActualHours    float64         `json:"actual_hours" db:"actual_hours"`
	IsArchived     bool            `json:"is_archived" db:"is_archived"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}
