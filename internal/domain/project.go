package domain

import "time"

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// ProjectPriority represents the relative priority of a project.
type ProjectPriority string

const (
	PriorityLow      ProjectPriority = "low"
	PriorityMedium   ProjectPriority = "medium"
	PriorityHigh     ProjectPriority = "high"
	PriorityCritical ProjectPriority = "critical"
)

// Project lives in a tenant database and references the mirrored
// organization/user rows there.
type Project struct {
	ID             string          `json:"id" db:"id"`
	OrganizationID string          `json:"organization_id" db:"organization_id"`
	OwnerID        string          `json:"owner_id" db:"owner_id"`
	CustomerID     *string         `json:"customer_id,omitempty" db:"customer_id"`
	Name           string          `json:"name" db:"name"`
	Slug           string          `json:"slug" db:"slug"`
	Description    *string         `json:"description,omitempty" db:"description"`
	Status         ProjectStatus   `json:"status" db:"status"`
	Priority       ProjectPriority `json:"priority" db:"priority"`
	StartDate      *time.Time      `json:"start_date,omitempty" db:"start_date"`
	DueDate        *time.Time      `json:"due_date,omitempty" db:"due_date"`
	CompletedDate  *time.Time      `json:"completed_date,omitempty" db:"completed_date"`
	BudgetCents    *int64          `json:"budget_cents,omitempty" db:"budget_cents"`
	IsArchived     bool            `json:"is_archived" db:"is_archived"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}
