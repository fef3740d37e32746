package domain

import "time"

// GoalType distinguishes personal goals from team/organization goals.
type GoalType string

const (
	GoalPersonal GoalType = "personal"
	GoalTeam     GoalType = "team"
	GoalCompany  GoalType = "company"
)

// GoalStatus represents the progress state of a goal.
type GoalStatus string

const (
	GoalNotStarted GoalStatus = "not_started"
	GoalInProgress GoalStatus = "in_progress"
	GoalCompleted  GoalStatus = "completed"
	GoalAbandoned  GoalStatus = "abandoned"
)

// Goal is a quantitative or qualitative objective in a tenant database.
type Goal struct {
	ID             string     `json:"id" db:"id"`
	OrganizationID string     `json:"organization_id" db:"organization_id"`
	ProjectID      *string    `json:"project_id,omitempty" db:"project_id"`
	CreatedBy      string     `json:"created_by" db:"created_by"`
	Title          string     `json:"title" db:"title"`
	Description    *string    `json:"description,omitempty" db:"description"`
	GoalType       GoalType   `json:"goal_type" db:"goal_type"`
	Status         GoalStatus `json:"status" db:"status"`
	StartDate      time.Time  `json:"start_date" db:"start_date"`
	EndDate        time.Time  `json:"end_date" db:"end_date"`
	TargetValue    float64    `json:"target_value" db:"target_value"`
	CurrentValue   float64    `json:"current_value" db:"current_value"`
	Unit           *string    `json:"unit,omitempty" db:"unit"`
	CompletionPct  float64    `json:"completion_pct" db:"completion_pct"`
	IsArchived     bool       `json:"is_archived" db:"is_archived"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Progress returns the completion percentage for the goal's current and
// target values, clamped to [0, 100]. Goals without a target report 0.
func (g Goal) Progress() float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	pct := g.CurrentValue / g.TargetValue * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
