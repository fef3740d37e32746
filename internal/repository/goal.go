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

// GoalRepository handles goal rows in a tenant database.
type GoalRepository struct {
	db *sqlx.DB
}

// NewGoalRepository creates a GoalRepository bound to a tenant handle.
func NewGoalRepository(db *sqlx.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `id, organization_id, project_id, created_by, title, description, goal_type,
	status, start_date, end_date, target_value, current_value, unit, completion_pct,
	is_archived, created_at, updated_at`

// Create inserts a new goal, assigning id and timestamps.
func (r *GoalRepository) Create(ctx context.Context, g domain.Goal) (*domain.Goal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	if g.GoalType == "" {
		g.GoalType = domain.GoalPersonal
	}
	if g.Status == "" {
		g.Status = domain.GoalNotStarted
	}
	g.CompletionPct = g.Progress()

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO goals (id, organization_id, project_id, created_by, title, description,
		                    goal_type, status, start_date, end_date, target_value, current_value,
		                    unit, completion_pct, is_archived, created_at, updated_at)
		 VALUES (:id, :organization_id, :project_id, :created_by, :title, :description,
		         :goal_type, :status, :start_date, :end_date, :target_value, :current_value,
		         :unit, :completion_pct, :is_archived, :created_at, :updated_at)`, g)
	if err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return &g, nil
}

// GetByID retrieves a goal by id.
func (r *GoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	var g domain.Goal
	err := r.db.GetContext(ctx, &g, r.db.Rebind(
		`SELECT `+goalColumns+` FROM goals WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get goal %s: %w", id, err)
	}
	return &g, nil
}

// List retrieves non-archived goals ordered by end date.
func (r *GoalRepository) List(ctx context.Context) ([]domain.Goal, error) {
	goals := []domain.Goal{}
	err := r.db.SelectContext(ctx, &goals,
		`SELECT `+goalColumns+` FROM goals WHERE is_archived = FALSE ORDER BY end_date`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// UpdateProgress records a new current value and recomputes the completion
// percentage server-side. A goal reaching 100% flips to completed.
func (r *GoalRepository) UpdateProgress(ctx context.Context, id string, currentValue float64) (*domain.Goal, error) {
	g, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g.CurrentValue = currentValue
	g.CompletionPct = g.Progress()
	if g.CompletionPct >= 100 {
		g.Status = domain.GoalCompleted
	} else if g.Status == domain.GoalNotStarted && currentValue > 0 {
		g.Status = domain.GoalInProgress
	}
	g.UpdatedAt = time.Now().UTC()

	_, err = r.db.NamedExecContext(ctx,
		`UPDATE goals
		 SET current_value = :current_value, completion_pct = :completion_pct,
		     status = :status, updated_at = :updated_at
		 WHERE id = :id`, g)
	if err != nil {
		return nil, fmt.Errorf("update goal %s progress: %w", id, err)
	}
	return g, nil
}

// Archive soft-deletes a goal.
func (r *GoalRepository) Archive(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE goals SET is_archived = TRUE, updated_at = ? WHERE id = ?`),
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("archive goal %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
