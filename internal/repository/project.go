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

// ProjectRepository handles project rows in a tenant database.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a ProjectRepository bound to a tenant handle.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, organization_id, owner_id, customer_id, name, slug, description,
	status, priority, start_date, due_date, completed_date, budget_cents, is_archived,
	created_at, updated_at`

// Create inserts a new project, assigning id and timestamps.
func (r *ProjectRepository) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectStatusPlanning
	}
	if p.Priority == "" {
		p.Priority = domain.PriorityMedium
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO projects (id, organization_id, owner_id, customer_id, name, slug, description,
		                       status, priority, start_date, due_date, completed_date, budget_cents,
		                       is_archived, created_at, updated_at)
		 VALUES (:id, :organization_id, :owner_id, :customer_id, :name, :slug, :description,
		         :status, :priority, :start_date, :due_date, :completed_date, :budget_cents,
		         :is_archived, :created_at, :updated_at)`, p)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &p, nil
}

// GetByID retrieves a project by id.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	err := r.db.GetContext(ctx, &p, r.db.Rebind(
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return &p, nil
}

// List retrieves projects, newest first. Archived projects are excluded
// unless includeArchived is set.
func (r *ProjectRepository) List(ctx context.Context, includeArchived bool) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if !includeArchived {
		query += ` WHERE is_archived = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	projects := []domain.Project{}
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Update persists mutable project fields.
func (r *ProjectRepository) Update(ctx context.Context, p domain.Project) (*domain.Project, error) {
	p.UpdatedAt = time.Now().UTC()

	res, err := r.db.NamedExecContext(ctx,
		`UPDATE projects
		 SET name = :name, description = :description, customer_id = :customer_id,
		     status = :status, priority = :priority, start_date = :start_date,
		     due_date = :due_date, completed_date = :completed_date,
		     budget_cents = :budget_cents, updated_at = :updated_at
		 WHERE id = :id`, p)
	if err != nil {
		return nil, fmt.Errorf("update project %s: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// Archive soft-deletes a project. The row stays in place with is_archived set.
func (r *ProjectRepository) Archive(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE projects SET is_archived = TRUE, updated_at = ? WHERE id = ?`),
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("archive project %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
