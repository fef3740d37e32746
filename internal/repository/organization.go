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

// OrganizationRepository handles organization identity rows in the master
// database.
type OrganizationRepository struct {
	db *sqlx.DB
}

// NewOrganizationRepository creates a new OrganizationRepository.
func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

const organizationColumns = `id, name, slug, description, domain, is_active, subscription_tier,
	max_users, max_projects, created_at, updated_at`

// Create inserts a new organization, assigning id and timestamps.
func (r *OrganizationRepository) Create(ctx context.Context, org domain.Organization) (*domain.Organization, error) {
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	if org.SubscriptionTier == "" {
		org.SubscriptionTier = domain.TierStarter
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO organizations (id, name, slug, description, domain, is_active,
		                            subscription_tier, max_users, max_projects, created_at, updated_at)
		 VALUES (:id, :name, :slug, :description, :domain, :is_active,
		         :subscription_tier, :max_users, :max_projects, :created_at, :updated_at)`, org)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: organization slug %q taken", domain.ErrConflict, org.Slug)
		}
		return nil, fmt.Errorf("create organization: %w", err)
	}
	return &org, nil
}

// GetByID retrieves an organization by id.
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.GetContext(ctx, &org, r.db.Rebind(
		`SELECT `+organizationColumns+` FROM organizations WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get organization %s: %w", id, err)
	}
	return &org, nil
}

// GetBySlug retrieves an organization by its slug.
func (r *OrganizationRepository) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.GetContext(ctx, &org, r.db.Rebind(
		`SELECT `+organizationColumns+` FROM organizations WHERE slug = ?`), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get organization by slug %s: %w", slug, err)
	}
	return &org, nil
}

// Update persists mutable organization fields.
func (r *OrganizationRepository) Update(ctx context.Context, org domain.Organization) (*domain.Organization, error) {
	org.UpdatedAt = time.Now().UTC()

	res, err := r.db.NamedExecContext(ctx,
		`UPDATE organizations
		 SET name = :name, description = :description, domain = :domain,
		     is_active = :is_active, subscription_tier = :subscription_tier,
		     max_users = :max_users, max_projects = :max_projects, updated_at = :updated_at
		 WHERE id = :id`, org)
	if err != nil {
		return nil, fmt.Errorf("update organization %s: %w", org.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return &org, nil
}
