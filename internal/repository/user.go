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

// UserRepository handles user identity rows in the master database.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, organization_id, email, username, first_name, last_name,
	hashed_password, role, is_active, created_at, updated_at`

// Create inserts a new user, assigning id and timestamps.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = domain.RoleMember
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO users (id, organization_id, email, username, first_name, last_name,
		                    hashed_password, role, is_active, created_at, updated_at)
		 VALUES (:id, :organization_id, :email, :username, :first_name, :last_name,
		         :hashed_password, :role, :is_active, :created_at, :updated_at)`, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email or username already registered", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// FindByID retrieves a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(
		`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id %s: %w", id, err)
	}
	return &user, nil
}

// FindByLogin retrieves a user by username or email.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?`), login, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by login: %w", err)
	}
	return &user, nil
}

// ListByOrganization retrieves all users of an organization.
func (r *UserRepository) ListByOrganization(ctx context.Context, orgID string) ([]domain.User, error) {
	users := []domain.User{}
	err := r.db.SelectContext(ctx, &users, r.db.Rebind(
		`SELECT `+userColumns+` FROM users WHERE organization_id = ? ORDER BY created_at`), orgID)
	if err != nil {
		return nil, fmt.Errorf("list users for organization %s: %w", orgID, err)
	}
	return users, nil
}
