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

// CustomerRepository handles CRM rows in a tenant database. The email unique
// constraint lives in the tenant database, so uniqueness is per organization.
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a CustomerRepository bound to a tenant handle.
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, organization_id, first_name, last_name, email, phone, company_name,
	customer_type, payment_terms, notes, is_active, created_at, updated_at`

// Create inserts a new customer. A duplicate email within the same tenant
// database yields ErrConflict.
func (r *CustomerRepository) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.CustomerType == "" {
		c.CustomerType = domain.CustomerProspect
	}
	if c.PaymentTerms == "" {
		c.PaymentTerms = "net_30"
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO customers (id, organization_id, first_name, last_name, email, phone,
		                        company_name, customer_type, payment_terms, notes, is_active,
		                        created_at, updated_at)
		 VALUES (:id, :organization_id, :first_name, :last_name, :email, :phone,
		         :company_name, :customer_type, :payment_terms, :notes, :is_active,
		         :created_at, :updated_at)`, c)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: customer email %q already exists", domain.ErrConflict, c.Email)
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &c, nil
}

// GetByID retrieves a customer by id.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.GetContext(ctx, &c, r.db.Rebind(
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get customer %s: %w", id, err)
	}
	return &c, nil
}

// List retrieves customers, newest first. Deactivated customers are excluded
// unless includeInactive is set.
func (r *CustomerRepository) List(ctx context.Context, includeInactive bool) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	customers := []domain.Customer{}
	if err := r.db.SelectContext(ctx, &customers, query); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// Update persists mutable customer fields.
func (r *CustomerRepository) Update(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	c.UpdatedAt = time.Now().UTC()

	res, err := r.db.NamedExecContext(ctx,
		`UPDATE customers
		 SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
		     company_name = :company_name, customer_type = :customer_type,
		     payment_terms = :payment_terms, notes = :notes, updated_at = :updated_at
		 WHERE id = :id`, c)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: customer email %q already exists", domain.ErrConflict, c.Email)
		}
		return nil, fmt.Errorf("update customer %s: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

// Deactivate soft-deletes a customer. The row stays in place with is_active
// cleared.
func (r *CustomerRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE customers SET is_active = FALSE, updated_at = ? WHERE id = ?`),
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deactivate customer %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
