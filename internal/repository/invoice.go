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

// InvoiceRepository handles invoice rows in a tenant database.
type InvoiceRepository struct {
	db *sqlx.DB
}

// NewInvoiceRepository creates an InvoiceRepository bound to a tenant handle.
func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = `id, organization_id, project_id, customer_id, number, status,
	amount_cents, currency, issued_at, due_at, paid_at, created_at, updated_at`

// Create inserts a new invoice. The number must already be assigned.
func (r *InvoiceRepository) Create(ctx context.Context, inv domain.Invoice) (*domain.Invoice, error) {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	if inv.Status == "" {
		inv.Status = domain.InvoiceDraft
	}
	if inv.Currency == "" {
		inv.Currency = "USD"
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO invoices (id, organization_id, project_id, customer_id, number, status,
		                       amount_cents, currency, issued_at, due_at, paid_at, created_at, updated_at)
		 VALUES (:id, :organization_id, :project_id, :customer_id, :number, :status,
		         :amount_cents, :currency, :issued_at, :due_at, :paid_at, :created_at, :updated_at)`, inv)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: invoice number %q already exists", domain.ErrConflict, inv.Number)
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return &inv, nil
}

// GetByID retrieves an invoice by id.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv, r.db.Rebind(
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invoice %s: %w", id, err)
	}
	return &inv, nil
}

// List retrieves invoices, newest first.
func (r *InvoiceRepository) List(ctx context.Context) ([]domain.Invoice, error) {
	invoices := []domain.Invoice{}
	err := r.db.SelectContext(ctx, &invoices,
		`SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// SetStatus transitions an invoice. Moving to paid stamps paid_at, moving to
// sent stamps issued_at when unset.
func (r *InvoiceRepository) SetStatus(ctx context.Context, id string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	inv, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv.Status = status
	inv.UpdatedAt = now
	switch status {
	case domain.InvoiceSent:
		if inv.IssuedAt == nil {
			inv.IssuedAt = &now
		}
	case domain.InvoicePaid:
		inv.PaidAt = &now
	}

	_, err = r.db.NamedExecContext(ctx,
		`UPDATE invoices
		 SET status = :status, issued_at = :issued_at, paid_at = :paid_at, updated_at = :updated_at
		 WHERE id = :id`, inv)
	if err != nil {
		return nil, fmt.Errorf("set invoice %s status: %w", id, err)
	}
	return inv, nil
}
