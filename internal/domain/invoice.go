package domain

import "time"

// InvoiceStatus represents the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
	InvoiceVoid  InvoiceStatus = "void"
)

// Invoice is issued against a project/customer inside a tenant database.
// Numbers are generated app-side so they stay unique across the master and
// tenant database boundary.
type Invoice struct {
	ID             string        `json:"id" db:"id"`
	OrganizationID string        `json:"organization_id" db:"organization_id"`
	ProjectID      *string       `json:"project_id,omitempty" db:"project_id"`
	CustomerID     *string       `json:"customer_id,omitempty" db:"customer_id"`
	Number         string        `json:"number" db:"number"`
	Status         InvoiceStatus `json:"status" db:"status"`
	AmountCents    int64         `json:"amount_cents" db:"amount_cents"`
	Currency       string        `json:"currency" db:"currency"`
	IssuedAt       *time.Time    `json:"issued_at,omitempty" db:"issued_at"`
	DueAt          *time.Time    `json:"due_at,omitempty" db:"due_at"`
	PaidAt         *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}
