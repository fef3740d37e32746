package domain

import "time"

// CustomerType tracks where a customer sits in the sales funnel.
type CustomerType string

const (
	CustomerProspect CustomerType = "prospect"
	CustomerLead     CustomerType = "lead"
	CustomerClient   CustomerType = "client"
)

// Customer is a CRM record in a tenant database. Email is unique per tenant
// database only, so two organizations can hold the same address.
type Customer struct {
	ID             string       `json:"id" db:"id"`
	OrganizationID string       `json:"organization_id" db:"organization_id"`
	FirstName      string       `json:"first_name" db:"first_name"`
	LastName       string       `json:"last_name" db:"last_name"`
	Email          string       `json:"email" db:"email"`
	Phone          *string      `json:"phone,omitempty" db:"phone"`
	CompanyName    *string      `json:"company_name,omitempty" db:"company_name"`
	CustomerType   CustomerType `json:"customer_type" db:"customer_type"`
	PaymentTerms   string       `json:"payment_terms" db:"payment_terms"`
	Notes          *string      `json:"notes,omitempty" db:"notes"`
	IsActive       bool         `json:"is_active" db:"is_active"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}
