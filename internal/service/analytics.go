package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// TenantSummary aggregates activity across one tenant database.
type TenantSummary struct {
	Projects struct {
		Total    int `json:"total"`
		Active   int `json:"active"`
		Archived int `json:"archived"`
	} `json:"projects"`
	Tasks struct {
		Open    int `json:"open"`
		Done    int `json:"done"`
		Overdue int `json:"overdue"`
	} `json:"tasks"`
	Customers struct {
		Active int `json:"active"`
	} `json:"customers"`
	Invoices struct {
		Total            int   `json:"total"`
		OutstandingCents int64 `json:"outstanding_cents"`
		PaidCents        int64 `json:"paid_cents"`
	} `json:"invoices"`
	Goals struct {
		Active        int     `json:"active"`
		AvgCompletion float64 `json:"avg_completion"`
	} `json:"goals"`
}

// AnalyticsService computes per-tenant aggregates. It carries no state; the
// tenant handle changes per request and is passed in.
type AnalyticsService struct{}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{}
}

// Summary runs the aggregation queries against one tenant database.
func (s *AnalyticsService) Summary(ctx context.Context, db *sqlx.DB) (*TenantSummary, error) {
	var sum TenantSummary

	counts := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&sum.Projects.Total, `SELECT COUNT(*) FROM projects`, nil},
		{&sum.Projects.Active, `SELECT COUNT(*) FROM projects WHERE is_archived = FALSE`, nil},
		{&sum.Projects.Archived, `SELECT COUNT(*) FROM projects WHERE is_archived = TRUE`, nil},
		{&sum.Tasks.Open, `SELECT COUNT(*) FROM tasks WHERE is_archived = FALSE AND status IN ('todo', 'in_progress', 'in_review')`, nil},
		{&sum.Tasks.Done, `SELECT COUNT(*) FROM tasks WHERE is_archived = FALSE AND status = 'done'`, nil},
		{&sum.Tasks.Overdue, `SELECT COUNT(*) FROM tasks WHERE is_archived = FALSE AND status <> 'done' AND due_date IS NOT NULL AND due_date < ?`, []any{time.Now().UTC()}},
		{&sum.Customers.Active, `SELECT COUNT(*) FROM customers WHERE is_active = TRUE`, nil},
		{&sum.Invoices.Total, `SELECT COUNT(*) FROM invoices`, nil},
		{&sum.Goals.Active, `SELECT COUNT(*) FROM goals WHERE is_archived = FALSE AND status <> 'completed'`, nil},
	}

	for _, c := range counts {
		if err := db.GetContext(ctx, c.dest, db.Rebind(c.query), c.args...); err != nil {
			return nil, fmt.Errorf("tenant summary: %w", err)
		}
	}

	err := db.GetContext(ctx, &sum.Invoices.OutstandingCents,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM invoices WHERE status = 'sent'`)
	if err != nil {
		return nil, fmt.Errorf("tenant summary outstanding: %w", err)
	}

	err = db.GetContext(ctx, &sum.Invoices.PaidCents,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM invoices WHERE status = 'paid'`)
	if err != nil {
		return nil, fmt.Errorf("tenant summary paid: %w", err)
	}

	err = db.GetContext(ctx, &sum.Goals.AvgCompletion,
		`SELECT COALESCE(AVG(completion_pct), 0) FROM goals WHERE is_archived = FALSE`)
	if err != nil {
		return nil, fmt.Errorf("tenant summary goals: %w", err)
	}

	return &sum, nil
}
