package tenantdb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// The DDL below is shared by both backends, so it sticks to the common
// SQL subset: TEXT primary keys (the app generates UUIDs), no serial columns,
// no database-side clocks. Statements are idempotent; provisioning may run
// them against a database that already has every table.

var identityStatements = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		slug              TEXT NOT NULL UNIQUE,
		description       TEXT,
		domain            TEXT,
		is_active         BOOLEAN NOT NULL DEFAULT TRUE,
		subscription_tier TEXT NOT NULL DEFAULT 'starter',
		max_users         INTEGER NOT NULL DEFAULT 3,
		max_projects      INTEGER NOT NULL DEFAULT 5,
		created_at        TIMESTAMP NOT NULL,
		updated_at        TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id),
		email           TEXT NOT NULL UNIQUE,
		username        TEXT NOT NULL UNIQUE,
		first_name      TEXT NOT NULL DEFAULT '',
		last_name       TEXT NOT NULL DEFAULT '',
		hashed_password TEXT NOT NULL,
		role            TEXT NOT NULL DEFAULT 'MEMBER',
		is_active       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMP NOT NULL,
		updated_at      TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_organization ON users (organization_id)`,
}

var businessStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id),
		first_name      TEXT NOT NULL,
		last_name       TEXT NOT NULL,
		email           TEXT NOT NULL UNIQUE,
		phone           TEXT,
		company_name    TEXT,
		customer_type   TEXT NOT NULL DEFAULT 'prospect',
		payment_terms   TEXT NOT NULL DEFAULT 'net_30',
		notes           TEXT,
		is_active       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMP NOT NULL,
		updated_at      TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id),
		owner_id        TEXT NOT NULL REFERENCES users(id),
		customer_id     TEXT REFERENCES customers(id),
		name            TEXT NOT NULL,
		slug            TEXT NOT NULL,
		description     TEXT,
		status          TEXT NOT NULL DEFAULT 'planning',
		priority        TEXT NOT NULL DEFAULT 'medium',
		start_date      TIMESTAMP,
		due_date        TIMESTAMP,
		completed_date  TIMESTAMP,
		budget_cents    BIGINT,
		is_archived     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMP NOT NULL,
		updated_at      TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_organization ON projects (organization_id)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL REFERENCES projects(id),
		parent_task_id  TEXT REFERENCES tasks(id),
		title           TEXT NOT NULL,
		description     TEXT,
		status          TEXT NOT NULL DEFAULT 'todo',
		priority        TEXT NOT NULL DEFAULT 'medium',
		assignee_id     TEXT REFERENCES users(id),
		created_by      TEXT NOT NULL REFERENCES users(id),
		position        INTEGER NOT NULL DEFAULT 0,
		start_date      TIMESTAMP,
		due_date        TIMESTAMP,
		completed_date  TIMESTAMP,
		estimated_hours REAL,
		actual_hours    REAL NOT NULL DEFAULT 0,
		is_archived     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMP NOT NULL,
		updated_at      TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks (project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks (assignee_id)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id),
		project_id      TEXT REFERENCES projects(id),
		customer_id     TEXT REFERENCES customers(id),
		number          TEXT NOT NULL UNIQUE,
		status          TEXT NOT NULL DEFAULT 'draft',
		amount_cents    BIGINT NOT NULL,
		currency        TEXT NOT NULL DEFAULT 'USD',
		issued_at       TIMESTAMP,
		due_at          TIMESTAMP,
		paid_at         TIMESTAMP,
		created_at      TIMESTAMP NOT NULL,
		updated_at      TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id),
		project_id      TEXT REFERENCES projects(id),
		created_by      TEXT NOT NULL REFERENCES users(id),
		title           TEXT NOT NULL,
		description     TEXT,
		goal_type       TEXT NOT NULL DEFAULT 'personal',
		status          TEXT NOT NULL DEFAULT 'not_started',
		start_date      TIMESTAMP NOT NULL,
		end_date        TIMESTAMP NOT NULL,
		target_value    REAL NOT NULL DEFAULT 0,
		current_value   REAL NOT NULL DEFAULT 0,
		unit            TEXT,
		completion_pct  REAL NOT NULL DEFAULT 0,
		is_archived     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMP NOT NULL,
		updated_at      TIMESTAMP NOT NULL
	)`,
}

// createMasterSchema creates the identity tables. The master database holds
// only organizations and users; business entities live per tenant.
func createMasterSchema(ctx context.Context, db *sqlx.DB) error {
	return execStatements(ctx, db, identityStatements)
}

// createTenantSchema creates the full tenant schema: mirrored identity tables
// plus every business table.
func createTenantSchema(ctx context.Context, db *sqlx.DB) error {
	if err := execStatements(ctx, db, identityStatements); err != nil {
		return err
	}
	return execStatements(ctx, db, businessStatements)
}

func execStatements(ctx context.Context, db *sqlx.DB, statements []string) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
