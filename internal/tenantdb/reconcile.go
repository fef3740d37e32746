package tenantdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/zphere-app/zphere/internal/domain"
)

// EnsureIdentity mirrors the organization row and, when userID is non-empty,
// the acting user's row from the master database into the tenant database.
// Tenant-side business rows carry foreign keys to both, so this must run
// before the first tenant write that references them.
//
// Best effort by design: a failed copy is logged and swallowed so the request
// can proceed, at the risk of a foreign-key violation later. Callers that
// need a hard guarantee should check the tenant database themselves.
func (m *Manager) EnsureIdentity(ctx context.Context, orgID, userID string) {
	tdb, err := m.Tenant(ctx, orgID)
	if err != nil {
		slog.Warn("identity reconciliation skipped, tenant database unavailable",
			"org_id", orgID, "error", err)
		return
	}

	if err := m.mirrorOrganization(ctx, tdb, orgID); err != nil {
		slog.Warn("mirror organization into tenant database failed",
			"org_id", orgID, "error", err)
	}

	if userID == "" {
		return
	}
	if err := m.mirrorUser(ctx, tdb, userID); err != nil {
		slog.Warn("mirror user into tenant database failed",
			"org_id", orgID, "user_id", userID, "error", err)
	}
}

// mirrorOrganization copies the organization row from master when the tenant
// database does not have it. A master-side miss is not an error; there is
// simply nothing to copy yet.
func (m *Manager) mirrorOrganization(ctx context.Context, tdb *sqlx.DB, orgID string) error {
	exists, err := rowExists(ctx, tdb, `SELECT 1 FROM organizations WHERE id = ?`, orgID)
	if err != nil {
		return fmt.Errorf("check tenant organization: %w", err)
	}
	if exists {
		return nil
	}

	var org domain.Organization
	err = m.master.GetContext(ctx, &org, m.master.Rebind(
		`SELECT id, name, slug, description, domain, is_active, subscription_tier,
		        max_users, max_projects, created_at, updated_at
		 FROM organizations WHERE id = ?`), orgID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load master organization: %w", err)
	}

	_, err = tdb.NamedExecContext(ctx,
		`INSERT INTO organizations (id, name, slug, description, domain, is_active,
		                            subscription_tier, max_users, max_projects, created_at, updated_at)
		 VALUES (:id, :name, :slug, :description, :domain, :is_active,
		         :subscription_tier, :max_users, :max_projects, :created_at, :updated_at)`, org)
	if err != nil {
		return fmt.Errorf("insert tenant organization: %w", err)
	}

	slog.Info("organization mirrored into tenant database", "org_id", orgID)
	return nil
}

func (m *Manager) mirrorUser(ctx context.Context, tdb *sqlx.DB, userID string) error {
	exists, err := rowExists(ctx, tdb, `SELECT 1 FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("check tenant user: %w", err)
	}
	if exists {
		return nil
	}

	var user domain.User
	err = m.master.GetContext(ctx, &user, m.master.Rebind(
		`SELECT id, organization_id, email, username, first_name, last_name,
		        hashed_password, role, is_active, created_at, updated_at
		 FROM users WHERE id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load master user: %w", err)
	}

	_, err = tdb.NamedExecContext(ctx,
		`INSERT INTO users (id, organization_id, email, username, first_name, last_name,
		                    hashed_password, role, is_active, created_at, updated_at)
		 VALUES (:id, :organization_id, :email, :username, :first_name, :last_name,
		         :hashed_password, :role, :is_active, :created_at, :updated_at)`, user)
	if err != nil {
		return fmt.Errorf("insert tenant user: %w", err)
	}

	slog.Info("user mirrored into tenant database", "user_id", userID)
	return nil
}

func rowExists(ctx context.Context, db *sqlx.DB, query string, arg any) (bool, error) {
	var one int
	err := db.GetContext(ctx, &one, db.Rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
