package tenantdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMasterIdentity(t *testing.T, m *Manager, orgID, userID string) {
	t.Helper()
	ctx := context.Background()

	_, err := m.Master().ExecContext(ctx,
		`INSERT INTO organizations (id, name, slug, is_active, created_at, updated_at)
		 VALUES (?, 'Acme', 'acme', TRUE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, orgID)
	require.NoError(t, err)

	_, err = m.Master().ExecContext(ctx,
		`INSERT INTO users (id, organization_id, email, username, hashed_password,
		                    role, is_active, created_at, updated_at)
		 VALUES (?, ?, 'ada@acme.test', 'ada', 'x', 'ADMIN', TRUE,
		         CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, userID, orgID)
	require.NoError(t, err)
}

func TestProvisioningMirrorsOrganizationRow(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	seedMasterIdentity(t, m, "org-1", "user-1")

	db, err := m.Tenant(ctx, "org-1")
	require.NoError(t, err)

	var slug string
	require.NoError(t, db.GetContext(ctx, &slug,
		`SELECT slug FROM organizations WHERE id = 'org-1'`))
	assert.Equal(t, "acme", slug)
}

func TestEnsureIdentityMirrorsUserRow(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	seedMasterIdentity(t, m, "org-1", "user-1")

	db, err := m.Tenant(ctx, "org-1")
	require.NoError(t, err)

	m.EnsureIdentity(ctx, "org-1", "user-1")

	var username string
	require.NoError(t, db.GetContext(ctx, &username,
		`SELECT username FROM users WHERE id = 'user-1'`))
	assert.Equal(t, "ada", username)
}

func TestEnsureIdentityIsIdempotent(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	seedMasterIdentity(t, m, "org-1", "user-1")

	db, err := m.Tenant(ctx, "org-1")
	require.NoError(t, err)

	m.EnsureIdentity(ctx, "org-1", "user-1")
	m.EnsureIdentity(ctx, "org-1", "user-1")

	var count int
	require.NoError(t, db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`))
	assert.Equal(t, 1, count)
}

func TestEnsureIdentityToleratesMissingMasterRows(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	// No identity rows in master; provisioning and reconciliation must not
	// fail the request path.
	db, err := m.Tenant(ctx, "org-ghost")
	require.NoError(t, err)

	m.EnsureIdentity(ctx, "org-ghost", "user-ghost")

	var count int
	require.NoError(t, db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`))
	assert.Zero(t, count)
}
