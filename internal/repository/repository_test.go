package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/repository"
	"github.com/zphere-app/zphere/internal/tenantdb"
)

// testTenant is a provisioned tenant database with its identity rows in
// place, ready for business-entity tests.
type testTenant struct {
	DB     *sqlx.DB
	OrgID  string
	UserID string
}

func newTestManager(t *testing.T) *tenantdb.Manager {
	t.Helper()

	m, err := tenantdb.New(context.Background(), tenantdb.Config{
		MasterURL: filepath.Join(t.TempDir(), "master.db"),
		Prefix:    "tenant_",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func newTestTenant(t *testing.T, m *tenantdb.Manager, slug string) testTenant {
	t.Helper()
	ctx := context.Background()

	org, err := repository.NewOrganizationRepository(m.Master()).Create(ctx, domain.Organization{
		Name:     slug,
		Slug:     slug,
		IsActive: true,
	})
	require.NoError(t, err)

	user, err := repository.NewUserRepository(m.Master()).Create(ctx, domain.User{
		OrganizationID: org.ID,
		Email:          slug + "-admin@example.com",
		Username:       slug + "-admin",
		HashedPassword: "x",
		Role:           domain.RoleAdmin,
		IsActive:       true,
	})
	require.NoError(t, err)

	db, err := m.Tenant(ctx, org.ID)
	require.NoError(t, err)
	m.EnsureIdentity(ctx, org.ID, user.ID)

	return testTenant{DB: db, OrgID: org.ID, UserID: user.ID}
}
