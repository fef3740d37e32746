package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/repository"
)

func TestCustomerDuplicateEmailConflicts(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewCustomerRepository(tenant.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.Customer{
		OrganizationID: tenant.OrgID,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		IsActive:       true,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, domain.Customer{
		OrganizationID: tenant.OrgID,
		FirstName:      "Ada",
		LastName:       "Byron",
		Email:          "ada@example.com",
		IsActive:       true,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCustomerEmailUniquePerTenantOnly(t *testing.T) {
	m := newTestManager(t)
	first := newTestTenant(t, m, "acme")
	second := newTestTenant(t, m, "globex")
	ctx := context.Background()

	_, err := repository.NewCustomerRepository(first.DB).Create(ctx, domain.Customer{
		OrganizationID: first.OrgID,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "shared@example.com",
		IsActive:       true,
	})
	require.NoError(t, err)

	// The unique constraint lives in each tenant database, so another
	// organization can hold the same address.
	_, err = repository.NewCustomerRepository(second.DB).Create(ctx, domain.Customer{
		OrganizationID: second.OrgID,
		FirstName:      "Grace",
		LastName:       "Hopper",
		Email:          "shared@example.com",
		IsActive:       true,
	})
	assert.NoError(t, err)
}

func TestCustomerDeactivateKeepsRow(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewCustomerRepository(tenant.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.Customer{
		OrganizationID: tenant.OrgID,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		IsActive:       true,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(ctx, created.ID))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCustomerDefaults(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewCustomerRepository(tenant.DB)

	created, err := repo.Create(context.Background(), domain.Customer{
		OrganizationID: tenant.OrgID,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		IsActive:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CustomerProspect, created.CustomerType)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCustomerGetMissing(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewCustomerRepository(tenant.DB)

	_, err := repo.GetByID(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
