package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/repository"
)

func createProject(t *testing.T, repo *repository.ProjectRepository, tenant testTenant, name string) *domain.Project {
	t.Helper()
	p, err := repo.Create(context.Background(), domain.Project{
		OrganizationID: tenant.OrgID,
		OwnerID:        tenant.UserID,
		Name:           name,
		Slug:           name,
	})
	require.NoError(t, err)
	return p
}

func TestProjectCreateDefaults(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewProjectRepository(tenant.DB)

	p := createProject(t, repo, tenant, "website")
	assert.Equal(t, domain.ProjectStatusPlanning, p.Status)
	assert.Equal(t, domain.PriorityMedium, p.Priority)
	assert.False(t, p.IsArchived)
	assert.NotEmpty(t, p.ID)
}

func TestProjectArchiveHidesFromList(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewProjectRepository(tenant.DB)
	ctx := context.Background()

	p := createProject(t, repo, tenant, "website")
	createProject(t, repo, tenant, "app")

	require.NoError(t, repo.Archive(ctx, p.ID))

	visible, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// The archived row is still retrievable directly.
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)
}

func TestProjectArchiveMissing(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewProjectRepository(tenant.DB)

	err := repo.Archive(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectUpdate(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewProjectRepository(tenant.DB)
	ctx := context.Background()

	p := createProject(t, repo, tenant, "website")
	p.Status = domain.ProjectStatusActive
	p.Priority = domain.PriorityHigh

	updated, err := repo.Update(ctx, *p)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusActive, updated.Status)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
}
