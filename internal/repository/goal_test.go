package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/repository"
)

func createGoal(t *testing.T, repo *repository.GoalRepository, tenant testTenant, target float64) *domain.Goal {
	t.Helper()
	now := time.Now().UTC()
	g, err := repo.Create(context.Background(), domain.Goal{
		OrganizationID: tenant.OrgID,
		CreatedBy:      tenant.UserID,
		Title:          "close deals",
		StartDate:      now,
		EndDate:        now.AddDate(0, 3, 0),
		TargetValue:    target,
	})
	require.NoError(t, err)
	return g
}

func TestGoalProgressTransitions(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewGoalRepository(tenant.DB)
	ctx := context.Background()

	g := createGoal(t, repo, tenant, 10)
	assert.Equal(t, domain.GoalNotStarted, g.Status)
	assert.Zero(t, g.CompletionPct)

	half, err := repo.UpdateProgress(ctx, g.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalInProgress, half.Status)
	assert.InDelta(t, 50, half.CompletionPct, 0.01)

	full, err := repo.UpdateProgress(ctx, g.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalCompleted, full.Status)
	assert.InDelta(t, 100, full.CompletionPct, 0.01)
}

func TestGoalProgressClamped(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewGoalRepository(tenant.DB)

	g := createGoal(t, repo, tenant, 10)
	over, err := repo.UpdateProgress(context.Background(), g.ID, 25)
	require.NoError(t, err)
	assert.InDelta(t, 100, over.CompletionPct, 0.01)
}

func TestGoalWithoutTargetReportsZero(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewGoalRepository(tenant.DB)

	g := createGoal(t, repo, tenant, 0)
	updated, err := repo.UpdateProgress(context.Background(), g.ID, 5)
	require.NoError(t, err)
	assert.Zero(t, updated.CompletionPct)
	assert.Equal(t, domain.GoalInProgress, updated.Status)
}

func TestGoalArchiveHidesFromList(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewGoalRepository(tenant.DB)
	ctx := context.Background()

	g := createGoal(t, repo, tenant, 10)
	require.NoError(t, repo.Archive(ctx, g.ID))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
