package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/repository"
)

func TestTaskCompletionStampsDate(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	projects := repository.NewProjectRepository(tenant.DB)
	tasks := repository.NewTaskRepository(tenant.DB)
	ctx := context.Background()

	p := createProject(t, projects, tenant, "website")

	task, err := tasks.Create(ctx, domain.Task{
		ProjectID: p.ID,
		Title:     "deploy",
		CreatedBy: tenant.UserID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusTodo, task.Status)
	assert.Nil(t, task.CompletedDate)

	task.Status = domain.TaskStatusDone
	done, err := tasks.Update(ctx, *task)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedDate)

	// Reopening clears the completion date.
	done.Status = domain.TaskStatusInProgress
	reopened, err := tasks.Update(ctx, *done)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedDate)
}

func TestTaskListByProjectOrdersByPosition(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	projects := repository.NewProjectRepository(tenant.DB)
	tasks := repository.NewTaskRepository(tenant.DB)
	ctx := context.Background()

	p := createProject(t, projects, tenant, "website")

	for i, title := range []string{"third", "first", "second"} {
		positions := []int{2, 0, 1}
		_, err := tasks.Create(ctx, domain.Task{
			ProjectID: p.ID,
			Title:     title,
			CreatedBy: tenant.UserID,
			Position:  positions[i],
		})
		require.NoError(t, err)
	}

	list, err := tasks.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Title)
	assert.Equal(t, "second", list[1].Title)
	assert.Equal(t, "third", list[2].Title)
}

func TestTaskArchiveExcludedFromProjectList(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	projects := repository.NewProjectRepository(tenant.DB)
	tasks := repository.NewTaskRepository(tenant.DB)
	ctx := context.Background()

	p := createProject(t, projects, tenant, "website")
	task, err := tasks.Create(ctx, domain.Task{
		ProjectID: p.ID,
		Title:     "deploy",
		CreatedBy: tenant.UserID,
	})
	require.NoError(t, err)

	require.NoError(t, tasks.Archive(ctx, task.ID))

	list, err := tasks.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
