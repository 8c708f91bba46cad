package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/agentplans/internal/domain"
)

func TestAddSubtask_KeepsInsertionOrder(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	writePlan(t, env.dir(0), "beta.md", "# Beta")

	for _, title := range []string{"first", "second", "third"} {
		_, err := env.subtasks.AddSubtask(ctx, "beta.md", AddSubtaskParams{Title: title})
		require.NoError(t, err)
	}

	subtasks, err := env.subtasks.ListSubtasks(ctx, "beta.md")
	require.NoError(t, err)
	require.Len(t, subtasks, 3)

	titles := []string{subtasks[0].Title, subtasks[1].Title, subtasks[2].Title}
	assert.Equal(t, []string{"first", "second", "third"}, titles)
	assert.Less(t, subtasks[0].SortOrder, subtasks[1].SortOrder)
	assert.Less(t, subtasks[1].SortOrder, subtasks[2].SortOrder)
	for _, st := range subtasks {
		assert.NotEmpty(t, st.ID)
		assert.Equal(t, domain.SubtaskTodo, st.Status)
	}
}

func TestAddSubtask_Validation(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	writePlan(t, env.dir(0), "beta.md", "# Beta")

	_, err := env.subtasks.AddSubtask(ctx, "beta.md", AddSubtaskParams{Title: "  "})
	assert.Error(t, err)

	_, err = env.subtasks.AddSubtask(ctx, "missing.md", AddSubtaskParams{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.subtasks.AddSubtask(ctx, "beta.md", AddSubtaskParams{Title: "x", Status: "blocked"})
	assert.Error(t, err)
}

func TestUpdateSubtask(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	writePlan(t, env.dir(0), "beta.md", "# Beta")
	assignee := "kim"
	_, err := env.subtasks.AddSubtask(ctx, "beta.md", AddSubtaskParams{ID: "s1", Title: "draft", Assignee: &assignee})
	require.NoError(t, err)
	_, err = env.subtasks.AddSubtask(ctx, "beta.md", AddSubtaskParams{ID: "s2", Title: "review"})
	require.NoError(t, err)

	title := "final draft"
	updated, err := env.subtasks.UpdateSubtask(ctx, "beta.md", "s1", UpdateSubtaskParams{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "final draft", updated.Title)
	require.NotNil(t, updated.Assignee)
	assert.Equal(t, "kim", *updated.Assignee)
	assert.Equal(t, 1, updated.SortOrder)

	empty := ""
	updated, err = env.subtasks.UpdateSubtask(ctx, "beta.md", "s1", UpdateSubtaskParams{Assignee: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.Assignee)

	_, err = env.subtasks.UpdateSubtask(ctx, "beta.md", "nope", UpdateSubtaskParams{Title: &title})
	assert.ErrorIs(t, err, domain.ErrSubtaskNotFound)
}

func TestToggleSubtask_UpdatesProgress(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	writePlan(t, env.dir(0), "beta.md", "# Beta")
	for _, id := range []string{"a", "b", "c"} {
		_, err := env.subtasks.AddSubtask(ctx, "beta.md", AddSubtaskParams{ID: id, Title: id})
		require.NoError(t, err)
	}

	toggled, err := env.subtasks.ToggleSubtask(ctx, "beta.md", "b")
	require.NoError(t, err)
	assert.Equal(t, domain.SubtaskDone, toggled.Status)

	progress, err := env.subtasks.Progress(ctx, "beta.md")
	require.NoError(t, err)
	assert.Equal(t, domain.Progress{Done: 1, Percentage: 33, Total: 3}, progress)

	plan, err := env.plans.GetPlan(ctx, "beta.md")
	require.NoError(t, err)
	assert.Equal(t, progress, plan.Metadata.Progress)

	toggled, err = env.subtasks.ToggleSubtask(ctx, "beta.md", "b")
	require.NoError(t, err)
	assert.Equal(t, domain.SubtaskTodo, toggled.Status)
}

func TestDeleteSubtask_IsIdempotent(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	writePlan(t, env.dir(0), "beta.md", "# Beta")
	_, err := env.subtasks.AddSubtask(ctx, "beta.md", AddSubtaskParams{ID: "s1", Title: "x"})
	require.NoError(t, err)

	require.NoError(t, env.subtasks.DeleteSubtask(ctx, "beta.md", "s1"))
	require.NoError(t, env.subtasks.DeleteSubtask(ctx, "beta.md", "s1"))

	subtasks, err := env.subtasks.ListSubtasks(ctx, "beta.md")
	require.NoError(t, err)
	assert.Empty(t, subtasks)
}
