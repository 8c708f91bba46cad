package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/agentplans/internal/domain"
)

func TestAddDependency(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		writePlan(t, env.dir(0), name, "# "+name)
	}

	require.NoError(t, env.deps.AddDependency(ctx, "a.md", "b.md"))
	require.NoError(t, env.deps.AddDependency(ctx, "a.md", "b.md"))
	require.NoError(t, env.deps.AddDependency(ctx, "b.md", "c.md"))

	deps, err := env.deps.GetDependencies(ctx, "b.md")
	require.NoError(t, err)
	assert.Equal(t, []string{"c.md"}, deps.BlockedBy)
	assert.Equal(t, []string{"a.md"}, deps.Blocks)

	t.Run("self edge", func(t *testing.T) {
		assert.ErrorIs(t, env.deps.AddDependency(ctx, "a.md", "a.md"), domain.ErrDependencyCycle)
	})

	t.Run("cycle", func(t *testing.T) {
		assert.ErrorIs(t, env.deps.AddDependency(ctx, "c.md", "a.md"), domain.ErrDependencyCycle)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		assert.ErrorIs(t, env.deps.AddDependency(ctx, "a.md", "missing.md"), domain.ErrNotFound)
		assert.ErrorIs(t, env.deps.AddDependency(ctx, "missing.md", "a.md"), domain.ErrNotFound)
	})
}

func TestAddDependency_VirtualBlocker(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	writePlan(t, env.dir(0), "impl.md", "# Impl")
	identity := env.writeVirtualPlan(t, "Design", "Sketch")

	require.NoError(t, env.deps.AddDependency(ctx, "impl.md", identity))

	plan, err := env.plans.GetPlan(ctx, "impl.md")
	require.NoError(t, err)
	assert.Equal(t, []string{identity}, plan.Dependencies.BlockedBy)
}

func TestRemoveDependency_IsIdempotent(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	writePlan(t, env.dir(0), "a.md", "# A")
	writePlan(t, env.dir(0), "b.md", "# B")
	require.NoError(t, env.deps.AddDependency(ctx, "a.md", "b.md"))

	require.NoError(t, env.deps.RemoveDependency(ctx, "a.md", "b.md"))
	require.NoError(t, env.deps.RemoveDependency(ctx, "a.md", "b.md"))

	deps, err := env.deps.GetDependencies(ctx, "a.md")
	require.NoError(t, err)
	assert.Empty(t, deps.BlockedBy)
}

func TestGraph(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	for _, name := range []string{"api.md", "db.md", "ui.md"} {
		writePlan(t, env.dir(0), name, "# "+name)
	}
	require.NoError(t, env.deps.AddDependency(ctx, "api.md", "db.md"))
	require.NoError(t, env.deps.AddDependency(ctx, "ui.md", "api.md"))
	_, err := env.plans.UpdateStatus(ctx, "db.md", "completed")
	require.NoError(t, err)

	graph, err := env.deps.Graph(ctx)
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 3)
	assert.Equal(t, []domain.DependencyEdge{
		{BlockedBy: "db.md", Plan: "api.md"},
		{BlockedBy: "api.md", Plan: "ui.md"},
	}, graph.Edges)

	blocked := map[string]bool{}
	for _, n := range graph.Nodes {
		blocked[n.Filename] = n.Blocked
	}
	assert.Equal(t, map[string]bool{"api.md": false, "db.md": false, "ui.md": true}, blocked)
}
