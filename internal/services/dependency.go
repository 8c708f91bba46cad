package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/ports"
)

// DependencyService manages blocked-by edges between plans
type DependencyService struct {
	plans *PlanService
	store ports.DependencyStore
}

// NewDependencyService creates a new DependencyService
func NewDependencyService(plans *PlanService, store ports.DependencyStore) *DependencyService {
	return &DependencyService{
		plans: plans,
		store: store,
	}
}

// AddDependency records that identity is blocked by blockedBy. Both plans
// must exist. Edges closing a cycle are rejected.
func (s *DependencyService) AddDependency(ctx context.Context, identity, blockedBy string) error {
	if identity == blockedBy {
		if err := domain.ValidateIdentity(identity); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s cannot block itself", domain.ErrDependencyCycle, identity)
	}

	targets := make([]*planTarget, 0, 2)
	for _, name := range []string{identity, blockedBy} {
		target, err := s.plans.resolveTarget(ctx, name)
		if err != nil {
			return err
		}
		targets = append(targets, target)
	}

	edges, err := s.store.ListDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list dependencies: %w", err)
	}
	if reaches(edges, blockedBy, identity) {
		return fmt.Errorf("%w: %s already depends on %s", domain.ErrDependencyCycle, blockedBy, identity)
	}

	for _, target := range targets {
		if _, err := s.plans.ensureRow(ctx, target, nil); err != nil {
			return err
		}
	}

	logging.Logger.Info("Adding dependency", "plan", identity, "blockedBy", blockedBy)
	if err := s.store.AddDependency(ctx, identity, blockedBy); err != nil {
		return fmt.Errorf("failed to add dependency: %w", err)
	}
	return nil
}

// RemoveDependency deletes an edge. Removing a missing edge succeeds.
func (s *DependencyService) RemoveDependency(ctx context.Context, identity, blockedBy string) error {
	for _, name := range []string{identity, blockedBy} {
		if err := domain.ValidateIdentity(name); err != nil {
			return err
		}
	}
	logging.Logger.Info("Removing dependency", "plan", identity, "blockedBy", blockedBy)

	if err := s.store.RemoveDependency(ctx, identity, blockedBy); err != nil {
		return fmt.Errorf("failed to remove dependency: %w", err)
	}
	return nil
}

// GetDependencies returns both edge directions of a plan
func (s *DependencyService) GetDependencies(ctx context.Context, identity string) (domain.Dependencies, error) {
	if err := domain.ValidateIdentity(identity); err != nil {
		return domain.Dependencies{}, err
	}
	deps, err := s.store.GetDependencies(ctx, identity)
	if err != nil {
		return domain.Dependencies{}, fmt.Errorf("failed to get dependencies: %w", err)
	}
	return deps, nil
}

// Graph returns the current plans and the edges between them
func (s *DependencyService) Graph(ctx context.Context) (*DependencyGraph, error) {
	plans, err := s.plans.ListPlans(ctx)
	if err != nil {
		return nil, err
	}

	status := make(map[string]string, len(plans))
	for _, p := range plans {
		status[p.Filename] = p.Metadata.Status
	}

	graph := &DependencyGraph{}
	for _, p := range plans {
		node := GraphNode{
			Filename: p.Filename,
			ReadOnly: p.ReadOnly,
			Status:   p.Metadata.Status,
			Title:    p.Title,
		}
		for _, blocker := range p.Dependencies.BlockedBy {
			blockerStatus, ok := status[blocker]
			if !ok {
				continue
			}
			node.BlockedBy = append(node.BlockedBy, blocker)
			if blockerStatus != domain.StatusCompleted {
				node.Blocked = true
			}
			graph.Edges = append(graph.Edges, domain.DependencyEdge{BlockedBy: blocker, Plan: p.Filename})
		}
		for _, blocked := range p.Dependencies.Blocks {
			if _, ok := status[blocked]; ok {
				node.Blocks = append(node.Blocks, blocked)
			}
		}
		graph.Nodes = append(graph.Nodes, node)
	}

	slices.SortFunc(graph.Edges, func(a, b domain.DependencyEdge) int {
		if a.Plan != b.Plan {
			return strings.Compare(a.Plan, b.Plan)
		}
		return strings.Compare(a.BlockedBy, b.BlockedBy)
	})
	return graph, nil
}

// reaches reports whether to is reachable from from along blocked-by edges
func reaches(edges []domain.DependencyEdge, from, to string) bool {
	next := make(map[string][]string)
	for _, e := range edges {
		next[e.Plan] = append(next[e.Plan], e.BlockedBy)
	}

	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == to {
			return true
		}
		for _, n := range next[current] {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}
