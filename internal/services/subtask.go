package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/ports"
)

// SubtaskService manages plan checklists. Virtual plans accept subtasks
// since they live in the metadata overlay.
type SubtaskService struct {
	plans *PlanService
	store ports.SubtaskStore
}

// NewSubtaskService creates a new SubtaskService
func NewSubtaskService(plans *PlanService, store ports.SubtaskStore) *SubtaskService {
	return &SubtaskService{
		plans: plans,
		store: store,
	}
}

// AddSubtask appends a subtask to the plan, creating its metadata row if needed
func (s *SubtaskService) AddSubtask(ctx context.Context, identity string, params AddSubtaskParams) (*domain.Subtask, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, fmt.Errorf("subtask title is required")
	}

	target, err := s.plans.resolveTarget(ctx, identity)
	if err != nil {
		return nil, err
	}
	if _, err := s.plans.ensureRow(ctx, target, nil); err != nil {
		return nil, err
	}

	id := params.ID
	if id == "" {
		id = uuid.NewString()
	}
	logging.Logger.Info("Adding subtask", "plan", identity, "subtask", id)

	subtask, err := s.store.UpsertSubtask(ctx, identity, domain.SubtaskInput{
		Assignee: params.Assignee,
		DueDate:  params.DueDate,
		ID:       id,
		Status:   params.Status,
		Title:    title,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add subtask: %w", err)
	}
	return subtask, nil
}

// UpdateSubtask changes the given fields of an existing subtask
func (s *SubtaskService) UpdateSubtask(ctx context.Context, identity, id string, params UpdateSubtaskParams) (*domain.Subtask, error) {
	current, err := s.find(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	input := current.Input()
	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, fmt.Errorf("subtask title is required")
		}
		input.Title = title
	}
	if params.Status != nil {
		input.Status = *params.Status
	}
	if params.Assignee != nil {
		input.Assignee = nonEmpty(*params.Assignee)
	}
	if params.DueDate != nil {
		input.DueDate = nonEmpty(*params.DueDate)
	}

	logging.Logger.Info("Updating subtask", "plan", identity, "subtask", id)
	subtask, err := s.store.UpsertSubtask(ctx, identity, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update subtask: %w", err)
	}
	return subtask, nil
}

// ToggleSubtask flips a subtask between todo and done
func (s *SubtaskService) ToggleSubtask(ctx context.Context, identity, id string) (*domain.Subtask, error) {
	current, err := s.find(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	status := current.Status.Toggle()
	return s.UpdateSubtask(ctx, identity, id, UpdateSubtaskParams{Status: &status})
}

// DeleteSubtask removes a subtask. Deleting a missing subtask succeeds.
func (s *SubtaskService) DeleteSubtask(ctx context.Context, identity, id string) error {
	if err := domain.ValidateIdentity(identity); err != nil {
		return err
	}
	logging.Logger.Info("Deleting subtask", "plan", identity, "subtask", id)

	if err := s.store.DeleteSubtask(ctx, identity, id); err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
	}
	return nil
}

// ListSubtasks returns the subtasks of a plan in insertion order
func (s *SubtaskService) ListSubtasks(ctx context.Context, identity string) ([]domain.Subtask, error) {
	if err := domain.ValidateIdentity(identity); err != nil {
		return nil, err
	}
	subtasks, err := s.store.ListSubtasks(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	return subtasks, nil
}

// Progress summarizes subtask completion for a plan
func (s *SubtaskService) Progress(ctx context.Context, identity string) (domain.Progress, error) {
	subtasks, err := s.ListSubtasks(ctx, identity)
	if err != nil {
		return domain.Progress{}, err
	}
	return domain.SubtaskProgress(subtasks), nil
}

func (s *SubtaskService) find(ctx context.Context, identity, id string) (*domain.Subtask, error) {
	subtasks, err := s.ListSubtasks(ctx, identity)
	if err != nil {
		return nil, err
	}
	for i := range subtasks {
		if subtasks[i].ID == id {
			return &subtasks[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", domain.ErrSubtaskNotFound, id, identity)
}
