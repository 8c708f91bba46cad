package domain

import "fmt"

// SubtaskStatus is the completion state of a subtask
type SubtaskStatus string

const (
	SubtaskTodo SubtaskStatus = "todo"
	SubtaskDone SubtaskStatus = "done"
)

// ParseSubtaskStatus accepts todo or done, defaulting blank to todo
func ParseSubtaskStatus(s string) (SubtaskStatus, error) {
	switch SubtaskStatus(s) {
	case "", SubtaskTodo:
		return SubtaskTodo, nil
	case SubtaskDone:
		return SubtaskDone, nil
	}
	return "", fmt.Errorf("invalid subtask status %q (want todo or done)", s)
}

// Toggle flips between todo and done
func (s SubtaskStatus) Toggle() SubtaskStatus {
	if s == SubtaskDone {
		return SubtaskTodo
	}
	return SubtaskDone
}

// Subtask is a checklist item owned by a plan
type Subtask struct {
	Assignee     *string
	DueDate      *string
	ID           string
	PlanFilename string
	SortOrder    int
	Status       SubtaskStatus
	Title        string
}

// SubtaskInput is an insert-or-update request for a subtask.
// A nil SortOrder appends on insert and keeps the current position on update.
type SubtaskInput struct {
	Assignee  *string
	DueDate   *string
	ID        string
	SortOrder *int
	Status    SubtaskStatus
	Title     string
}

// Input converts a stored subtask back into an upsert request keeping its position
func (s Subtask) Input() SubtaskInput {
	order := s.SortOrder
	return SubtaskInput{
		Assignee:  s.Assignee,
		DueDate:   s.DueDate,
		ID:        s.ID,
		SortOrder: &order,
		Status:    s.Status,
		Title:     s.Title,
	}
}
