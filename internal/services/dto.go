package services

import "github.com/renato0307/agentplans/internal/domain"

// CreatePlanParams contains parameters for creating a new plan
type CreatePlanParams struct {
	Content string
	// Filename is generated when empty
	Filename string
}

// AddSubtaskParams contains parameters for adding a subtask
type AddSubtaskParams struct {
	Assignee *string
	DueDate  *string
	// ID is generated when empty
	ID     string
	Status domain.SubtaskStatus
	Title  string
}

// UpdateSubtaskParams lists the subtask fields to change. Nil fields are
// left untouched; an empty Assignee or DueDate clears it.
type UpdateSubtaskParams struct {
	Assignee *string
	DueDate  *string
	Status   *domain.SubtaskStatus
	Title    *string
}

// GraphNode is one plan in the dependency graph
type GraphNode struct {
	// Blocked is set when any blocker is not completed
	Blocked   bool     `json:"blocked"`
	BlockedBy []string `json:"blockedBy"`
	Blocks    []string `json:"blocks"`
	Filename  string   `json:"filename"`
	ReadOnly  bool     `json:"readOnly"`
	Status    string   `json:"status"`
	Title     string   `json:"title"`
}

// DependencyGraph is the blocked-by graph across current plans
type DependencyGraph struct {
	Edges []domain.DependencyEdge `json:"edges"`
	Nodes []GraphNode             `json:"nodes"`
}

// BulkFailure is a plan a bulk update could not change
type BulkFailure struct {
	Error    string `json:"error"`
	Filename string `json:"filename"`
}

// BulkResult is the per-plan outcome of a bulk update
type BulkResult struct {
	Failed    []BulkFailure `json:"failed"`
	Succeeded []string      `json:"succeeded"`
}
