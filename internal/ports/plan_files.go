package ports

import (
	"context"

	"github.com/renato0307/agentplans/internal/domain"
)

// PlanFileLister discovers plan files across ordered directories
type PlanFileLister interface {
	// ListAll maps each plan identity to the path in the first directory that
	// holds it. The error reports unreadable directories; the map is valid
	// even when it is non-nil.
	ListAll(dirs []string) (map[string]string, error)
	// Resolve returns the path of identity in the first directory that holds it
	Resolve(identity string, dirs []string) (string, error)
}

// PlanFileReader reads plan file content and attributes
type PlanFileReader interface {
	Read(path string) (*domain.PlanFile, error)
}

// PlanFileWriter mutates plan files on disk
type PlanFileWriter interface {
	// Write replaces the file content atomically, creating parent directories
	Write(path string, content string) error
	// Create writes a new file and fails with domain.ErrPlanExists when it exists
	Create(path string, content string) error
	Rename(oldPath, newPath string) error
	// Remove deletes the file. Missing files are not an error.
	Remove(path string) error
	// Move relocates the file into destDir and returns its new path
	Move(path, destDir string) (string, error)
}

// PlanFiles is the composite filesystem port
type PlanFiles interface {
	PlanFileLister
	PlanFileReader
	PlanFileWriter
}

// VirtualPlanSource provides read-only plans synthesized from session logs
type VirtualPlanSource interface {
	List(ctx context.Context, roots []string) ([]domain.VirtualPlan, error)
	Get(ctx context.Context, roots []string, identity string) (*domain.VirtualPlan, error)
}
