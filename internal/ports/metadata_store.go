package ports

import (
	"context"

	"github.com/renato0307/agentplans/internal/domain"
)

// MetadataReader reads plan metadata rows
type MetadataReader interface {
	// Get returns the row for filename or an error matching domain.ErrNotFound
	Get(ctx context.Context, filename string) (*domain.PlanMetadata, error)
	// ListAll returns every row ordered by modified time, newest first
	ListAll(ctx context.Context) ([]domain.PlanMetadata, error)
}

// MetadataWriter creates, updates, and deletes plan metadata rows
type MetadataWriter interface {
	// Upsert inserts meta with its own timestamps or, when the row exists,
	// overwrites every field except the creation time and advances modified time
	Upsert(ctx context.Context, meta domain.PlanMetadata) error
	// InsertIfAbsent inserts meta only when no row exists and reports whether it did
	InsertIfAbsent(ctx context.Context, meta domain.PlanMetadata) (bool, error)
	// UpdateField sets one allow-listed field on an existing row
	UpdateField(ctx context.Context, filename string, field domain.MetadataField, value any) error
	// Delete removes the row and cascades to its subtasks and edges. Missing rows are not an error.
	Delete(ctx context.Context, filename string) error
}

// SubtaskStore manages the subtasks owned by a plan row
type SubtaskStore interface {
	UpsertSubtask(ctx context.Context, filename string, input domain.SubtaskInput) (*domain.Subtask, error)
	ListSubtasks(ctx context.Context, filename string) ([]domain.Subtask, error)
	DeleteSubtask(ctx context.Context, filename, subtaskID string) error
}

// DependencyStore manages blocked-by edges between plan rows
type DependencyStore interface {
	AddDependency(ctx context.Context, filename, blockedBy string) error
	RemoveDependency(ctx context.Context, filename, blockedBy string) error
	GetDependencies(ctx context.Context, filename string) (domain.Dependencies, error)
	ListDependencies(ctx context.Context) ([]domain.DependencyEdge, error)
}

// MetadataCollector removes rows for plans that no longer exist
type MetadataCollector interface {
	// GarbageCollect deletes every row whose filename is not in active and
	// returns the removed filenames sorted
	GarbageCollect(ctx context.Context, active map[string]struct{}) ([]string, error)
}

// MetadataStore is the composite interface
type MetadataStore interface {
	MetadataReader
	MetadataWriter
	SubtaskStore
	DependencyStore
	MetadataCollector
	SchemaVersion(ctx context.Context) (int, error)
	Close() error
}
