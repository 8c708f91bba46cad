package ports

import (
	"context"
	"time"

	"github.com/renato0307/agentplans/internal/domain"
)

// SettingsProvider supplies the configured plan and session directories
type SettingsProvider interface {
	PlanDirectories() []string
	CodexIntegrationEnabled() bool
	SessionLogDirectories() []string
}

// ConflictResult is the outcome of an external-edit check
type ConflictResult struct {
	CurrentMtime   time.Time
	HasConflict    bool
	LastKnownMtime time.Time
}

// ConflictChecker detects edits made outside this process
type ConflictChecker interface {
	CheckConflict(ctx context.Context, identity, directory string) (ConflictResult, error)
	RecordFileState(ctx context.Context, identity, directory string) error
	// Forget drops recorded state once the file is gone or renamed
	Forget(identity, directory string)
}

// ArchiveRecorder is told about plan files moved into the archive
type ArchiveRecorder interface {
	RecordArchiveMeta(ctx context.Context, entry domain.ArchiveEntry) error
}

// ArchiveIndex lists and purges archived plans
type ArchiveIndex interface {
	ArchiveRecorder
	List(ctx context.Context) ([]domain.ArchiveEntry, error)
	PurgeExpired(ctx context.Context, now time.Time) ([]domain.ArchiveEntry, error)
}

// AuditLogger records plan mutations. Failures never block the mutation.
type AuditLogger interface {
	Log(ctx context.Context, entry domain.AuditEntry, directory string) error
}

// PlanWatcher notifies about plan file changes on disk
type PlanWatcher interface {
	Watch(ctx context.Context, dirs []string, onChange func(domain.PlanChange)) error
}
