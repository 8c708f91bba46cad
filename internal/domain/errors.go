package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrConflict         = errors.New("plan was modified externally")
	ErrDependencyCycle  = errors.New("dependency would create a cycle")
	ErrFieldNotMutable  = errors.New("metadata field is not mutable")
	ErrInvalidIdentity  = errors.New("invalid plan identity")
	ErrNotFound         = errors.New("plan not found")
	ErrPlanExists       = errors.New("plan already exists")
	ErrReadOnly         = errors.New("plan is read-only")
	ErrStoreUnavailable = errors.New("metadata store unavailable")
	ErrSubtaskNotFound  = errors.New("subtask not found")
)

// IdentityError reports an error tied to a specific plan identity
type IdentityError struct {
	Err      error
	Identity string
	Reason   string
}

func (e *IdentityError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %q: %s", e.Err, e.Identity, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Identity)
}

func (e *IdentityError) Unwrap() error { return e.Err }

// NotFoundError returns an ErrNotFound error naming identity
func NotFoundError(identity string) error {
	return &IdentityError{Err: ErrNotFound, Identity: identity}
}

// ReadOnlyError returns an ErrReadOnly error naming identity
func ReadOnlyError(identity string) error {
	return &IdentityError{Err: ErrReadOnly, Identity: identity}
}

// ConflictError reports that a plan file changed since it was last read
type ConflictError struct {
	CurrentMtime   time.Time
	Identity       string
	LastKnownMtime time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s (last known %s, current %s)",
		ErrConflict, e.Identity,
		e.LastKnownMtime.Format(time.RFC3339Nano),
		e.CurrentMtime.Format(time.RFC3339Nano))
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
