package conflict

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/ports"
)

type fileState struct {
	mtime time.Time
	size  int64
}

// Tracker remembers the last seen state of plan files in memory and reports
// edits made since then by other processes
type Tracker struct {
	mu     sync.Mutex
	states map[string]fileState
}

// Verify interface compliance at compile time
var _ ports.ConflictChecker = (*Tracker)(nil)

// NewTracker creates an empty Tracker
func NewTracker() *Tracker {
	return &Tracker{states: make(map[string]fileState)}
}

// RecordFileState stores the current mtime and size of the plan file
func (t *Tracker) RecordFileState(ctx context.Context, identity, directory string) error {
	path := filepath.Join(directory, identity)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat plan file: %w", err)
	}

	t.mu.Lock()
	t.states[path] = fileState{mtime: info.ModTime(), size: info.Size()}
	t.mu.Unlock()
	return nil
}

// CheckConflict compares the file on disk with its recorded state. Files
// never recorded, or no longer on disk, do not conflict.
func (t *Tracker) CheckConflict(ctx context.Context, identity, directory string) (ports.ConflictResult, error) {
	path := filepath.Join(directory, identity)

	t.mu.Lock()
	known, ok := t.states[path]
	t.mu.Unlock()
	if !ok {
		return ports.ConflictResult{}, nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ports.ConflictResult{LastKnownMtime: known.mtime}, nil
	}
	if err != nil {
		return ports.ConflictResult{}, fmt.Errorf("failed to stat plan file: %w", err)
	}

	result := ports.ConflictResult{
		CurrentMtime:   info.ModTime(),
		LastKnownMtime: known.mtime,
	}
	if !info.ModTime().Equal(known.mtime) || info.Size() != known.size {
		result.HasConflict = true
		logging.Logger.Info("External edit detected", "plan", identity, "directory", directory)
	}
	return result, nil
}

// Forget drops the recorded state of a plan file
func (t *Tracker) Forget(identity, directory string) {
	t.mu.Lock()
	delete(t.states, filepath.Join(directory, identity))
	t.mu.Unlock()
}
