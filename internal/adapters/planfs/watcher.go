package planfs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/ports"
)

// DefaultDebounce is the quiet period before a change is reported
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports debounced changes to plan files in a set of directories
type Watcher struct {
	debounce time.Duration
}

// Verify interface compliance at compile time
var _ ports.PlanWatcher = (*Watcher)(nil)

// NewWatcher creates a Watcher. A non-positive debounce uses DefaultDebounce.
func NewWatcher(debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{debounce: debounce}
}

// Watch blocks until ctx is cancelled, calling onChange for each debounced
// change to a valid plan file. Directories that cannot be watched are skipped.
func (w *Watcher) Watch(ctx context.Context, dirs []string, onChange func(domain.PlanChange)) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsWatcher.Close()

	watched := 0
	for _, dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			logging.Logger.Warn("Failed to watch plan directory", "directory", dir, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return errors.New("no plan directory could be watched")
	}

	deb := newDebouncer(w.debounce, onChange)
	defer deb.stop()

	logging.Logger.Info("Plan watcher started", "directories", watched)

	for {
		select {
		case <-ctx.Done():
			logging.Logger.Info("Plan watcher stopping", "reason", "context cancelled")
			return ctx.Err()

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if change, ok := toPlanChange(event); ok {
				logging.Logger.Debug("Plan file event", "plan", change.Filename, "op", event.Op.String())
				deb.trigger(change)
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			logging.Logger.Error("fsnotify error", "error", err)
		}
	}
}

// toPlanChange maps an fsnotify event onto a plan change, dropping events
// for non-plan files and attribute-only changes
func toPlanChange(event fsnotify.Event) (domain.PlanChange, bool) {
	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, ".md") || domain.ValidateIdentity(name) != nil {
		return domain.PlanChange{}, false
	}

	change := domain.PlanChange{Directory: filepath.Dir(event.Name), Filename: name}
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		change.Kind = domain.ChangeRemoved
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		change.Kind = domain.ChangeWritten
	default:
		return domain.PlanChange{}, false
	}
	return change, true
}
