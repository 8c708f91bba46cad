package planfs

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/renato0307/agentplans/internal/domain"
)

type debounceEntry struct {
	change domain.PlanChange
	timer  *time.Timer
}

// debouncer coalesces bursts of events for the same plan file and fires
// once the file has been quiet for the interval
type debouncer struct {
	mu       sync.Mutex
	pending  map[string]*debounceEntry
	interval time.Duration
	callback func(domain.PlanChange)
	stopped  bool
}

func newDebouncer(interval time.Duration, callback func(domain.PlanChange)) *debouncer {
	return &debouncer{
		pending:  make(map[string]*debounceEntry),
		interval: interval,
		callback: callback,
	}
}

// trigger registers a change, restarting the quiet period for that file.
// The latest kind wins.
func (d *debouncer) trigger(change domain.PlanChange) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	key := filepath.Join(change.Directory, change.Filename)
	if entry, exists := d.pending[key]; exists {
		entry.timer.Stop()
		entry.change = change
		entry.timer = time.AfterFunc(d.interval, func() { d.fire(key) })
		return
	}

	d.pending[key] = &debounceEntry{
		change: change,
		timer:  time.AfterFunc(d.interval, func() { d.fire(key) }),
	}
}

func (d *debouncer) fire(key string) {
	d.mu.Lock()
	entry, exists := d.pending[key]
	if !exists || d.stopped {
		d.mu.Unlock()
		return
	}
	change := entry.change
	delete(d.pending, key)
	d.mu.Unlock()

	// Atomic saves show up as remove+create; trust the disk
	if change.Kind == domain.ChangeRemoved {
		if _, err := os.Stat(key); err == nil {
			change.Kind = domain.ChangeWritten
		}
	}

	d.callback(change)
}

func (d *debouncer) pendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// stop cancels all pending timers and ignores later triggers
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, entry := range d.pending {
		entry.timer.Stop()
		delete(d.pending, key)
	}
}
