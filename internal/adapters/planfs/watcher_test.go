package planfs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/agentplans/internal/domain"
)

type changeRecorder struct {
	mu      sync.Mutex
	changes []domain.PlanChange
}

func (r *changeRecorder) record(c domain.PlanChange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *changeRecorder) snapshot() []domain.PlanChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.PlanChange(nil), r.changes...)
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	rec := &changeRecorder{}
	deb := newDebouncer(30*time.Millisecond, rec.record)
	defer deb.stop()

	for range 5 {
		deb.trigger(domain.PlanChange{Directory: dir, Filename: "a.md", Kind: domain.ChangeWritten})
	}
	deb.trigger(domain.PlanChange{Directory: dir, Filename: "b.md", Kind: domain.ChangeRemoved})

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, deb.pendingCount())
}

func TestDebouncer_RemoveOfExistingFileReportsWrite(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, "a.md", "x")
	rec := &changeRecorder{}
	deb := newDebouncer(10*time.Millisecond, rec.record)
	defer deb.stop()

	deb.trigger(domain.PlanChange{Directory: dir, Filename: "a.md", Kind: domain.ChangeRemoved})

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, domain.ChangeWritten, rec.snapshot()[0].Kind)
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	rec := &changeRecorder{}
	deb := newDebouncer(20*time.Millisecond, rec.record)

	deb.trigger(domain.PlanChange{Filename: "a.md", Kind: domain.ChangeWritten})
	deb.stop()
	deb.trigger(domain.PlanChange{Filename: "b.md", Kind: domain.ChangeWritten})

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestToPlanChange(t *testing.T) {
	change, ok := toPlanChange(fsnotify.Event{Name: "/plans/a.md", Op: fsnotify.Write})
	require.True(t, ok)
	assert.Equal(t, domain.PlanChange{Directory: "/plans", Filename: "a.md", Kind: domain.ChangeWritten}, change)

	change, ok = toPlanChange(fsnotify.Event{Name: "/plans/a.md", Op: fsnotify.Rename})
	require.True(t, ok)
	assert.Equal(t, domain.ChangeRemoved, change.Kind)

	_, ok = toPlanChange(fsnotify.Event{Name: "/plans/a.md", Op: fsnotify.Chmod})
	assert.False(t, ok)
	_, ok = toPlanChange(fsnotify.Event{Name: "/plans/a.md123456", Op: fsnotify.Create})
	assert.False(t, ok)
	_, ok = toPlanChange(fsnotify.Event{Name: "/plans/bad name.md", Op: fsnotify.Create})
	assert.False(t, ok)
}

func TestWatch_ReportsPlanWrites(t *testing.T) {
	dir := t.TempDir()
	rec := &changeRecorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- NewWatcher(20*time.Millisecond).Watch(ctx, []string{dir}, rec.record)
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "a.md"), []byte("x"), 0644)
		return len(rec.snapshot()) > 0
	}, 3*time.Second, 100*time.Millisecond)

	got := rec.snapshot()[0]
	assert.Equal(t, "a.md", got.Filename)
	assert.Equal(t, domain.ChangeWritten, got.Kind)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatch_NoWatchableDirectory(t *testing.T) {
	err := NewWatcher(0).Watch(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, func(domain.PlanChange) {})
	assert.Error(t, err)
}
