package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/ports"
)

// IndexFilename is the archive index kept inside the archive directory
const IndexFilename = ".archive-index.json"

// DefaultRetention is how long archived plans are kept before purging
const DefaultRetention = 30 * 24 * time.Hour

// Recorder keeps a JSON index of archived plan files
type Recorder struct {
	dir       string
	mu        sync.Mutex
	now       func() time.Time
	retention time.Duration
}

// Verify interface compliance at compile time
var _ ports.ArchiveIndex = (*Recorder)(nil)

// NewRecorder creates a Recorder for the archive directory dir
func NewRecorder(dir string, retention time.Duration) *Recorder {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Recorder{
		dir:       dir,
		now:       time.Now,
		retention: retention,
	}
}

// Directory returns the archive directory
func (r *Recorder) Directory() string {
	return r.dir
}

// RecordArchiveMeta adds entry to the index, replacing an older entry for
// the same archived file
func (r *Recorder) RecordArchiveMeta(ctx context.Context, entry domain.ArchiveEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ArchivedAt.IsZero() {
		entry.ArchivedAt = r.now()
	}
	entry.ArchivedAt = entry.ArchivedAt.UTC()
	if entry.ExpiresAt.IsZero() {
		entry.ExpiresAt = entry.ArchivedAt.Add(r.retention)
	}
	entry.ExpiresAt = entry.ExpiresAt.UTC()
	if entry.ArchivePath == "" {
		entry.ArchivePath = filepath.Join(r.dir, entry.Filename)
	}

	entries, err := r.load()
	if err != nil {
		return err
	}
	entries = slices.DeleteFunc(entries, func(e domain.ArchiveEntry) bool {
		return e.ArchivePath == entry.ArchivePath
	})
	entries = append(entries, entry)

	if err := r.save(entries); err != nil {
		return err
	}
	logging.Logger.Info("Archived plan recorded", "plan", entry.Filename, "path", entry.ArchivePath)
	return nil
}

// List returns the archived plans, newest first
func (r *Recorder) List(ctx context.Context) ([]domain.ArchiveEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return nil, err
	}
	sortNewestFirst(entries)
	return entries, nil
}

// PurgeExpired deletes archived files whose retention has passed and drops
// them from the index
func (r *Recorder) PurgeExpired(ctx context.Context, now time.Time) ([]domain.ArchiveEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return nil, err
	}

	var kept, purged []domain.ArchiveEntry
	for _, e := range entries {
		if now.Before(e.ExpiresAt) {
			kept = append(kept, e)
			continue
		}
		if err := os.Remove(e.ArchivePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logging.Logger.Warn("Failed to remove archived plan", "path", e.ArchivePath, "error", err)
			kept = append(kept, e)
			continue
		}
		purged = append(purged, e)
	}

	if len(purged) == 0 {
		return nil, nil
	}
	if err := r.save(kept); err != nil {
		return nil, err
	}

	sortNewestFirst(purged)
	logging.Logger.Info("Purged expired archived plans", "count", len(purged))
	return purged, nil
}

func (r *Recorder) indexPath() string {
	return filepath.Join(r.dir, IndexFilename)
}

func (r *Recorder) load() ([]domain.ArchiveEntry, error) {
	data, err := os.ReadFile(r.indexPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archive index: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var entries []domain.ArchiveEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse archive index: %w", err)
	}
	return entries, nil
}

func (r *Recorder) save(entries []domain.ArchiveEntry) error {
	if entries == nil {
		entries = []domain.ArchiveEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode archive index: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := atomic.WriteFile(r.indexPath(), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write archive index: %w", err)
	}
	return nil
}

func sortNewestFirst(entries []domain.ArchiveEntry) {
	slices.SortStableFunc(entries, func(a, b domain.ArchiveEntry) int {
		return b.ArchivedAt.Compare(a.ArchivedAt)
	})
}
