package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/agentplans/internal/domain"
)

func archiveFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(path, []byte("# "+name), 0644))
	return path
}

func TestRecordArchiveMeta_FillsDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "archive")
	r := NewRecorder(dir, 48*time.Hour)
	archivedAt := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return archivedAt }

	err := r.RecordArchiveMeta(context.Background(), domain.ArchiveEntry{
		Filename:     "alpha.md",
		OriginalPath: "/plans/alpha.md",
		Title:        "Alpha",
	})
	require.NoError(t, err)

	entries, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(dir, "alpha.md"), entries[0].ArchivePath)
	assert.True(t, entries[0].ArchivedAt.Equal(archivedAt))
	assert.True(t, entries[0].ExpiresAt.Equal(archivedAt.Add(48*time.Hour)))
	assert.Equal(t, "Alpha", entries[0].Title)
	assert.FileExists(t, filepath.Join(dir, IndexFilename))
}

func TestRecordArchiveMeta_ReplacesSamePath(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(dir, 0)
	ctx := context.Background()

	require.NoError(t, r.RecordArchiveMeta(ctx, domain.ArchiveEntry{Filename: "a.md", Title: "Old"}))
	require.NoError(t, r.RecordArchiveMeta(ctx, domain.ArchiveEntry{Filename: "a.md", Title: "New"}))

	entries, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "New", entries[0].Title)
}

func TestList_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(dir, 0)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"first.md", "second.md", "third.md"} {
		require.NoError(t, r.RecordArchiveMeta(ctx, domain.ArchiveEntry{
			ArchivedAt: base.Add(time.Duration(i) * time.Hour),
			Filename:   name,
		}))
	}

	entries, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third.md", entries[0].Filename)
	assert.Equal(t, "first.md", entries[2].Filename)
}

func TestList_EmptyIndex(t *testing.T) {
	entries, err := NewRecorder(filepath.Join(t.TempDir(), "none"), 0).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestList_CorruptIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, IndexFilename), []byte("{oops"), 0644))

	_, err := NewRecorder(dir, 0).List(context.Background())
	assert.Error(t, err)
}

func TestPurgeExpired(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(dir, 24*time.Hour)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	oldPath := archiveFile(t, dir, "old.md")
	freshPath := archiveFile(t, dir, "fresh.md")
	require.NoError(t, r.RecordArchiveMeta(ctx, domain.ArchiveEntry{ArchivedAt: base, Filename: "old.md"}))
	require.NoError(t, r.RecordArchiveMeta(ctx, domain.ArchiveEntry{ArchivedAt: base.Add(48 * time.Hour), Filename: "fresh.md"}))
	// Entry whose file is already gone is still dropped
	require.NoError(t, r.RecordArchiveMeta(ctx, domain.ArchiveEntry{ArchivedAt: base, Filename: "gone.md"}))

	purged, err := r.PurgeExpired(ctx, base.Add(36*time.Hour))
	require.NoError(t, err)
	require.Len(t, purged, 2)
	assert.ElementsMatch(t, []string{"old.md", "gone.md"}, []string{purged[0].Filename, purged[1].Filename})

	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, freshPath)

	entries, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh.md", entries[0].Filename)

	purged, err = r.PurgeExpired(ctx, base.Add(36*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, purged)
}
