package planfs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/agentplans/internal/domain"
)

func writePlan(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestListAll_FirstDirectoryWins(t *testing.T) {
	dirA := filepath.Join(t.TempDir(), "a")
	dirB := filepath.Join(t.TempDir(), "b")
	writePlan(t, dirA, "shared.md", "# A")
	writePlan(t, dirB, "shared.md", "# B")
	writePlan(t, dirB, "only-b.md", "# only b")

	files, err := NewResolver().ListAll([]string{dirA, dirB})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"shared.md": filepath.Join(dirA, "shared.md"),
		"only-b.md": filepath.Join(dirB, "only-b.md"),
	}, files)
}

func TestListAll_SkipsUnsafeAndNonPlanEntries(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, "good.md", "x")
	writePlan(t, dir, "bad name.md", "x")
	writePlan(t, dir, "notes.txt", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.md"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "good.md"), filepath.Join(dir, "link.md")))

	files, err := NewResolver().ListAll([]string{dir})

	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, files, "good.md")
	assert.Contains(t, files, "link.md")
}

func TestListAll_MissingDirectoryIsSilent(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, "a.md", "x")

	files, err := NewResolver().ListAll([]string{filepath.Join(dir, "missing"), dir})

	require.NoError(t, err)
	assert.Contains(t, files, "a.md")
}

func TestListAll_UnreadableDirectoryReportedButNotFatal(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, "a.md", "x")
	notADir := writePlan(t, t.TempDir(), "file", "x")

	files, err := NewResolver().ListAll([]string{notADir, dir})

	require.Error(t, err)
	assert.Contains(t, err.Error(), notADir)
	assert.Contains(t, files, "a.md")
}

func TestResolve(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writePlan(t, dirB, "b.md", "x")
	writePlan(t, dirA, "both.md", "x")
	writePlan(t, dirB, "both.md", "x")
	r := NewResolver()

	path, err := r.Resolve("b.md", []string{dirA, dirB})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dirB, "b.md"), path)

	path, err = r.Resolve("both.md", []string{dirA, dirB})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dirA, "both.md"), path)

	_, err = r.Resolve("missing.md", []string{dirA, dirB})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.Resolve("../b.md", []string{dirA})
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := writePlan(t, dir, "a.md", "# Title\nbody")

	file, err := NewResolver().Read(path)

	require.NoError(t, err)
	assert.Equal(t, "a.md", file.Filename)
	assert.Equal(t, dir, file.Directory)
	assert.Equal(t, "# Title\nbody", file.Content)
	assert.Equal(t, int64(12), file.Size)
	assert.False(t, file.ModifiedAt.IsZero())
	assert.False(t, file.CreatedAt.IsZero())

	_, err = NewResolver().Read(filepath.Join(dir, "missing.md"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWrite_CreatesDirectoriesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "a.md")
	r := NewResolver()

	require.NoError(t, r.Write(path, "one"))
	require.NoError(t, r.Write(path, "two"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestCreate_RefusesExisting(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver()
	path := filepath.Join(dir, "a.md")

	require.NoError(t, r.Create(path, "first"))
	err := r.Create(path, "second")
	assert.ErrorIs(t, err, domain.ErrPlanExists)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver()
	oldPath := writePlan(t, dir, "old.md", "x")
	taken := writePlan(t, dir, "taken.md", "y")

	err := r.Rename(oldPath, taken)
	assert.ErrorIs(t, err, domain.ErrPlanExists)

	newPath := filepath.Join(dir, "new.md")
	require.NoError(t, r.Rename(oldPath, newPath))
	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, newPath)

	err = r.Rename(oldPath, filepath.Join(dir, "other.md"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemove_Idempotent(t *testing.T) {
	path := writePlan(t, t.TempDir(), "a.md", "x")
	r := NewResolver()

	require.NoError(t, r.Remove(path))
	require.NoError(t, r.Remove(path))
	assert.NoFileExists(t, path)
}

func TestMove_AvoidsCollisions(t *testing.T) {
	src := t.TempDir()
	archive := filepath.Join(t.TempDir(), "archive")
	r := NewResolver()

	first, err := r.Move(writePlan(t, src, "a.md", "one"), archive)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(archive, "a.md"), first)

	second, err := r.Move(writePlan(t, src, "a.md", "two"), archive)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(filepath.Base(second), "a-"))

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
	assert.NoFileExists(t, filepath.Join(src, "a.md"))
}
