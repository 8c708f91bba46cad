package conflict

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConflict_UnknownFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A"), 0644))

	result, err := NewTracker().CheckConflict(context.Background(), "a.md", dir)
	require.NoError(t, err)
	assert.False(t, result.HasConflict)
}

func TestCheckConflict(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		modify   func(t *testing.T, path string)
		conflict bool
	}{
		{
			name:   "unchanged",
			modify: func(t *testing.T, path string) {},
		},
		{
			name: "mtime changed",
			modify: func(t *testing.T, path string) {
				require.NoError(t, os.Chtimes(path, base.Add(time.Minute), base.Add(time.Minute)))
			},
			conflict: true,
		},
		{
			name: "size changed with same mtime",
			modify: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte("# A\n\nmore"), 0644))
				require.NoError(t, os.Chtimes(path, base, base))
			},
			conflict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "a.md")
			require.NoError(t, os.WriteFile(path, []byte("# A"), 0644))
			require.NoError(t, os.Chtimes(path, base, base))

			tracker := NewTracker()
			require.NoError(t, tracker.RecordFileState(ctx, "a.md", dir))
			tt.modify(t, path)

			result, err := tracker.CheckConflict(ctx, "a.md", dir)
			require.NoError(t, err)
			assert.Equal(t, tt.conflict, result.HasConflict)
			assert.True(t, result.LastKnownMtime.Equal(base))
		})
	}
}

func TestCheckConflict_RecordAfterWriteClears(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("# A"), 0644))

	tracker := NewTracker()
	require.NoError(t, tracker.RecordFileState(ctx, "a.md", dir))
	require.NoError(t, os.WriteFile(path, []byte("# A changed"), 0644))
	require.NoError(t, tracker.RecordFileState(ctx, "a.md", dir))

	result, err := tracker.CheckConflict(ctx, "a.md", dir)
	require.NoError(t, err)
	assert.False(t, result.HasConflict)
}

func TestCheckConflict_RemovedFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("# A"), 0644))

	tracker := NewTracker()
	require.NoError(t, tracker.RecordFileState(ctx, "a.md", dir))
	require.NoError(t, os.Remove(path))

	result, err := tracker.CheckConflict(ctx, "a.md", dir)
	require.NoError(t, err)
	assert.False(t, result.HasConflict)

	tracker.Forget("a.md", dir)
	assert.Error(t, tracker.RecordFileState(ctx, "a.md", dir))
}
