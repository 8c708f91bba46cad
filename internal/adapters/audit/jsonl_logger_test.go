package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/agentplans/internal/domain"
)

func readEntries(t *testing.T, dir string) []map[string]any {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, Filename))
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestLog_AppendsLines(t *testing.T) {
	dir := t.TempDir()
	l := NewJSONLLogger()
	l.now = func() time.Time { return time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	require.NoError(t, l.Log(ctx, domain.AuditEntry{Action: domain.AuditCreate, Filename: "alpha.md"}, dir))
	require.NoError(t, l.Log(ctx, domain.AuditEntry{
		Action:   domain.AuditStatusChange,
		Details:  map[string]any{"from": "todo", "to": "completed"},
		Filename: "alpha.md",
	}, dir))

	entries := readEntries(t, dir)
	require.Len(t, entries, 2)
	assert.Equal(t, "create", entries[0]["action"])
	assert.Equal(t, "alpha.md", entries[0]["filename"])
	assert.Equal(t, "2025-06-01T08:30:00Z", entries[0]["timestamp"])
	assert.NotContains(t, entries[0], "details")
	assert.Equal(t, map[string]any{"from": "todo", "to": "completed"}, entries[1]["details"])
}

func TestLog_MissingDirectory(t *testing.T) {
	l := NewJSONLLogger()
	err := l.Log(context.Background(), domain.AuditEntry{Action: domain.AuditDelete, Filename: "x.md"},
		filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	assert.Error(t, l.Log(context.Background(), domain.AuditEntry{Action: domain.AuditDelete}, ""))
}
