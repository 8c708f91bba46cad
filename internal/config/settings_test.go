package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsFrom_MissingFileIsEmpty(t *testing.T) {
	settings, err := LoadSettingsFrom(filepath.Join(t.TempDir(), "settings.json"))

	require.NoError(t, err)
	assert.Equal(t, &Settings{}, settings)
}

func TestLoadSettingsFrom_AcceptsCommentsAndCommaLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{
		// plans live in two places
		"plan_directories": "~/a, /b",
		"codex_integration_enabled": true,
		"codex_session_directories": ["/sessions"],
		"max_session_files": 50,
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	settings, err := LoadSettingsFrom(path)

	require.NoError(t, err)
	assert.Equal(t, StringArray{"~/a", "/b"}, settings.PlanDirectories)
	require.NotNil(t, settings.CodexIntegrationEnabled)
	assert.True(t, *settings.CodexIntegrationEnabled)
	assert.Equal(t, StringArray{"/sessions"}, settings.CodexSessionDirectories)
	require.NotNil(t, settings.MaxSessionFiles)
	assert.Equal(t, 50, *settings.MaxSessionFiles)
}

func TestLoadSettingsFrom_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"plan_directories": [`), 0644))

	_, err := LoadSettingsFrom(path)
	assert.ErrorContains(t, err, "invalid settings.json")
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	days := 7
	require.NoError(t, SaveSettings(path, &Settings{ArchiveRetentionDays: &days}))

	settings, err := LoadSettingsFrom(path)
	require.NoError(t, err)
	require.NotNil(t, settings.ArchiveRetentionDays)
	assert.Equal(t, 7, *settings.ArchiveRetentionDays)
}

func TestProvider_Defaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv(EnvHome, "/tmp/ap-home")

	p := NewProvider(nil)

	assert.Equal(t, []string{filepath.Join(home, ".claude", "plans")}, p.PlanDirectories())
	assert.Equal(t, []string{filepath.Join(home, ".codex", "sessions")}, p.SessionLogDirectories())
	assert.False(t, p.CodexIntegrationEnabled())
	assert.Equal(t, "/tmp/ap-home/archive", p.ArchiveDirectory())
	assert.Equal(t, DefaultArchiveRetentionDays, p.ArchiveRetentionDays())
	assert.Equal(t, DefaultMaxSessionFiles, p.MaxSessionFiles())
	assert.Equal(t, 200, p.PreviewLength())
}

func TestProvider_NormalizesDirectories(t *testing.T) {
	p := NewProvider(&Settings{PlanDirectories: StringArray{"/a/", " ", "/b", "/a"}})
	assert.Equal(t, []string{"/a", "/b"}, p.PlanDirectories())

	p.WithPlanDirectories([]string{"/override"})
	assert.Equal(t, []string{"/override"}, p.PlanDirectories())
}

func TestStatusConfig(t *testing.T) {
	c := NewStatusConfig(nil, nil)

	assert.Equal(t, "245", c.GetColor("todo"))
	assert.Equal(t, "46", c.GetColor("completed"))
	assert.Equal(t, "46", c.GetColor("custom"))
	assert.Equal(t, "in_progress", c.GetNextStatus("todo"))
	assert.Equal(t, "todo", c.GetNextStatus("completed"))
	assert.Equal(t, "todo", c.GetNextStatus("custom"))
}

func TestGetSettingsExample_CoversEveryField(t *testing.T) {
	example := GetSettingsExample()
	assert.Contains(t, example, "plan_directories")
	assert.Contains(t, example, "codex_integration_enabled")
	assert.Equal(t, true, example["codex_integration_enabled"])
	assert.Len(t, example, 11)
}
