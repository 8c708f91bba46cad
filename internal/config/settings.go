package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/renato0307/agentplans/internal/domain"
)

// Defaults applied when settings.json leaves a value unset
const (
	DefaultArchiveRetentionDays = 30
	DefaultMaxSessionFiles      = 200
	DefaultPlanDirectory        = "~/.claude/plans"
	DefaultSessionDirectory     = "~/.codex/sessions"
)

// Settings represents the structure of ~/.agentplans/settings.json
type Settings struct {
	ArchiveDirectory        string      `json:"archive_directory,omitempty"`
	ArchiveRetentionDays    *int        `json:"archive_retention_days,omitempty"`
	CodexIntegrationEnabled *bool       `json:"codex_integration_enabled,omitempty"`
	CodexSessionDirectories StringArray `json:"codex_session_directories,omitempty"`
	Debug                   *bool       `json:"debug,omitempty"`
	MaxLogFiles             *int        `json:"max_log_files,omitempty"`
	MaxSessionFiles         *int        `json:"max_session_files,omitempty"`
	PlanDirectories         StringArray `json:"plan_directories,omitempty"`
	PreviewLength           *int        `json:"preview_length,omitempty"`
	StatusColors            StringArray `json:"status_colors,omitempty"`
	Statuses                StringArray `json:"statuses,omitempty"`
}

// StringArray supports both JSON arrays and comma-separated strings
type StringArray []string

// UnmarshalJSON implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*sa = arr
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*sa = domain.SplitList(str)
	return nil
}

// LoadSettings loads settings from $AGENTPLANS_HOME/settings.json.
// Returns empty Settings if the file doesn't exist.
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

// LoadSettingsFrom loads settings from path. Comments and trailing commas
// are accepted.
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	standard, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(standard, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	return &settings, nil
}

// SaveSettings writes settings to path atomically
func SaveSettings(path string, settings *Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
