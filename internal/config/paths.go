package config

import (
	"os"
	"path/filepath"
)

// EnvHome overrides the agentplans state directory
const EnvHome = "AGENTPLANS_HOME"

// GetHome returns AGENTPLANS_HOME or ~/.agentplans default
func GetHome() string {
	home := os.Getenv(EnvHome)
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".agentplans"
		}
		return filepath.Join(homeDir, ".agentplans")
	}
	return ExpandPath(home)
}

// GetDBPath returns $AGENTPLANS_HOME/metadata.db
func GetDBPath() string {
	return filepath.Join(GetHome(), "metadata.db")
}

// GetSettingsPath returns $AGENTPLANS_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetHome(), "settings.json")
}

// GetArchivePath returns $AGENTPLANS_HOME/archive
func GetArchivePath() string {
	return filepath.Join(GetHome(), "archive")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
