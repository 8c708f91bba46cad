package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/renato0307/agentplans/internal/config"
)

// SettingsCmd manages settings
type SettingsCmd struct {
	Meta SettingsMetaCmd `cmd:"meta" help:"Show settings file location and available options" default:"1"`
	Show SettingsShowCmd `cmd:"show" help:"Show effective configuration"`
}

// SettingsMetaCmd displays settings metadata
type SettingsMetaCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the meta command
func (s *SettingsMetaCmd) Run(cli *CLI) error {
	settingsFile := config.GetSettingsPath()
	example := config.GetSettingsExample()

	if s.Format == "json" {
		return printJSON(map[string]any{
			"settings_file": settingsFile,
			"format":        example,
		})
	}

	fmt.Printf("Settings file: %s\n\n", settingsFile)
	fmt.Println("Example settings.json:")
	fmt.Println()

	keys := make([]string, 0, len(example))
	for key := range example {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, key := range keys {
		var valueStr string
		switch v := example[key].(type) {
		case []string:
			data, _ := json.Marshal(v)
			valueStr = string(data)
		default:
			valueStr = fmt.Sprintf("%v", v)
		}
		fmt.Fprintf(w, "%s\t%s\n", key, valueStr)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("Create or edit this file to configure agentplans.")
	fmt.Println("All settings are optional and have sensible defaults.")

	return nil
}

// SettingsShowCmd prints the configuration in effect after overrides
type SettingsShowCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the settings show command
func (s *SettingsShowCmd) Run(cli *CLI) error {
	p := cli.Container.Settings
	effective := map[string]any{
		"archive_directory":         p.ArchiveDirectory(),
		"archive_retention_days":    p.ArchiveRetentionDays(),
		"codex_integration_enabled": p.CodexIntegrationEnabled(),
		"codex_session_directories": p.SessionLogDirectories(),
		"database":                  config.GetDBPath(),
		"max_session_files":         p.MaxSessionFiles(),
		"plan_directories":          p.PlanDirectories(),
		"preview_length":            p.PreviewLength(),
		"statuses":                  p.StatusConfig().Statuses,
	}

	if s.Format == "json" {
		return printJSON(effective)
	}

	keys := make([]string, 0, len(effective))
	for key := range effective {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, key := range keys {
		fmt.Fprintf(w, "%s\t%v\n", key, effective[key])
	}
	return w.Flush()
}
