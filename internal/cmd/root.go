package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/renato0307/agentplans/internal/config"
	"github.com/renato0307/agentplans/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	PlansDir    []string         `help:"Plan directories in priority order (overrides settings)" name:"plans-dir" sep:","`

	Archive  ArchiveCmd  `cmd:"archive" help:"List or purge archived plans"`
	Bulk     BulkCmd     `cmd:"bulk" help:"Change status, tags or assignee of several plans"`
	Create   CreateCmd   `cmd:"create" help:"Create a new plan"`
	Delete   DeleteCmd   `cmd:"delete" aliases:"del" help:"Delete or archive plans"`
	Deps     DepsCmd     `cmd:"deps" help:"Manage plan dependencies"`
	Edit     EditCmd     `cmd:"edit" help:"Open a plan in an external editor"`
	List     ListCmd     `cmd:"list" aliases:"ls" help:"List all plans" default:"1"`
	Rename   RenameCmd   `cmd:"rename" aliases:"mv" help:"Rename a plan"`
	Set      SetCmd      `cmd:"set" help:"Set a metadata field"`
	Settings SettingsCmd `cmd:"settings" help:"Show settings file location and available options"`
	Show     ShowCmd     `cmd:"show" help:"Show a plan"`
	Status   StatusCmd   `cmd:"status" help:"Set plan status"`
	Subtasks SubtasksCmd `cmd:"subtasks" help:"Manage plan subtasks"`
	Update   UpdateCmd   `cmd:"update" help:"Replace plan content"`
	Watch    WatchCmd    `cmd:"watch" help:"Reconcile metadata whenever plan files change"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Precedence: CLI flags > env vars > settings.json > defaults
	if c.settings != nil {
		if c.MaxLogFiles == logging.DefaultMaxLogFiles {
			if _, hasEnv := os.LookupEnv(logging.EnvMaxLogFiles); !hasEnv && c.settings.MaxLogFiles != nil {
				c.MaxLogFiles = *c.settings.MaxLogFiles
			}
		}

		if !c.Debug {
			if _, hasEnv := os.LookupEnv(logging.EnvDebug); !hasEnv && c.settings.Debug != nil && *c.settings.Debug {
				c.Debug = true
			}
		}
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Child processes append to the same log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv(logging.EnvDebug, "1")
		if logFilePath != "" {
			os.Setenv(logging.EnvDebugFile, logFilePath)
		}
	}
	if c.MaxLogFiles != logging.DefaultMaxLogFiles {
		os.Setenv(logging.EnvMaxLogFiles, strconv.Itoa(c.MaxLogFiles))
	}

	// The container opens the database, so it needs logging in place first
	provider := config.NewProvider(c.settings).WithPlanDirectories(c.PlansDir)
	container, err := NewContainer(context.Background(), provider)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
