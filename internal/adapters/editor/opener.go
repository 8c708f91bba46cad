package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/renato0307/agentplans/internal/logging"
)

// EnvEditor overrides $VISUAL and $EDITOR for plan editing
const EnvEditor = "AGENTPLANS_EDITOR"

// Opener implements ports.EditorOpener
type Opener struct {
	getenv   func(string) string
	lookPath func(string) (string, error)
}

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
	}
}

// Open edits the plan file at path and blocks until the editor exits.
// Priority: cliEditor → $AGENTPLANS_EDITOR → $VISUAL → $EDITOR → platform defaults
func (o *Opener) Open(ctx context.Context, path string, cliEditor string) error {
	if path == "" {
		return fmt.Errorf("no path provided")
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	command := o.findEditor(cliEditor)
	if len(command) == 0 {
		return fmt.Errorf("no suitable editor found. Set --editor flag, $%s, $VISUAL, or $EDITOR", EnvEditor)
	}

	logging.Logger.Info("Opening editor", "editor", command[0], "path", path)

	cmd := exec.CommandContext(ctx, command[0], append(command[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}
	return nil
}

// findEditor returns the editor command split into program and leading
// arguments, so values like "code --wait" work
func (o *Opener) findEditor(cliEditor string) []string {
	candidates := []string{cliEditor, o.getenv(EnvEditor), o.getenv("VISUAL"), o.getenv("EDITOR")}
	for _, candidate := range candidates {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields
		}
	}

	for _, editor := range defaultEditors {
		if _, err := o.lookPath(editor); err == nil {
			return []string{editor}
		}
	}
	return nil
}
