package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
)

// EditCmd opens a plan file in an external editor
type EditCmd struct {
	Editor string `help:"Editor command (overrides $AGENTPLANS_EDITOR, $VISUAL and $EDITOR)" short:"e"`
	ID     string `arg:"" help:"Plan filename"`
}

// Run executes the edit command
func (e *EditCmd) Run(cli *CLI) error {
	ctx := context.Background()
	id := domain.NormalizeIdentity(e.ID)

	path, err := cli.Container.PlanService.FilePath(ctx, id)
	if err != nil {
		return err
	}

	logging.Logger.Info("Executing edit command", "plan", id, "path", path)
	if err := cli.Container.Editor.Open(ctx, path, e.Editor); err != nil {
		return fmt.Errorf("failed to edit plan: %w", err)
	}

	// Re-read so later writes in this process see the edited file state
	if _, err := cli.Container.PlanService.GetPlan(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Plan '%s' saved\n", id)
	return nil
}
