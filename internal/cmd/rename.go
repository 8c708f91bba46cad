package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
)

// RenameCmd renames a plan and carries its metadata along
type RenameCmd struct {
	Old string `arg:"" help:"Current plan filename"`
	New string `arg:"" help:"New plan filename"`
}

// Run executes the rename command
func (r *RenameCmd) Run(cli *CLI) error {
	oldID := domain.NormalizeIdentity(r.Old)
	newID := domain.NormalizeIdentity(r.New)
	logging.Logger.Info("Executing rename command", "from", oldID, "to", newID)

	plan, err := cli.Container.PlanService.RenamePlan(context.Background(), oldID, newID)
	if err != nil {
		return err
	}

	fmt.Printf("Plan '%s' renamed to '%s'\n", oldID, plan.Filename)
	return nil
}
