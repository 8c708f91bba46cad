package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/theme"
)

// StatusCmd sets the status of a plan
type StatusCmd struct {
	ID     string `arg:"" help:"Plan filename"`
	Next   bool   `help:"Advance to the next configured status"`
	Status string `arg:"" optional:"" help:"New status (aliases such as done or doing accepted)"`
}

// Run executes the status command
func (s *StatusCmd) Run(cli *CLI) error {
	ctx := context.Background()
	id := domain.NormalizeIdentity(s.ID)
	statuses := cli.Container.Settings.StatusConfig()

	status := s.Status
	switch {
	case s.Next:
		plan, err := cli.Container.PlanService.GetPlan(ctx, id)
		if err != nil {
			return err
		}
		status = statuses.GetNextStatus(plan.Metadata.Status)
	case status == "":
		return fmt.Errorf("a status or --next is required")
	}

	logging.Logger.Info("Executing status command", "plan", id, "status", status)
	plan, err := cli.Container.PlanService.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}

	fmt.Printf("Plan '%s' status: %s\n", plan.Filename,
		theme.StatusStyle(statuses.GetColor(plan.Metadata.Status)).Render(plan.Metadata.Status))
	return nil
}
