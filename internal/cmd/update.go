package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
)

// UpdateCmd replaces the content of a plan
type UpdateCmd struct {
	File string `help:"Read content from file (- for stdin)" short:"f" required:""`
	ID   string `arg:"" help:"Plan filename"`
}

// Run executes the update command
func (u *UpdateCmd) Run(cli *CLI) error {
	content, err := readContent(u.File)
	if err != nil {
		return err
	}

	id := domain.NormalizeIdentity(u.ID)
	logging.Logger.Info("Executing update command", "plan", id)

	plan, err := cli.Container.PlanService.UpdatePlan(context.Background(), id, content)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("%w; run 'agentplans show %s' and retry", err, id)
		}
		return err
	}

	fmt.Printf("Plan '%s' updated\n", plan.Filename)
	return nil
}
