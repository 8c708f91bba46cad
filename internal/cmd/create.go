package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/services"
)

// CreateCmd creates a plan in the first plan directory
type CreateCmd struct {
	File  string `help:"Read content from file (- for stdin)" short:"f"`
	Name  string `help:"Plan filename (generated when empty)" short:"n"`
	Title string `help:"Title used when content is empty" short:"t"`
}

// Run executes the create command
func (c *CreateCmd) Run(cli *CLI) error {
	var content string
	if c.File != "" {
		var err error
		if content, err = readContent(c.File); err != nil {
			return err
		}
	}
	if content == "" && c.Title != "" {
		content = fmt.Sprintf("# %s\n", c.Title)
	}

	name := c.Name
	if name != "" {
		name = domain.NormalizeIdentity(name)
	}

	logging.Logger.Info("Executing create command", "plan", name)
	plan, err := cli.Container.PlanService.CreatePlan(context.Background(), services.CreatePlanParams{
		Content:  content,
		Filename: name,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Plan '%s' created at %s\n", plan.Filename, plan.SourcePath)
	return nil
}
