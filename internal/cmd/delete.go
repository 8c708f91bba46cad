package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/renato0307/agentplans/internal/logging"
)

// DeleteCmd deletes or archives plans
type DeleteCmd struct {
	Archive bool     `help:"Move files to the archive directory instead of deleting" short:"a"`
	Force   bool     `help:"Skip confirmation" short:"f"`
	IDs     []string `arg:"" name:"id" help:"Plan filenames"`
}

// Run executes the delete command
func (d *DeleteCmd) Run(cli *CLI) error {
	ids := normalizeIdentities(d.IDs)

	logging.Logger.Info("Executing delete command", "plans", ids, "archive", d.Archive, "force", d.Force)

	if !d.Force {
		confirmed, err := d.confirm(ids)
		if err != nil {
			return err
		}
		if !confirmed {
			logging.Logger.Info("User cancelled plan deletion", "plans", ids)
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := cli.Container.PlanService.BulkDelete(context.Background(), ids, d.Archive); err != nil {
		return err
	}

	verb := "deleted"
	if d.Archive {
		verb = "archived"
	}
	fmt.Printf("%d plan(s) %s\n", len(ids), verb)
	return nil
}

func (d *DeleteCmd) confirm(ids []string) (bool, error) {
	action := "Delete"
	description := "Files and their metadata will be removed."
	if d.Archive {
		action = "Archive"
		description = "Files move to the archive directory and their metadata is removed."
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s %s?", action, strings.Join(ids, ", "))).
				Description(description).
				Value(&confirmed).
				Affirmative("Yes").
				Negative("No"),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return confirmed, nil
}
