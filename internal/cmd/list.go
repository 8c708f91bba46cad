package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/theme"
)

// ListCmd lists all reconciled plans
type ListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Status string `help:"Only show plans with this status (aliases accepted)"`
}

// Run executes the list command
func (l *ListCmd) Run(cli *CLI) error {
	logging.Logger.Info("Executing list command", "status", l.Status)

	plans, err := cli.Container.PlanService.ListPlans(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}

	if l.Status != "" {
		want := domain.RawStatus(l.Status)
		filtered := plans[:0]
		for _, p := range plans {
			if p.Metadata.Status == want {
				filtered = append(filtered, p)
			}
		}
		plans = filtered
	}

	if l.Format == "json" {
		views := make([]planView, 0, len(plans))
		for _, p := range plans {
			views = append(views, newPlanView(p, false))
		}
		return printJSON(views)
	}

	if len(plans) == 0 {
		fmt.Println("No plans found")
		return nil
	}

	statuses := cli.Container.Settings.StatusConfig()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILENAME\tTITLE\tSOURCE\tPROGRESS\tMODIFIED\tSTATUS")
	for _, p := range plans {
		progress := "-"
		if p.Metadata.Progress.Total > 0 {
			progress = fmt.Sprintf("%d/%d", p.Metadata.Progress.Done, p.Metadata.Progress.Total)
		}
		// Colored column last so escape codes do not skew alignment
		status := theme.StatusStyle(statuses.GetColor(p.Metadata.Status)).Render(p.Metadata.Status)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Filename, p.Title, p.Source, progress, p.ModifiedAt.Local().Format(timeLayout), status)
	}
	return w.Flush()
}
