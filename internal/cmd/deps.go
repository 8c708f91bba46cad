package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/theme"
)

// DepsCmd manages plan dependencies
type DepsCmd struct {
	Add   DepsAddCmd   `cmd:"add" help:"Mark a plan as blocked by another"`
	Del   DepsDelCmd   `cmd:"del" help:"Remove a dependency"`
	Graph DepsGraphCmd `cmd:"graph" help:"Show the dependency graph of all plans"`
	Show  DepsShowCmd  `cmd:"show" help:"Show dependencies of a plan" default:"withargs"`
}

// DepsShowCmd shows both directions of a plan's dependencies
type DepsShowCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Plan   string `arg:"" help:"Plan filename"`
}

// Run executes the deps show command
func (d *DepsShowCmd) Run(cli *CLI) error {
	deps, err := cli.Container.DependencyService.GetDependencies(context.Background(), domain.NormalizeIdentity(d.Plan))
	if err != nil {
		return err
	}

	if d.Format == "json" {
		return printJSON(map[string][]string{
			"blockedBy": orEmpty(deps.BlockedBy),
			"blocks":    orEmpty(deps.Blocks),
		})
	}

	fmt.Printf("%s %s\n", theme.LabelStyle.Render("Blocked by:"), joinOrDash(deps.BlockedBy))
	fmt.Printf("%s %s\n", theme.LabelStyle.Render("Blocks:"), joinOrDash(deps.Blocks))
	return nil
}

// DepsAddCmd adds a dependency edge
type DepsAddCmd struct {
	Plan      string `arg:"" help:"Plan that is blocked"`
	BlockedBy string `arg:"" help:"Plan that must be completed first"`
}

// Run executes the deps add command
func (d *DepsAddCmd) Run(cli *CLI) error {
	plan := domain.NormalizeIdentity(d.Plan)
	blockedBy := domain.NormalizeIdentity(d.BlockedBy)
	logging.Logger.Info("Executing deps add command", "plan", plan, "blockedBy", blockedBy)

	if err := cli.Container.DependencyService.AddDependency(context.Background(), plan, blockedBy); err != nil {
		return err
	}

	fmt.Printf("'%s' is now blocked by '%s'\n", plan, blockedBy)
	return nil
}

// DepsDelCmd removes a dependency edge
type DepsDelCmd struct {
	Plan      string `arg:"" help:"Plan that is blocked"`
	BlockedBy string `arg:"" help:"Blocking plan"`
}

// Run executes the deps del command
func (d *DepsDelCmd) Run(cli *CLI) error {
	plan := domain.NormalizeIdentity(d.Plan)
	blockedBy := domain.NormalizeIdentity(d.BlockedBy)
	logging.Logger.Info("Executing deps del command", "plan", plan, "blockedBy", blockedBy)

	if err := cli.Container.DependencyService.RemoveDependency(context.Background(), plan, blockedBy); err != nil {
		return err
	}

	fmt.Printf("'%s' is no longer blocked by '%s'\n", plan, blockedBy)
	return nil
}

// DepsGraphCmd prints every plan with its blockers
type DepsGraphCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the deps graph command
func (d *DepsGraphCmd) Run(cli *CLI) error {
	graph, err := cli.Container.DependencyService.Graph(context.Background())
	if err != nil {
		return err
	}

	if d.Format == "json" {
		return printJSON(graph)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLAN\tSTATUS\tBLOCKED BY\tBLOCKS\tSTATE")
	for _, node := range graph.Nodes {
		state := theme.DoneStyle.Render("ready")
		if node.Blocked {
			state = theme.BlockedStyle.Render("blocked")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			node.Filename, node.Status, joinOrDash(node.BlockedBy), joinOrDash(node.Blocks), state)
	}
	return w.Flush()
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
