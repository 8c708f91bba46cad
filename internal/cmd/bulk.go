package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/services"
	"github.com/renato0307/agentplans/internal/theme"
)

// BulkCmd applies one metadata change to many plans
type BulkCmd struct {
	Assign BulkAssignCmd `cmd:"assign" help:"Set the assignee of several plans"`
	Status BulkStatusCmd `cmd:"status" help:"Set the status of several plans"`
	Tags   BulkTagsCmd   `cmd:"tags" help:"Replace the tags of several plans"`
}

// BulkStatusCmd sets the status of several plans
type BulkStatusCmd struct {
	Format string   `help:"Output format: table or json" enum:"table,json" default:"table"`
	Status string   `arg:"" help:"New status (aliases such as done or doing accepted)"`
	IDs    []string `arg:"" name:"id" help:"Plan filenames"`
}

// Run executes the bulk status command
func (b *BulkStatusCmd) Run(cli *CLI) error {
	ids := normalizeIdentities(b.IDs)
	logging.Logger.Info("Executing bulk status command", "plans", ids, "status", b.Status)
	result, err := cli.Container.PlanService.BulkUpdateStatus(context.Background(), ids, b.Status)
	return printBulkResult(result, err, b.Format)
}

// BulkTagsCmd replaces the tags of several plans
type BulkTagsCmd struct {
	Format string   `help:"Output format: table or json" enum:"table,json" default:"table"`
	Tags   string   `arg:"" help:"Comma separated tags (empty clears them)"`
	IDs    []string `arg:"" name:"id" help:"Plan filenames"`
}

// Run executes the bulk tags command
func (b *BulkTagsCmd) Run(cli *CLI) error {
	ids := normalizeIdentities(b.IDs)
	tags := domain.SplitList(b.Tags)
	logging.Logger.Info("Executing bulk tags command", "plans", ids, "tags", tags)
	result, err := cli.Container.PlanService.BulkUpdateTags(context.Background(), ids, tags)
	return printBulkResult(result, err, b.Format)
}

// BulkAssignCmd sets the assignee of several plans
type BulkAssignCmd struct {
	Format   string   `help:"Output format: table or json" enum:"table,json" default:"table"`
	Assignee string   `arg:"" help:"Assignee (empty clears it)"`
	IDs      []string `arg:"" name:"id" help:"Plan filenames"`
}

// Run executes the bulk assign command
func (b *BulkAssignCmd) Run(cli *CLI) error {
	ids := normalizeIdentities(b.IDs)
	logging.Logger.Info("Executing bulk assign command", "plans", ids, "assignee", b.Assignee)
	result, err := cli.Container.PlanService.BulkAssign(context.Background(), ids, b.Assignee)
	return printBulkResult(result, err, b.Format)
}

// printBulkResult reports every plan and fails when any plan failed
func printBulkResult(result *services.BulkResult, err error, format string) error {
	if format == "json" {
		if jsonErr := printJSON(result); jsonErr != nil {
			return jsonErr
		}
	} else {
		for _, name := range result.Succeeded {
			fmt.Printf("%s %s\n", theme.LabelStyle.Render("updated"), name)
		}
		for _, f := range result.Failed {
			fmt.Printf("%s %s: %s\n", theme.ErrorStyle.Render("failed"), f.Filename, f.Error)
		}
	}
	if err != nil {
		return fmt.Errorf("%d of %d plan(s) failed", len(result.Failed), len(result.Failed)+len(result.Succeeded))
	}
	return nil
}

func normalizeIdentities(ids []string) []string {
	normalized := make([]string, 0, len(ids))
	for _, id := range ids {
		normalized = append(normalized, domain.NormalizeIdentity(id))
	}
	return normalized
}
