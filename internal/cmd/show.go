package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/theme"
)

// ShowCmd shows a single plan
type ShowCmd struct {
	Content bool   `help:"Include the plan body"`
	Format  string `help:"Output format: table or json" enum:"table,json" default:"table"`
	ID      string `arg:"" help:"Plan filename"`
}

// Run executes the show command
func (s *ShowCmd) Run(cli *CLI) error {
	plan, err := cli.Container.PlanService.GetPlan(context.Background(), domain.NormalizeIdentity(s.ID))
	if err != nil {
		return err
	}

	if s.Format == "json" {
		return printJSON(newPlanView(*plan, s.Content))
	}

	statuses := cli.Container.Settings.StatusConfig()
	field := func(label, value string) {
		if value == "" {
			value = theme.MutedStyle.Render("-")
		}
		fmt.Printf("%s %s\n", theme.LabelStyle.Render(label+":"), value)
	}

	fmt.Println(theme.TitleStyle.Render(plan.Title))
	field("Filename", plan.Filename)
	field("Source", string(plan.Source))
	field("Path", plan.SourcePath)
	if plan.ReadOnly {
		field("Access", theme.ReadOnlyStyle.Render("read-only"))
	}
	field("Status", theme.StatusStyle(statuses.GetColor(plan.Metadata.Status)).Render(plan.Metadata.Status))
	field("Priority", plan.Metadata.Priority)
	field("Assignee", plan.Metadata.Assignee)
	field("Due", plan.Metadata.DueDate)
	field("Estimate", plan.Metadata.Estimate)
	field("Tags", strings.Join(plan.Metadata.Tags, ", "))
	field("Project", plan.RelatedProject)
	field("Created", plan.CreatedAt.Local().Format(timeLayout))
	field("Modified", plan.ModifiedAt.Local().Format(timeLayout))
	field("Blocked by", strings.Join(plan.Dependencies.BlockedBy, ", "))
	field("Blocks", strings.Join(plan.Dependencies.Blocks, ", "))

	if len(plan.Subtasks) > 0 {
		p := plan.Metadata.Progress
		fmt.Println(theme.SectionStyle.Render(fmt.Sprintf("Subtasks %d/%d (%d%%)", p.Done, p.Total, p.Percentage)))
		for _, st := range plan.Subtasks {
			printSubtask(st)
		}
	}

	if len(plan.Sections) > 0 {
		fmt.Println(theme.SectionStyle.Render("Sections"))
		for _, section := range plan.Sections {
			fmt.Printf("  %s\n", section)
		}
	}

	if s.Content {
		fmt.Println()
		fmt.Println(plan.Content)
	}
	return nil
}

func printSubtask(st domain.Subtask) {
	box := "[ ]"
	title := theme.NormalStyle.Render(st.Title)
	if st.Status == domain.SubtaskDone {
		box = "[x]"
		title = theme.DoneStyle.Render(st.Title)
	}
	line := fmt.Sprintf("  %s %s %s", box, title, theme.MutedStyle.Render(st.ID))
	if st.Assignee != nil {
		line += " @" + *st.Assignee
	}
	if st.DueDate != nil {
		line += " due " + *st.DueDate
	}
	fmt.Println(line)
}
