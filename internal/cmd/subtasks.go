package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/services"
)

// SubtasksCmd manages plan subtasks
type SubtasksCmd struct {
	Add    SubtasksAddCmd    `cmd:"add" help:"Add a subtask"`
	Del    SubtasksDelCmd    `cmd:"del" help:"Delete a subtask"`
	List   SubtasksListCmd   `cmd:"list" help:"List subtasks of a plan" default:"withargs"`
	Toggle SubtasksToggleCmd `cmd:"toggle" help:"Toggle a subtask between todo and done"`
	Update SubtasksUpdateCmd `cmd:"update" help:"Update a subtask"`
}

// SubtasksListCmd lists subtasks in display order
type SubtasksListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Plan   string `arg:"" help:"Plan filename"`
}

// Run executes the subtasks list command
func (s *SubtasksListCmd) Run(cli *CLI) error {
	id := domain.NormalizeIdentity(s.Plan)
	subtasks, err := cli.Container.SubtaskService.ListSubtasks(context.Background(), id)
	if err != nil {
		return err
	}

	if s.Format == "json" {
		return printJSON(newSubtaskViews(subtasks))
	}

	if len(subtasks) == 0 {
		fmt.Printf("Plan '%s' has no subtasks\n", id)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTITLE\tASSIGNEE\tDUE")
	for _, st := range subtasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", st.ID, st.Status, st.Title, deref(st.Assignee), deref(st.DueDate))
	}
	w.Flush()

	p := domain.SubtaskProgress(subtasks)
	fmt.Printf("\n%d/%d done (%d%%)\n", p.Done, p.Total, p.Percentage)
	return nil
}

// SubtasksAddCmd adds a subtask to the end of a plan's list
type SubtasksAddCmd struct {
	Assignee string `help:"Assignee"`
	Due      string `help:"Due date"`
	ID       string `help:"Subtask ID (generated when empty)"`
	Status   string `help:"Initial status: todo or done" enum:"todo,done" default:"todo"`

	Plan  string `arg:"" help:"Plan filename"`
	Title string `arg:"" help:"Subtask title"`
}

// Run executes the subtasks add command
func (s *SubtasksAddCmd) Run(cli *CLI) error {
	id := domain.NormalizeIdentity(s.Plan)
	logging.Logger.Info("Executing subtasks add command", "plan", id)

	st, err := cli.Container.SubtaskService.AddSubtask(context.Background(), id, services.AddSubtaskParams{
		Assignee: optional(s.Assignee),
		DueDate:  optional(s.Due),
		ID:       s.ID,
		Status:   domain.SubtaskStatus(s.Status),
		Title:    s.Title,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Subtask '%s' added to '%s'\n", st.ID, id)
	return nil
}

// SubtasksUpdateCmd changes fields of a subtask. Unset flags keep current values.
type SubtasksUpdateCmd struct {
	Assignee *string `help:"Assignee (empty clears)"`
	Due      *string `help:"Due date (empty clears)"`
	Status   *string `help:"Status: todo or done"`
	Title    *string `help:"Title"`

	Plan string `arg:"" help:"Plan filename"`
	ID   string `arg:"" help:"Subtask ID"`
}

// Run executes the subtasks update command
func (s *SubtasksUpdateCmd) Run(cli *CLI) error {
	id := domain.NormalizeIdentity(s.Plan)
	params := services.UpdateSubtaskParams{
		Assignee: s.Assignee,
		DueDate:  s.Due,
		Title:    s.Title,
	}
	if s.Status != nil {
		status, err := domain.ParseSubtaskStatus(*s.Status)
		if err != nil {
			return err
		}
		params.Status = &status
	}

	logging.Logger.Info("Executing subtasks update command", "plan", id, "subtask", s.ID)
	if _, err := cli.Container.SubtaskService.UpdateSubtask(context.Background(), id, s.ID, params); err != nil {
		return err
	}

	fmt.Printf("Subtask '%s' updated\n", s.ID)
	return nil
}

// SubtasksToggleCmd flips a subtask between todo and done
type SubtasksToggleCmd struct {
	Plan string `arg:"" help:"Plan filename"`
	ID   string `arg:"" help:"Subtask ID"`
}

// Run executes the subtasks toggle command
func (s *SubtasksToggleCmd) Run(cli *CLI) error {
	st, err := cli.Container.SubtaskService.ToggleSubtask(context.Background(), domain.NormalizeIdentity(s.Plan), s.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Subtask '%s' is now %s\n", st.ID, st.Status)
	return nil
}

// SubtasksDelCmd deletes a subtask
type SubtasksDelCmd struct {
	Plan string `arg:"" help:"Plan filename"`
	ID   string `arg:"" help:"Subtask ID"`
}

// Run executes the subtasks del command
func (s *SubtasksDelCmd) Run(cli *CLI) error {
	id := domain.NormalizeIdentity(s.Plan)
	logging.Logger.Info("Executing subtasks del command", "plan", id, "subtask", s.ID)

	if err := cli.Container.SubtaskService.DeleteSubtask(context.Background(), id, s.ID); err != nil {
		return err
	}

	fmt.Printf("Subtask '%s' deleted\n", s.ID)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
