package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
)

// SetCmd sets a single metadata field
type SetCmd struct {
	Clear bool `help:"Clear the field instead of setting it"`

	// Positional arguments, in command-line order
	ID    string `arg:"" help:"Plan filename"`
	Field string `arg:"" help:"Field name (assignee, dueDate, estimate, priority, projectPath, sessionId, status, tags, ...)"`
	Value string `arg:"" optional:"" help:"New value (tags are comma separated)"`
}

// Run executes the set command
func (s *SetCmd) Run(cli *CLI) error {
	id := domain.NormalizeIdentity(s.ID)
	field := domain.MetadataField(s.Field)
	if err := domain.ValidateField(field); err != nil {
		return fmt.Errorf("%w (allowed: %s)", err, joinFields(domain.MutableFields()))
	}

	var value any = s.Value
	if s.Clear {
		value = nil
	} else if s.Value == "" {
		return fmt.Errorf("a value or --clear is required")
	}

	logging.Logger.Info("Executing set command", "plan", id, "field", field, "clear", s.Clear)
	plan, err := cli.Container.PlanService.UpdateMetadataField(context.Background(), id, field, value)
	if err != nil {
		return err
	}

	fmt.Printf("Plan '%s' %s updated\n", plan.Filename, field)
	return nil
}

func joinFields(fields []domain.MetadataField) string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
