package domain

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

var builtinStatuses = []string{StatusTodo, StatusInProgress, StatusReview, StatusCompleted}

var statusAliases = map[string]string{
	"todo":        StatusTodo,
	"to_do":       StatusTodo,
	"to-do":       StatusTodo,
	"backlog":     StatusTodo,
	"draft":       StatusTodo,
	"open":        StatusTodo,
	"in_progress": StatusInProgress,
	"in-progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"doing":       StatusInProgress,
	"active":      StatusInProgress,
	"progress":    StatusInProgress,
	"review":      StatusReview,
	"reviewing":   StatusReview,
	"qa":          StatusReview,
	"completed":   StatusCompleted,
	"complete":    StatusCompleted,
	"done":        StatusCompleted,
	"closed":      StatusCompleted,
}

// BuiltinStatuses returns the canonical plan statuses in workflow order
func BuiltinStatuses() []string {
	return slices.Clone(builtinStatuses)
}

// RawStatus resolves aliases of the built-in statuses and keeps custom
// values as given. Blank input resolves to todo.
func RawStatus(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return StatusTodo
	}
	if alias, ok := statusAliases[strings.ToLower(trimmed)]; ok {
		return alias
	}
	return trimmed
}

// IsBuiltinStatus reports whether status is one of the canonical statuses
func IsBuiltinStatus(status string) bool {
	return slices.Contains(builtinStatuses, status)
}

// MetadataField names a mutable column of the metadata row
type MetadataField string

const (
	FieldArchivedAt  MetadataField = "archivedAt"
	FieldAssignee    MetadataField = "assignee"
	FieldDueDate     MetadataField = "dueDate"
	FieldEstimate    MetadataField = "estimate"
	FieldPriority    MetadataField = "priority"
	FieldProjectPath MetadataField = "projectPath"
	FieldSessionID   MetadataField = "sessionId"
	FieldSource      MetadataField = "source"
	FieldStatus      MetadataField = "status"
	FieldTags        MetadataField = "tags"
)

var mutableFields = []MetadataField{
	FieldArchivedAt, FieldAssignee, FieldDueDate, FieldEstimate, FieldPriority,
	FieldProjectPath, FieldSessionID, FieldSource, FieldStatus, FieldTags,
}

// MutableFields returns the allow-list of fields accepted by field updates
func MutableFields() []MetadataField {
	return slices.Clone(mutableFields)
}

// ValidateField checks field against the allow-list
func ValidateField(field MetadataField) error {
	if !slices.Contains(mutableFields, field) {
		return fmt.Errorf("%w: %s", ErrFieldNotMutable, field)
	}
	return nil
}

// FieldValue normalizes a value for field into the type stored for it:
// *string for text fields, []string for tags, *time.Time for archivedAt.
// nil clears the field.
func FieldValue(field MetadataField, value any) (any, error) {
	if err := ValidateField(field); err != nil {
		return nil, err
	}

	switch field {
	case FieldTags:
		switch v := value.(type) {
		case nil:
			return []string{}, nil
		case []string:
			return v, nil
		case string:
			return SplitList(v), nil
		}
	case FieldArchivedAt:
		switch v := value.(type) {
		case nil:
			return (*time.Time)(nil), nil
		case time.Time:
			return &v, nil
		case *time.Time:
			return v, nil
		case string:
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, fmt.Errorf("invalid %s value %q: %w", field, v, err)
			}
			return &t, nil
		}
	case FieldStatus, FieldSource:
		switch v := value.(type) {
		case string:
			if field == FieldStatus {
				v = RawStatus(v)
			} else if PlanSource(v) != SourceMarkdown && PlanSource(v) != SourceCodex {
				return nil, fmt.Errorf("invalid %s value %q", field, v)
			}
			return &v, nil
		case *string:
			if v != nil {
				return FieldValue(field, *v)
			}
		}
		return nil, fmt.Errorf("%s cannot be cleared", field)
	default:
		switch v := value.(type) {
		case nil:
			return (*string)(nil), nil
		case string:
			if strings.TrimSpace(v) == "" {
				return (*string)(nil), nil
			}
			return &v, nil
		case *string:
			return v, nil
		}
	}
	return nil, fmt.Errorf("unsupported value type %T for %s", value, field)
}

// ApplyField sets field on m using a value produced by FieldValue
func (m *PlanMetadata) ApplyField(field MetadataField, value any) {
	switch field {
	case FieldArchivedAt:
		m.ArchivedAt = value.(*time.Time)
	case FieldAssignee:
		m.Assignee = value.(*string)
	case FieldDueDate:
		m.DueDate = value.(*string)
	case FieldEstimate:
		m.Estimate = value.(*string)
	case FieldPriority:
		m.Priority = value.(*string)
	case FieldProjectPath:
		m.ProjectPath = value.(*string)
	case FieldSessionID:
		m.SessionID = value.(*string)
	case FieldSource:
		m.Source = PlanSource(*value.(*string))
	case FieldStatus:
		m.Status = *value.(*string)
	case FieldTags:
		m.Tags = value.([]string)
	}
}

// Progress summarizes subtask completion
type Progress struct {
	Done       int
	Percentage int
	Total      int
}

// SubtaskProgress counts done subtasks, rounding the percentage
func SubtaskProgress(subtasks []Subtask) Progress {
	p := Progress{Total: len(subtasks)}
	for _, s := range subtasks {
		if s.Status == SubtaskDone {
			p.Done++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Done) * 100 / float64(p.Total)))
	}
	return p
}
