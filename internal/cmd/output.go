package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/renato0307/agentplans/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// planView is the JSON shape of a plan
type planView struct {
	BlockedBy      []string      `json:"blockedBy"`
	Blocks         []string      `json:"blocks"`
	Content        string        `json:"content,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	Directory      string        `json:"directory,omitempty"`
	Filename       string        `json:"filename"`
	Metadata       metadataView  `json:"metadata"`
	ModifiedAt     time.Time     `json:"modifiedAt"`
	Preview        string        `json:"preview"`
	ReadOnly       bool          `json:"readOnly"`
	RelatedProject string        `json:"relatedProject,omitempty"`
	Sections       []string      `json:"sections"`
	Size           int64         `json:"size"`
	Source         string        `json:"source"`
	SourcePath     string        `json:"sourcePath"`
	Subtasks       []subtaskView `json:"subtasks"`
	Title          string        `json:"title"`
}

type metadataView struct {
	ArchivedAt  *time.Time      `json:"archivedAt,omitempty"`
	Assignee    string          `json:"assignee,omitempty"`
	DueDate     string          `json:"dueDate,omitempty"`
	Estimate    string          `json:"estimate,omitempty"`
	Priority    string          `json:"priority,omitempty"`
	Progress    domain.Progress `json:"progress"`
	ProjectPath string          `json:"projectPath,omitempty"`
	SessionID   string          `json:"sessionId,omitempty"`
	Status      string          `json:"status"`
	Tags        []string        `json:"tags"`
}

type subtaskView struct {
	Assignee  *string `json:"assignee"`
	DueDate   *string `json:"dueDate"`
	ID        string  `json:"id"`
	SortOrder int     `json:"sortOrder"`
	Status    string  `json:"status"`
	Title     string  `json:"title"`
}

func newPlanView(plan domain.Plan, withContent bool) planView {
	view := planView{
		BlockedBy:      orEmpty(plan.Dependencies.BlockedBy),
		Blocks:         orEmpty(plan.Dependencies.Blocks),
		CreatedAt:      plan.CreatedAt,
		Directory:      plan.Directory,
		Filename:       plan.Filename,
		ModifiedAt:     plan.ModifiedAt,
		Preview:        plan.Preview,
		ReadOnly:       plan.ReadOnly,
		RelatedProject: plan.RelatedProject,
		Sections:       orEmpty(plan.Sections),
		Size:           plan.Size,
		Source:         string(plan.Source),
		SourcePath:     plan.SourcePath,
		Subtasks:       newSubtaskViews(plan.Subtasks),
		Title:          plan.Title,
		Metadata: metadataView{
			ArchivedAt:  plan.Metadata.ArchivedAt,
			Assignee:    plan.Metadata.Assignee,
			DueDate:     plan.Metadata.DueDate,
			Estimate:    plan.Metadata.Estimate,
			Priority:    plan.Metadata.Priority,
			Progress:    plan.Metadata.Progress,
			ProjectPath: plan.Metadata.ProjectPath,
			SessionID:   plan.Metadata.SessionID,
			Status:      plan.Metadata.Status,
			Tags:        orEmpty(plan.Metadata.Tags),
		},
	}
	if withContent {
		view.Content = plan.Content
	}
	return view
}

func newSubtaskViews(subtasks []domain.Subtask) []subtaskView {
	views := make([]subtaskView, 0, len(subtasks))
	for _, st := range subtasks {
		views = append(views, subtaskView{
			Assignee:  st.Assignee,
			DueDate:   st.DueDate,
			ID:        st.ID,
			SortOrder: st.SortOrder,
			Status:    string(st.Status),
			Title:     st.Title,
		})
	}
	return views
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// readContent reads plan content from path, or stdin when path is "-"
func readContent(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read content file: %w", err)
	}
	return string(data), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
